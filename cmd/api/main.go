// Package main implements the scenario API server: the tool registry over
// HTTP with JSON arguments and results.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/app"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/config"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/mid"
)

func main() {
	cfg, warnings := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	for _, w := range warnings {
		logger.Warn(w)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := mid.Chain(newMux(a, logger),
		mid.Recover(logger),
		mid.RequestID(),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("scenario-api"),
		mid.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "store", cfg.Store.Kind, "templates", a.Catalog.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
