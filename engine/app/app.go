// Package app assembles the catalog, the assignment store and service, and
// the tool registry from configuration. Both binaries start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/assign"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/catalog"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/tools"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/config"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/metrics"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/natsutil"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/repo"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/resilience"
)

// App is a fully wired scenario service.
type App struct {
	Catalog *catalog.Catalog
	Store   repo.Store[scenario.Representation]
	Service *assign.Service
	Tools   *tools.Registry
	Metrics *metrics.Registry
	Breaker *resilience.Breaker

	closers []func() error
}

// Close releases the store and the event connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadCatalog resolves the templates directory from cfg and reads it. A
// missing configuration or directory yields an empty catalog and a warning.
func LoadCatalog(cfg config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	dir, err := catalog.Resolve(cfg.LoaderRoot, cfg.TemplatesDir)
	if err != nil {
		logger.Warn("templates disabled", "err", err)
		return catalog.New(), nil
	}
	cat, warnings, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	logger.Info("templates loaded", "dir", dir, "count", cat.Len())
	return cat, nil
}

// Build wires an App from cfg. Failing to reach NATS for events is logged
// and events are disabled; any other failure is returned.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	cat, err := LoadCatalog(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	store, closeStore, err := repo.Open[scenario.Representation](ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
	}
	a := &App{Catalog: cat, Store: store, Metrics: metrics.New(), closers: []func() error{closeStore}}

	state := a.Metrics.Gauge("scenario_store_breaker_state", "Store circuit breaker state (0 closed, 1 open, 2 half-open).")
	a.Breaker = resilience.NewBreaker(resilience.BreakerOpts{
		Name:          repo.Label(cfg.Store.Kind),
		FailThreshold: cfg.BreakerFailThreshold,
		Timeout:       cfg.BreakerTimeout,
		HalfOpenMax:   1,
		OnStateChange: func(name string, from, to resilience.State) {
			state.Set(int64(to))
			logger.Warn("store breaker state change", "store", name, "from", from.String(), "to", to.String())
		},
	})

	opts := []assign.Option{
		assign.WithBreaker(a.Breaker),
		assign.WithLogger(logger),
		assign.WithMetrics(a.Metrics),
		assign.WithStoreLabel(repo.Label(cfg.Store.Kind)),
	}
	if cfg.EventsSubject != "" {
		nc, err := nats.Connect(cfg.Store.NATSURL, nats.Name("scenario-events"))
		if err != nil {
			logger.Warn("assignment events disabled", "nats_url", cfg.Store.NATSURL, "err", err)
		} else {
			a.closers = append(a.closers, func() error { return nc.Drain() })
			opts = append(opts, assign.WithNotifier(natsutil.NewPublisher[assign.Event](nc, cfg.EventsSubject)))
			logger.Info("assignment events enabled", "subject", cfg.EventsSubject)
		}
	}

	a.Service = assign.NewService(store, cat, opts...)
	a.Tools = tools.New(tools.Deps{Catalog: cat, Assigner: a.Service, Logger: logger, Metrics: a.Metrics})
	return a, nil
}
