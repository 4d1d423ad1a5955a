package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/app"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/tools"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/mid"
)

const maxBody = 1 << 20

func newMux(a *app.App, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/tools", handleListTools(a.Tools, logger))
	mux.HandleFunc("POST /api/tools/{name}", handleCallTool(a.Tools, logger))
	mux.HandleFunc("GET /api/resources", handleListResources(a.Tools, logger))
	mux.HandleFunc("GET /api/resources/read", handleReadResource(a.Tools, logger))
	mux.Handle("GET /metrics", a.Metrics.Handler())
	return mux
}

// writeJSON writes v with status. Headers are already sent when encoding
// fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("write response", "status", status, "err", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, slog.Default(), http.StatusOK, map[string]string{"status": "ok"})
}

func handleListTools(reg *tools.Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]any{"tools": reg.Tools()})
	}
}

// handleCallTool runs a tool with the JSON object in the body as its
// arguments. An empty body means no arguments.
func handleCallTool(reg *tools.Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			mid.WriteError(w, logger, http.StatusBadRequest, "invalid request body")
			return
		}
		args := tools.Args{}
		if len(body) > 0 {
			data, err := scenario.ParseText(body)
			if err != nil {
				mid.WriteError(w, logger, http.StatusBadRequest, "arguments must be a JSON object")
				return
			}
			args = tools.Args(data)
		}

		out, isErr, err := reg.Dispatch(r.Context(), name, args)
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			mid.WriteError(w, logger, http.StatusNotFound, err.Error())
		case err != nil:
			logger.Error("tool call failed", "tool", name, "err", err)
			mid.WriteError(w, logger, http.StatusInternalServerError, "internal server error")
		case isErr:
			writeJSON(w, logger, http.StatusBadRequest, out)
		default:
			writeJSON(w, logger, http.StatusOK, out)
		}
	}
}

func handleListResources(reg *tools.Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]any{"resources": reg.Resources()})
	}
}

func handleReadResource(reg *tools.Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.Query().Get("uri")
		out, err := reg.ReadResource(uri)
		if err != nil {
			mid.WriteError(w, logger, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, logger, http.StatusOK, out)
	}
}
