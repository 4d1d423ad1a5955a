// Package tools exposes the scenario operations as named tools with JSON
// schemas, the dispatch boundary shared by the HTTP API and the CLI.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/assign"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/catalog"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/fn"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/metrics"
)

// ErrUnknownTool is returned by Call and Dispatch for an unregistered name.
var ErrUnknownTool = errors.New("unknown tool")

// Assigner performs store-backed assignment. *assign.Service satisfies it.
type Assigner interface {
	Assign(ctx context.Context, req assign.Request) (assign.Result, error)
	Unassign(ctx context.Context, ern string) (assign.Result, error)
}

// Handler runs one tool.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool is one registered operation.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`

	handler Handler
}

// Deps are the collaborators tools need. A nil Catalog is empty, a nil
// Assigner reports every store call as failed and a nil Logger is
// slog.Default().
type Deps struct {
	Catalog  *catalog.Catalog
	Assigner Assigner
	Logger   *slog.Logger
	Metrics  *metrics.Registry
}

// Registry holds the tools in registration order.
type Registry struct {
	catalog  *catalog.Catalog
	assigner Assigner
	logger   *slog.Logger
	metrics  *metrics.Registry

	tools  []Tool
	byName map[string]int
}

// New builds the registry with every scenario tool.
func New(d Deps) *Registry {
	r := &Registry{
		catalog:  d.Catalog,
		assigner: d.Assigner,
		logger:   d.Logger,
		metrics:  d.Metrics,
		byName:   make(map[string]int),
	}
	if r.catalog == nil {
		r.catalog = catalog.New()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.assigner == nil {
		r.assigner = assign.NewService(failingStore{}, r.catalog, assign.WithLogger(r.logger))
	}
	for _, t := range r.definitions() {
		r.byName[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r
}

// Tools returns the registered tools in order.
func (r *Registry) Tools() []Tool {
	return append([]Tool{}, r.tools...)
}

// Lookup returns the tool called name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Call runs the named tool. Rejected input comes back as an error; see
// ErrorPayload.
func (r *Registry) Call(ctx context.Context, name string, args Args) (any, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = Args{}
	}
	start := time.Now()
	stage := fn.TracedStage("tool."+name, fn.Lift[Args, any](t.handler))
	out, err := stage(ctx, args).Unwrap()
	r.observe(name, start, err)
	return out, err
}

// Dispatch runs the named tool and folds input rejections into their
// payloads. The returned bool reports whether the payload is an error.
// Only unknown tools and unexpected failures return an error.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (any, bool, error) {
	out, err := r.Call(ctx, name, args)
	if err == nil {
		return out, false, nil
	}
	if p, ok := ErrorPayload(err); ok {
		return p, true, nil
	}
	return nil, true, err
}

func (r *Registry) observe(name string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if _, ok := ErrorPayload(err); !ok {
			outcome = "error"
		}
		r.logger.Warn("tool call failed", "tool", name, "outcome", outcome, "err", err)
	} else {
		r.logger.Debug("tool call", "tool", name, "duration", time.Since(start))
	}
	if r.metrics == nil {
		return
	}
	r.metrics.Counter(metrics.WithLabels("tool_calls_total", "tool", name, "outcome", outcome), "Tool calls by outcome.").Inc()
	r.metrics.Histogram(metrics.WithLabels("tool_call_seconds", "tool", name), "Tool call latency.", nil).Since(start)
}

// failingStore backs the default Assigner when no store is configured, so
// assignment degrades to the manual-storage payload.
type failingStore struct{}

var errNoStore = errors.New("no scenario store configured")

func (failingStore) Put(context.Context, string, scenario.Representation) error { return errNoStore }
func (failingStore) Delete(context.Context, string) error                       { return errNoStore }
