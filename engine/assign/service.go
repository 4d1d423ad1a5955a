package assign

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/catalog"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/fn"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/metrics"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/resilience"
)

// Event types published after a successful store call.
const (
	EventAssigned   = "assigned"
	EventUnassigned = "unassigned"
)

// Event announces an assignment change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserERN    string    `json:"user_ern"`
	TemplateID string    `json:"template_id,omitempty"`
	At         time.Time `json:"at"`
}

// Notifier publishes assignment events. Publishing failures are logged and
// never change the Result.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// Service wraps Assign and Unassign with a circuit breaker, tracing,
// logging, metrics and event publication.
type Service struct {
	store    Store
	catalog  *catalog.Catalog
	breaker  *resilience.Breaker
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Registry
	label    string
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBreaker guards store calls with b.
func WithBreaker(b *resilience.Breaker) Option { return func(s *Service) { s.breaker = b } }

// WithNotifier publishes events after successful store calls.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithMetrics records call counts and store latency in r.
func WithMetrics(r *metrics.Registry) Option { return func(s *Service) { s.metrics = r } }

// WithStoreLabel names the store in failure descriptions.
func WithStoreLabel(label string) Option { return func(s *Service) { s.label = label } }

// NewService creates a Service over store and cat.
func NewService(store Store, cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: cat,
		logger:  slog.Default(),
		label:   DefaultStoreLabel,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.New()
	}
	return s
}

// guardedStore routes calls through the breaker and records latency.
type guardedStore struct{ s *Service }

func (g guardedStore) call(ctx context.Context, op string, f func(context.Context) error) error {
	start := time.Now()
	var err error
	if g.s.breaker != nil {
		err = g.s.breaker.Call(ctx, f)
	} else {
		err = f(ctx)
	}
	if g.s.metrics != nil {
		g.s.metrics.Histogram(metrics.WithLabels("scenario_store_seconds", "op", op), "Scenario store call latency.", nil).Since(start)
	}
	return err
}

func (g guardedStore) Put(ctx context.Context, key string, data scenario.Representation) error {
	return g.call(ctx, "put", func(ctx context.Context) error { return g.s.store.Put(ctx, key, data) })
}

func (g guardedStore) Delete(ctx context.Context, key string) error {
	return g.call(ctx, "delete", func(ctx context.Context) error { return g.s.store.Delete(ctx, key) })
}

func (s *Service) count(op string, r Result, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "rejected"
	case !r.Success:
		outcome = "store_error"
	}
	s.metrics.Counter(metrics.WithLabels("scenario_assignments_total", "op", op, "outcome", outcome), "Assignment operations by outcome.").Inc()
}

func (s *Service) publish(ctx context.Context, typ, ern, templateID string) {
	if s.notifier == nil {
		return
	}
	ev := Event{ID: uuid.NewString(), Type: typ, UserERN: ern, TemplateID: templateID, At: s.now().UTC()}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("assignment event publish failed", "user_ern", ern, "type", typ, "err", err)
	}
}

type resolved struct {
	ern  string
	data scenario.Representation
}

// Assign resolves req and stores it under req.ExternalID.
func (s *Service) Assign(ctx context.Context, req Request) (Result, error) {
	resolve := fn.Lift(func(_ context.Context, req Request) (resolved, error) {
		data, err := Resolve(req, s.catalog)
		return resolved{ern: req.ExternalID, data: data}, err
	})
	store := fn.Lift(func(ctx context.Context, r resolved) (Result, error) {
		return put(ctx, guardedStore{s}, r.ern, r.data, s.label), nil
	})
	stage := fn.TracedStage("scenario.assign", fn.Then(resolve, store))
	res, err := stage(ctx, req).Unwrap()
	s.count("assign", res, err)
	switch {
	case err != nil:
		s.logger.Info("assign rejected", "user_ern", req.ExternalID, "err", err)
	case !res.Success:
		s.logger.Error("assign failed", "user_ern", req.ExternalID, "err", res.Err)
	default:
		s.logger.Info("scenario assigned", "user_ern", req.ExternalID, "template_id", req.TemplateID)
		templateID := req.TemplateID
		if len(req.Scenario) > 0 {
			templateID = ""
		}
		s.publish(ctx, EventAssigned, req.ExternalID, templateID)
	}
	return res, err
}

// Unassign removes the assignment for ern.
func (s *Service) Unassign(ctx context.Context, ern string) (Result, error) {
	stage := fn.TracedStage("scenario.unassign", fn.Lift(func(ctx context.Context, ern string) (Result, error) {
		return unassignWith(ctx, guardedStore{s}, ern, s.label)
	}))
	res, err := stage(ctx, ern).Unwrap()
	s.count("unassign", res, err)
	switch {
	case err != nil:
		s.logger.Info("unassign rejected", "err", err)
	case !res.Success:
		s.logger.Error("unassign failed", "user_ern", ern, "err", res.Err)
	default:
		s.logger.Info("scenario unassigned", "user_ern", ern)
		s.publish(ctx, EventUnassigned, ern, "")
	}
	return res, err
}
