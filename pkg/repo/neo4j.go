package repo

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// result is the minimal interface needed from a neo4j result.
type result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Consume(ctx context.Context) (neo4j.ResultSummary, error)
}

// runner is the minimal interface needed from a neo4j session.
type runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (result, error)
	Close(ctx context.Context) error
}

// Neo4jStore keeps one node per key. The value is stored as a JSON string
// property since Neo4j properties cannot hold nested maps.
type Neo4jStore[V any] struct {
	driver     neo4j.DriverWithContext
	label      string
	newSession func(ctx context.Context) runner // for testing
}

// Neo4jOption configures a Neo4jStore.
type Neo4jOption[V any] func(*Neo4jStore[V])

// WithLabel sets the node label (default "ScenarioAssignment").
func WithLabel[V any](label string) Neo4jOption[V] {
	return func(s *Neo4jStore[V]) { s.label = label }
}

// NewNeo4jStore creates a Neo4j-backed store.
func NewNeo4jStore[V any](driver neo4j.DriverWithContext, opts ...Neo4jOption[V]) *Neo4jStore[V] {
	s := &Neo4jStore[V]{driver: driver, label: "ScenarioAssignment"}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ Store[any] = (*Neo4jStore[any])(nil)

// neo4jSessionAdapter adapts neo4j.SessionWithContext to the runner interface.
type neo4jSessionAdapter struct {
	sess neo4j.SessionWithContext
}

func (a *neo4jSessionAdapter) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	return a.sess.Run(ctx, cypher, params)
}

func (a *neo4jSessionAdapter) Close(ctx context.Context) error {
	return a.sess.Close(ctx)
}

func (s *Neo4jStore[V]) session(ctx context.Context) runner {
	if s.newSession != nil {
		return s.newSession(ctx)
	}
	return &neo4jSessionAdapter{sess: s.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

func (s *Neo4jStore[V]) Put(ctx context.Context, key string, v V) error {
	b, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("neo4j: encode %s: %w", key, err)
	}
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MERGE (n:%s {%s: $key}) SET n.%s = $value, n.updated_at = datetime()", s.label, KeyAttr, ValueAttr)
	res, err := sess.Run(ctx, cypher, map[string]any{"key": key, "value": string(b)})
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func (s *Neo4jStore[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MATCH (n:%s {%s: $key}) RETURN n.%s AS value", s.label, KeyAttr, ValueAttr)
	res, err := sess.Run(ctx, cypher, map[string]any{"key": key})
	if err != nil {
		return zero, err
	}
	if !res.Next(ctx) {
		return zero, ErrNotFound
	}
	rec := res.Record()
	if len(rec.Values) == 0 {
		return zero, fmt.Errorf("neo4j: %s: empty record", key)
	}
	raw, ok := rec.Values[0].(string)
	if !ok {
		return zero, fmt.Errorf("neo4j: %s: unexpected value type %T", key, rec.Values[0])
	}
	return decodeValue[V]([]byte(raw))
}

func (s *Neo4jStore[V]) Delete(ctx context.Context, key string) error {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MATCH (n:%s {%s: $key}) DELETE n", s.label, KeyAttr)
	res, err := sess.Run(ctx, cypher, map[string]any{"key": key})
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}
