package repo

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Backend names accepted by Open.
const (
	BackendDynamo   = "dynamodb"
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
	BackendNATS     = "nats"
	BackendMemory   = "memory"
)

// BackendConfig selects and configures a backend.
type BackendConfig struct {
	Kind string

	Table    string // DynamoDB and PostgreSQL table
	Region   string
	Endpoint string

	DSN string

	Neo4jURL  string
	Neo4jUser string
	Neo4jPass string

	NATSURL  string
	KVBucket string
}

func noop() error { return nil }

// Open connects the configured backend. The returned func releases its
// resources and is never nil.
func Open[V any](ctx context.Context, cfg BackendConfig) (Store[V], func() error, error) {
	switch cfg.Kind {
	case BackendDynamo, "":
		s, err := OpenDynamo[V](ctx, cfg.Region, cfg.Endpoint, cfg.Table)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case BackendPostgres:
		s, err := OpenPostgres[V](ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, noop, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, noop, err
		}
		return s, s.Close, nil

	case BackendNeo4j:
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return nil, noop, fmt.Errorf("neo4j driver: %w", err)
		}
		closeFn := func() error { return driver.Close(context.Background()) }
		return NewNeo4jStore[V](driver), closeFn, nil

	case BackendNATS:
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, noop, fmt.Errorf("nats connect: %w", err)
		}
		s, err := OpenNATSKV[V](nc, cfg.KVBucket)
		if err != nil {
			nc.Close()
			return nil, noop, err
		}
		return s, func() error { nc.Close(); return nil }, nil

	case BackendMemory:
		return NewMemoryStore[V](), noop, nil
	}
	return nil, noop, fmt.Errorf("repo: unknown backend %q", cfg.Kind)
}

// Label is the human-readable store name used in assignment messages.
func Label(kind string) string {
	switch kind {
	case BackendDynamo, "":
		return "DynamoDB"
	case BackendPostgres:
		return "PostgreSQL"
	case BackendNeo4j:
		return "Neo4j"
	case BackendNATS:
		return "NATS KV"
	case BackendMemory:
		return "memory store"
	}
	return kind
}
