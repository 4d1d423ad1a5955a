package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DefaultTable is the table or bucket name used when none is configured.
const DefaultTable = "mock-itr-scenarios"

// PostgresStore keeps records in a table with a JSONB value column.
type PostgresStore[V any] struct {
	db    *sqlx.DB
	table string
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore[V any](db *sqlx.DB, table string) *PostgresStore[V] {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore[V]{db: db, table: table}
}

// OpenPostgres connects with the lib/pq driver.
func OpenPostgres[V any](ctx context.Context, dsn, table string) (*PostgresStore[V], error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return NewPostgresStore[V](db, table), nil
}

var _ Store[any] = (*PostgresStore[any])(nil)

type pgRow struct {
	Key   string `db:"user_ern"`
	Value []byte `db:"scenario_config"`
}

func (s *PostgresStore[V]) quoted() string {
	return `"` + s.table + `"`
}

// Migrate creates the table if it does not exist.
func (s *PostgresStore[V]) Migrate(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	user_ern TEXT PRIMARY KEY,
	scenario_config JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.quoted())
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore[V]) Put(ctx context.Context, key string, v V) error {
	b, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("postgres: encode %s: %w", key, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (user_ern, scenario_config, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_ern) DO UPDATE SET scenario_config = EXCLUDED.scenario_config, updated_at = now()`, s.quoted())
	_, err = s.db.ExecContext(ctx, q, key, b)
	return err
}

func (s *PostgresStore[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	var row pgRow
	q := fmt.Sprintf(`SELECT user_ern, scenario_config FROM %s WHERE user_ern = $1`, s.quoted())
	if err := s.db.GetContext(ctx, &row, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return decodeValue[V](row.Value)
}

func (s *PostgresStore[V]) Delete(ctx context.Context, key string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE user_ern = $1`, s.quoted())
	_, err := s.db.ExecContext(ctx, q, key)
	return err
}

// Close releases the underlying connection pool.
func (s *PostgresStore[V]) Close() error { return s.db.Close() }
