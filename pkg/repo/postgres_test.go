package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresStore[payload], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore[payload](sqlx.NewDb(db, "sqlmock"), ""), mock
}

func TestPostgresPutUpserts(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "mock-itr-scenarios" (user_ern, scenario_config, updated_at)`)).
		WithArgs("ern-1", []byte(`{"name":"a","attrs":null}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Put(context.Background(), "ern-1", payload{Name: "a"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet(t *testing.T) {
	s, mock := newMockPostgres(t)
	rows := sqlmock.NewRows([]string{"user_ern", "scenario_config"}).
		AddRow("ern-1", []byte(`{"name":"b","attrs":{"k":"v"}}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_ern, scenario_config FROM "mock-itr-scenarios" WHERE user_ern = $1`)).
		WithArgs("ern-1").
		WillReturnRows(rows)

	got, err := s.Get(context.Background(), "ern-1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, "v", got.Attrs["k"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_ern, scenario_config FROM`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_ern", "scenario_config"}))

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteAndFailure(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "mock-itr-scenarios" WHERE user_ern = $1`)).
		WithArgs("ern-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM`)).
		WithArgs("ern-2").
		WillReturnError(errors.New("connection refused"))

	require.NoError(t, s.Delete(context.Background(), "ern-1"))
	assert.EqualError(t, s.Delete(context.Background(), "ern-2"), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgresStore[payload](sqlx.NewDb(db, "sqlmock"), "assignments")

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "assignments"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
