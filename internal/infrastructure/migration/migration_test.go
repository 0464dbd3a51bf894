package migration

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func TestRunMigrationsOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS export_jobs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_export_jobs_created_at").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").WillReturnError(errors.New("denied"))

	err = RunMigrations(context.Background(), db, zap.NewNop())
	assert.EqualError(t, err, "denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsSQLiteTwice(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, db, zap.NewNop()))
	require.NoError(t, RunMigrations(ctx, db, zap.NewNop()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM export_jobs`).Scan(&n))
	assert.Zero(t, n)
}
