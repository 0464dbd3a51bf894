package migration

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, db *sql.DB) error
}

// Migrations returns the ordered schema steps. All statements are
// idempotent and valid for both postgres and sqlite.
func Migrations() []Migration {
	return []Migration{
		{Name: "create_kv_store", Up: createKVStore},
		{Name: "create_export_jobs", Up: createExportJobs},
		{Name: "index_export_jobs_created_at", Up: indexExportJobs},
	}
}

// RunMigrations executes all migrations in order and stops at the first failure.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	logger.Info("starting database migrations")
	for _, m := range Migrations() {
		if err := m.Up(ctx, db); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}
	logger.Info("all migrations completed")
	return nil
}

func createKVStore(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`)
	return err
}

func createExportJobs(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS export_jobs (
			id TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			filename TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`)
	return err
}

func indexExportJobs(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_export_jobs_created_at ON export_jobs (created_at)`)
	return err
}
