package repository

import (
	"context"
	"database/sql"

	"resume-builder/internal/domain"
)

type ExportJobsRepo struct {
	db      *sql.DB
	dialect Dialect
}

func NewExportJobsRepo(db *sql.DB, dialect Dialect) *ExportJobsRepo {
	return &ExportJobsRepo{db: db, dialect: dialect}
}

// Save upserts the job row. It is a no-op without a database.
func (r *ExportJobsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO export_jobs (id, format, title, filename, status, error, size, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET filename = EXCLUDED.filename, status = EXCLUDED.status, error = EXCLUDED.error, size = EXCLUDED.size, updated_at = EXCLUDED.updated_at`),
		j.ID.String(), j.Format, j.Title, j.Filename, j.Status, j.Error, j.Size, j.CreatedAt, j.UpdatedAt)
	return err
}

// Recent returns the latest jobs, newest first.
func (r *ExportJobsRepo) Recent(ctx context.Context, limit int) ([]domain.ExportJob, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`SELECT id, format, title, filename, status, error, size, created_at, updated_at
		FROM export_jobs ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExportJob
	for rows.Next() {
		var (
			j  domain.ExportJob
			id string
		)
		if err := rows.Scan(&id, &j.Format, &j.Title, &j.Filename, &j.Status, &j.Error, &j.Size, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		if err := j.ID.Scan(id); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
