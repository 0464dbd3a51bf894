package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLKV stores keys in the kv_store table created by the migration runner.
type SQLKV struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLKV(db *sql.DB, dialect Dialect) *SQLKV {
	return &SQLKV{db: db, dialect: dialect}
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT value FROM kv_store WHERE key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`),
		key, value, time.Now().UTC())
	return err
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM kv_store WHERE key = ?`), key)
	return err
}
