package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Keys used by the editor.
const (
	KeyResumeData       = "resume_data"
	KeySelectedTemplate = "selectedTemplateId"
	KeyUser             = "app_user"
)

var ErrNotFound = errors.New("key not found")

// KV is a durable string key-value store, the server-side stand-in for
// browser local storage.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders to $n for postgres.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
