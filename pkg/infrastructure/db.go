package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "modernc.org/sqlite"
)

// OpenDB opens and pings a database/sql handle. driver is "pgx" or "sqlite".
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s: empty dsn", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
