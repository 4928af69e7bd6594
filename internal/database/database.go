package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/aicoconsole/internal/retry"
)

// NewDB opens a Postgres connection pool and verifies connectivity
func NewDB(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// The console serves a handful of operators plus device traffic;
	// a small pool is plenty and keeps Postgres connection usage low.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Postgres may still be coming up when the console starts alongside it
	err = retry.Do(context.Background(), retry.DefaultConfig(), "database ping", db.Ping)
	if err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, nil
}
