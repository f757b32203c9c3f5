package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const settingsSchema = `
	CREATE TABLE IF NOT EXISTS settings (
		profile    TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (profile, key)
	);`

// LocalConnect opens the SQLite database at dbPath and makes sure the schema
// exists. ":memory:" gives a throwaway database.
func LocalConnect(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database connection: %w", err)
	}
	// One writer; SQLite serializes anyway.
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach local database %s: %w", dbPath, err)
	}
	if err := InitializeDB(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.DebugContext(ctx, "Connected to local database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB creates the tables used by the settings store.
func InitializeDB(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, settingsSchema); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}
	return nil
}
