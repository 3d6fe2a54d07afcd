// Package store wraps the Postgres connection pool. The gateway itself keeps
// no persistent state; the pool exists for the database health probe and for
// deployments that co-locate the gateway with an application database.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is a thin wrapper over a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for the given DSN and verifies it with one ping.
func Connect(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store: empty database URL")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Ping probes the database with a trivial query.
func (db *DB) Ping(ctx context.Context) error {
	var one int
	if err := db.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.pool.Close()
}
