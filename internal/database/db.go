// Package database provides database connection management for crewmatrix.
// It supports PostgreSQL via the pgx driver with connection pooling, schema
// migrations, and a shared error taxonomy for constraint violations.
package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clutchfab/crewmatrix/internal/config"
)

// DBInterface defines the interface for database operations.
// It mirrors the pgxpool.Pool methods the repositories use, which allows
// tests to swap in a pgxmock pool without touching repository code.
type DBInterface interface {
	// Query executes a query that returns rows
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)

	// QueryRow executes a query that returns at most one row
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row

	// Exec executes a query without returning any rows
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)

	// Begin starts a transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Ping verifies a connection to the database is still alive
	Ping(ctx context.Context) error

	// Close closes all connections in the pool
	Close()
}

// DB is the global database connection pool.
// In production it holds a *pgxpool.Pool; tests replace it with a mock.
var DB DBInterface

// Connect establishes the connection pool described by cfg and verifies
// connectivity with a ping. On success the global DB is set.
func Connect(cfg config.DatabaseConfig) error {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = pool
	log.Println("database connected")
	return nil
}

// Close closes the database connection pool gracefully.
// Safe to call multiple times or when DB is nil.
func Close() {
	if DB != nil {
		DB.Close()
		log.Println("database connection closed")
		DB = nil
	}
}

// IsConnected returns true if the database connection is established and healthy.
func IsConnected() bool {
	if DB == nil {
		return false
	}
	return DB.Ping(context.Background()) == nil
}
