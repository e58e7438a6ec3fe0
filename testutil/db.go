// Package testutil holds database helpers for integration tests. Every helper
// that takes a *testing.T skips the test when TEST_DATABASE_URL is unset.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for database/sql
)

const dsnEnv = "TEST_DATABASE_URL"

// NewPool returns a pgx pool on the test database, closed at test cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle on the test database for goose,
// closed at test cleanup.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openSQLDB(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MustOpenSQLDB is NewSQLDB for TestMain, where there is no *testing.T.
// It panics on failure and the caller closes the handle.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := openSQLDB(dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: " + err.Error())
	}
	return db
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skip(dsnEnv + " not set; skipping integration test")
	}
	return dsn
}
