// Package repo contains all database access logic for the Trip Share API.
// Each resource has its own file with an interface and a Postgres implementation.
// Only SQL and type mapping live here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner starts a transaction. *pgxpool.Pool starts a real one; pgx.Tx
// starts a savepoint, which keeps test rollback isolation intact.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos groups the repositories that must share one database handle, so a
// service can run several writes in a single transaction.
type Repos struct {
	Users    UserRepo
	Trips    TripRepo
	Bookings BookingRepo
}

// NewRepos builds every repository on the same db handle.
func NewRepos(db db) Repos {
	return Repos{
		Users:    NewUserRepo(db),
		Trips:    NewTripRepo(db),
		Bookings: NewBookingRepo(db),
	}
}

// Transactor runs fn inside a database transaction. The Repos passed to fn are
// bound to that transaction; the transaction commits when fn returns nil and
// rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

// pgTransactor is the Postgres implementation of Transactor.
type pgTransactor struct {
	db beginner
}

// NewTransactor constructs a Transactor. In production pass *pgxpool.Pool;
// in tests pass a pgx.Tx so the nested transaction becomes a savepoint.
func NewTransactor(db beginner) Transactor {
	return &pgTransactor{db: db}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Transactor.WithinTx: %w", err)
	}
	return nil
}

// Postgres SQLSTATE codes mapped to domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// pgErrorCode returns the SQLSTATE of err if it wraps a *pgconn.PgError.
func pgErrorCode(err error) (code, constraint string) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code, pe.ConstraintName
	}
	return "", ""
}
