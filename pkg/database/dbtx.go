package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the common query interface satisfied by *pgxpool.Pool, pgx.Tx, and
// the pgxmock pool. Repositories depend on this so they can run against a
// pool, inside a transaction, or under a mock without code changes.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier is the statement-level subset of DBTX. Transaction-scoped helpers
// accept this so they work with either a pgx.Tx or a bare pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres SQLSTATE codes that signal a transient concurrency failure. Both
// mean the transaction lost a race with a concurrent one and is expected to
// succeed when rerun from the top.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err is a transient storage-level failure that a
// bounded retry of the whole transaction may resolve. It checks the structured
// SQLSTATE on pgconn.PgError rather than matching on error text, plus
// per-attempt deadline expiry. Validation and business-rule failures are never
// classified as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return true
		}
	}

	return errors.Is(err, context.DeadlineExceeded)
}
