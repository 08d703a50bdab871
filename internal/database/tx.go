package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTxRetriesExhausted is returned when a transaction kept conflicting
// with concurrent writers past the retry budget. The operation was never
// partially applied; callers should retry the whole request.
var ErrTxRetriesExhausted = errors.New("transaction conflict retries exhausted")

const txMaxAttempts = 3

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error. Serialization failures and deadlocks are retried from a
// fresh transaction, so fn must be safe to re-run from scratch: no side
// effects outside the transaction.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	var lastErr error

	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := runTx(ctx, pool, fn)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
		// Brief backoff before rereading contested rows
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}

	return fmt.Errorf("%w: %v", ErrTxRetriesExhausted, lastErr)
}

func runTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// retryable reports whether the error is a transient conflict worth
// re-running the transaction for: serialization failure (40001) or
// deadlock detected (40P01).
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
