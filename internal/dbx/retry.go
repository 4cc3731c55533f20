package dbx

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// Postgres SQLSTATE codes that signal a lost race between transactions.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// RetryPolicy controls how conflicting transactions are retried.
type RetryPolicy struct {
	MaxRetries uint64
	Base       time.Duration
}

// DefaultRetryPolicy retries a conflicting transaction up to five times,
// starting at 10ms and doubling.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 5, Base: 10 * time.Millisecond}

// IsConflict reports whether err means another writer won the race and the
// whole read-modify-write should run again.
func IsConflict(err error) bool {
	if errors.Is(err, common.ErrVersionConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

// WithRetryTx runs fn inside WithTx and re-runs the whole transaction when it
// fails with a conflict (see IsConflict). Other errors are returned as is.
func WithRetryTx(ctx context.Context, db *sql.DB, policy RetryPolicy, fn func(ctx context.Context, tx DBTX) error) error {
	backoff := retry.WithMaxRetries(policy.MaxRetries, retry.NewExponential(policy.Base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := WithTx(ctx, db, nil, fn)
		if err != nil && IsConflict(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
