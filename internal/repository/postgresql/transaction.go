package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTxConflict is surfaced once the bounded retries on lock/serialization
// conflicts are exhausted.
var ErrTxConflict = errors.New("transaction conflict after retries")

const maxTxAttempts = 3

type txKey struct{}

// WithTransaction executes fn inside a database transaction. The transaction
// is injected into the context so repositories pick it up via GetQuerier.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// WithPersonTx runs fn inside a transaction holding a per-person advisory
// lock, making check-then-act sequences (overlap-check-then-insert,
// state-read-then-transition) atomic with respect to other writers of the
// same person's records. Cross-person operations proceed in parallel.
// Serialization and deadlock failures are retried up to maxTxAttempts.
func WithPersonTx(ctx context.Context, db *database.DB, personID string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := WithTransaction(ctx, db, func(txCtx context.Context) error {
			q := GetQuerier(txCtx, db)
			if _, err := q.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, personID); err != nil {
				return fmt.Errorf("acquire person lock: %w", err)
			}
			return fn(txCtx)
		})
		if err == nil {
			return nil
		}
		if !isRetryablePgErr(err) {
			return err
		}
		lastErr = err
		slog.Warn("retrying person transaction after conflict",
			"person_id", personID, "attempt", attempt, "error", err)
	}
	return fmt.Errorf("%w: %v", ErrTxConflict, lastErr)
}

func isRetryablePgErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// GetQuerier returns either the context's transaction or the pool.
// Used in repositories to support both transactional and non-transactional
// operations.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
