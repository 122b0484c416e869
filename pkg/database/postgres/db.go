package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/code-vault-program/pkg/retry"
	"github.com/code-payments/code-vault-program/pkg/retry/backoff"
)

type txStructContextKey struct{}
type txIsolationContextKey struct{}

const (
	maxSerializationAttempts = 5
)

var (
	ErrAlreadyInTx = errors.New("already executing in existing db tx")
	ErrNotInTx     = errors.New("not executing in existing db tx")
)

// ExecuteRetryable runs fn again when Postgres aborts it with a
// serialization failure, up to a bounded number of attempts.
func ExecuteRetryable(fn func() error) error {
	_, err := retry.Retry(
		fn,
		retry.Limit(maxSerializationAttempts),
		retry.RetriableIf(IsSerializationFailure),
		retry.Backoff(backoff.BinaryExponential(10*time.Millisecond), 250*time.Millisecond),
	)
	return err
}

// ExecuteTxWithinCtx executes a DB transaction that's scoped to a call to fn. The transaction
// is passed along with the context. Once fn is complete, commit/rollback is called based
// on whether an error is returned.
func ExecuteTxWithinCtx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(context.Context) error) error {
	if isolation == sql.LevelDefault {
		isolation = sql.LevelReadCommitted
	}

	if ctx.Value(txStructContextKey{}) != nil {
		return ErrAlreadyInTx
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: isolation,
	})
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, txStructContextKey{}, tx)
	ctx = context.WithValue(ctx, txIsolationContextKey{}, isolation)

	if err := fn(ctx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w", rollbackErr)
		}
		return err
	}
	return tx.Commit()
}

// ExecuteInTx runs fn within a transaction. An existing transaction attached
// to the context by ExecuteTxWithinCtx is reused, in which case the caller
// that started it owns commit and rollback.
func ExecuteInTx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	if isolation == sql.LevelDefault {
		isolation = sql.LevelReadCommitted
	}

	tx, err := getTxFromCtx(ctx, isolation)
	if err != nil && err != ErrNotInTx {
		return err
	}

	startedNewTx := err == ErrNotInTx
	if startedNewTx {
		tx, err = db.BeginTxx(ctx, &sql.TxOptions{
			Isolation: isolation,
		})
		if err != nil {
			return err
		}
	}

	if err := fn(tx); err != nil {
		if startedNewTx {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return fmt.Errorf("failed to rollback transaction: %w", rollbackErr)
			}
		}
		return err
	}

	if startedNewTx {
		return tx.Commit()
	}
	return nil
}

func getTxFromCtx(ctx context.Context, desiredIsolation sql.IsolationLevel) (*sqlx.Tx, error) {
	txFromCtx := ctx.Value(txStructContextKey{})
	if txFromCtx == nil {
		return nil, ErrNotInTx
	}

	tx, ok := txFromCtx.(*sqlx.Tx)
	if !ok {
		return nil, errors.New("invalid type for tx")
	}

	currentIsolation, ok := ctx.Value(txIsolationContextKey{}).(sql.IsolationLevel)
	if !ok {
		return nil, errors.New("unexpectedly don't have isolation level set")
	}

	if currentIsolation < desiredIsolation {
		return nil, errors.New("current tx doesn't meet isolation level requirements")
	}

	return tx, nil
}
