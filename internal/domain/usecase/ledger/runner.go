package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
)

// TxFunc is a unit of work executed inside one store transaction
type TxFunc func(txCtx context.Context) error

// Atomically runs fn in a store transaction. The transaction commits when fn
// returns nil and rolls back otherwise. Concurrency conflicts, whether raised
// by fn or by the commit, restart the whole unit with exponential backoff
// until the retry budget is spent. Any other error is returned immediately.
func (l *Ledger) Atomically(ctx context.Context, fn TxFunc) error {
	var err error

	for attempt := 0; attempt <= l.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoffWithJitter(attempt-1, l.retry)
			l.logger.Warn("Store transaction conflict, retrying", map[string]any{
				"attempt":     attempt,
				"max_retries": l.retry.MaxRetries,
				"error":       err.Error(),
				"retry_after": backoff.String(),
			})

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				l.logger.Warn("Retry canceled by context", map[string]any{
					"attempts": attempt,
					"error":    ctx.Err().Error(),
				})
				return ctx.Err()
			}
		}

		err = l.runOnce(ctx, fn)
		if err == nil || !errs.IsConcurrencyConflict(err) {
			return err
		}
	}

	l.logger.Error("Store transaction retries exhausted", map[string]any{
		"attempts": l.retry.MaxRetries + 1,
		"error":    err.Error(),
	})
	return err
}

func (l *Ledger) runOnce(ctx context.Context, fn TxFunc) (err error) {
	txCtx, err := l.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = l.uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err = fn(txCtx); err != nil {
		if rbErr := l.uow.Rollback(txCtx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err = l.uow.Commit(txCtx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// calculateBackoffWithJitter computes the backoff duration with exponential increase and jitter
func calculateBackoffWithJitter(attempt int, config RetryConfig) time.Duration {
	backoff := config.RetryInterval * (1 << uint(attempt))

	if config.MaxInterval > 0 && backoff > config.MaxInterval {
		backoff = config.MaxInterval
	}

	if config.JitterFactor > 0 {
		backoff += time.Duration(float64(backoff) * config.JitterFactor * rand.Float64())
	}

	return backoff
}
