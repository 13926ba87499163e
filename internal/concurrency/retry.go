package concurrency

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// Retry defaults for conflicting transactions
const (
	DefaultConflictRetries = 3
	conflictInitialBackoff = 10 * time.Millisecond
	conflictMaxBackoff     = 200 * time.Millisecond
)

// RetryOnConflict runs fn until it succeeds, returns an error other than
// domain.ErrConcurrencyConflict, or maxRetries retries have failed. onRetry, if set,
// is called before each retry.
func RetryOnConflict(ctx context.Context, maxRetries int, onRetry func(attempt int, err error), fn func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = conflictInitialBackoff
	b.MaxInterval = conflictMaxBackoff
	b.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, _ time.Duration) {
		attempt++
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
	return backoff.RetryNotify(op, policy, notify)
}
