package concurrency

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

func TestRetryOnConflict_RetriesConflictsOnly(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), 3, nil, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: row locked", domain.ErrConcurrencyConflict)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOnConflict_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	retries := 0
	err := RetryOnConflict(context.Background(), 2, func(int, error) { retries++ }, func() error {
		calls++
		return ErrLockTimeout
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryOnConflict_PermanentErrorsReturnImmediately(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), 5, nil, func() error {
		calls++
		return domain.ErrAlreadyResolved
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	assert.Equal(t, 1, calls)
}

func TestRetryOnConflict_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryOnConflict(ctx, 5, nil, func() error {
		calls++
		return domain.ErrConcurrencyConflict
	})
	require.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
	assert.False(t, errors.Is(err, domain.ErrAlreadyResolved))
}
