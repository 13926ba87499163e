package concurrency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

func TestLockManager_TimeoutIsConflict(t *testing.T) {
	lm := NewLockManager()
	release, err := lm.Acquire(context.Background(), "emp-1", time.Second)
	require.NoError(t, err)
	defer release()

	_, err = lm.Acquire(context.Background(), "emp-1", 20*time.Millisecond)
	require.ErrorIs(t, err, ErrLockTimeout)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestLockManager_ContextCancelled(t *testing.T) {
	lm := NewLockManager()
	release, err := lm.Acquire(context.Background(), "emp-1", 0)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lm.Acquire(ctx, "emp-1", 0)
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, errors.Is(err, ErrLockTimeout))
}

func TestLockManager_IndependentKeys(t *testing.T) {
	lm := NewLockManager()
	r1, err := lm.Acquire(context.Background(), "emp-1", time.Second)
	require.NoError(t, err)
	r2, err := lm.Acquire(context.Background(), "emp-2", 50*time.Millisecond)
	require.NoError(t, err, "a different key must not wait")
	r1()
	r2()
	assert.Equal(t, 0, lm.Len(), "released keys are cleaned up")
}

func TestLockManager_ReleaseIsIdempotent(t *testing.T) {
	lm := NewLockManager()
	release, err := lm.Acquire(context.Background(), "emp-1", time.Second)
	require.NoError(t, err)
	release()
	release()

	again, err := lm.Acquire(context.Background(), "emp-1", 50*time.Millisecond)
	require.NoError(t, err)
	again()
}

// For any number of goroutines incrementing a shared counter under the same key,
// no increments are lost and at most one goroutine is inside the section at a time.
func TestLockManager_MutualExclusionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		workers := rapid.IntRange(2, 32).Draw(t, "workers")
		lm := NewLockManager()

		var inside, maxInside int32
		counter := 0
		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				<-start
				err := lm.WithLock(context.Background(), "shared", 5*time.Second, func() error {
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					counter++
					atomic.AddInt32(&inside, -1)
					return nil
				})
				if err != nil {
					panic(err)
				}
			}()
		}
		close(start)
		wg.Wait()

		if counter != workers {
			t.Fatalf("expected %d increments, got %d", workers, counter)
		}
		if maxInside != 1 {
			t.Fatalf("expected exclusive access, saw %d concurrent holders", maxInside)
		}
		if lm.Len() != 0 {
			t.Fatalf("expected lock table to be empty, has %d", lm.Len())
		}
	})
}
