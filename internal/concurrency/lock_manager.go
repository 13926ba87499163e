package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// ErrLockTimeout is returned when a keyed lock could not be acquired in time.
// It matches domain.ErrConcurrencyConflict.
var ErrLockTimeout = fmt.Errorf("%w: lock acquisition timed out", domain.ErrConcurrencyConflict)

type keyLock struct {
	slot chan struct{}
	refs int
}

// LockManager hands out one exclusive lock per key. Entries are removed once
// nobody holds or waits on them.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

func (lm *LockManager) ref(key string) *keyLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	l, ok := lm.locks[key]
	if !ok {
		l = &keyLock{slot: make(chan struct{}, 1)}
		lm.locks[key] = l
	}
	l.refs++
	return l
}

func (lm *LockManager) unref(key string, l *keyLock) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(lm.locks, key)
	}
}

// Acquire blocks until the key is free, the timeout passes, or ctx is done.
// A non-positive timeout waits on ctx only. The returned release func must be called once.
func (lm *LockManager) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	l := lm.ref(key)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case l.slot <- struct{}{}:
	case <-expired:
		lm.unref(key, l)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		lm.unref(key, l)
		return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.slot
			lm.unref(key, l)
		})
	}, nil
}

// WithLock runs fn while holding the lock for key
func (lm *LockManager) WithLock(ctx context.Context, key string, timeout time.Duration, fn func() error) error {
	release, err := lm.Acquire(ctx, key, timeout)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Len returns the number of keys currently held or waited on
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
