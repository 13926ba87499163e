package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyBus struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (b *flakyBus) Publish(context.Context, Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.failures < 0 || b.calls <= b.failures {
		return errors.New("bus unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func fastConfig() ResilientConfig {
	return ResilientConfig{MaxRetries: 3, RetryDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestResilientPublisher_SucceedsFirstTry(t *testing.T) {
	bus := &flakyBus{}
	p := NewResilientPublisher(bus, fastConfig(), nil)

	require.NoError(t, p.Publish(context.Background(), New(GamePlayed, nil)))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, 1, bus.Calls())
}

func TestResilientPublisher_RetriesInBackground(t *testing.T) {
	bus := &flakyBus{failures: 2}
	p := NewResilientPublisher(bus, fastConfig(), nil)

	require.NoError(t, p.Publish(context.Background(), New(GamePlayed, nil)))
	assert.Eventually(t, func() bool { return bus.Calls() == 3 }, time.Second, time.Millisecond)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestResilientPublisher_DeadLettersAfterExhaustion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dead.jsonl")
	dlw, err := NewDeadLetterWriter(path)
	require.NoError(t, err)
	defer dlw.Close()

	bus := &flakyBus{failures: -1}
	p := NewResilientPublisher(bus, fastConfig(), dlw)

	evt := New(TokensExchanged, nil)
	require.NoError(t, p.Publish(context.Background(), evt))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p.wg.Wait()
	require.NoError(t, p.Shutdown(ctx))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
	assert.Equal(t, evt.ID, entry.Event.ID)
	assert.Equal(t, 5, entry.Attempts)
	assert.Equal(t, "bus unavailable", entry.LastError)
	assert.False(t, sc.Scan())
	assert.Equal(t, 1, dlw.Written())
}
