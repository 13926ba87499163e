package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

type Type string

// Event is one economy state change. Payload holds a domain payload struct
// in process and decoded JSON once read back from the dead-letter log.
type Event struct {
	ID         string            `json:"id"`
	Version    string            `json:"version"`
	Type       Type              `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Payload    interface{}       `json:"payload"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Economy event types
const (
	GameAwarded           Type = domain.EventTypeGameAwarded
	GamePlayed            Type = domain.EventTypeGamePlayed
	PoolExhausted         Type = domain.EventTypePoolExhausted
	TokensExchanged       Type = domain.EventTypeTokensExchanged
	TokensAutoReversed    Type = domain.EventTypeTokensAutoReversed
	ConfigUpdated         Type = domain.EventTypeConfigUpdated
	MonthlyResetCompleted Type = domain.EventTypeMonthlyResetCompleted
)

// New builds an event with a fresh id and the current schema version
func New(eventType Type, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Version:    EventSchemaVersion,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Handler func(ctx context.Context, event Event) error

// Publisher is the narrow interface services depend on
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus adds subscription to Publisher
type Bus interface {
	Publisher
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus delivers events synchronously to in-process subscribers
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Publish runs every subscriber of the event type in registration order.
// A failing handler does not stop the rest; all failures come back joined.
func (b *MemoryBus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	subs := b.handlers[evt.Type]
	b.mu.RUnlock()

	var failed []error
	for _, h := range subs {
		if err := h(ctx, evt); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf(LogMsgHandlerErrorFormat, len(failed), evt.Type, errors.Join(failed...))
}

func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
