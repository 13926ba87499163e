package event

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	MaxDelay   time.Duration
}

// ResilientPublisher wraps a Bus. The first delivery attempt is synchronous;
// failures are retried in the background with exponential backoff and end up
// in the dead-letter file when retries run out.
type ResilientPublisher struct {
	inner      Bus
	config     ResilientConfig
	deadLetter *DeadLetterWriter

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// NewResilientPublisher creates a new ResilientPublisher. deadLetter may be nil,
// in which case exhausted events are only logged.
func NewResilientPublisher(inner Bus, config ResilientConfig, deadLetter *DeadLetterWriter) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultMaxDelay
	}
	return &ResilientPublisher{
		inner:      inner,
		config:     config,
		deadLetter: deadLetter,
		shutdown:   make(chan struct{}),
	}
}

// Publish never returns the delivery error; a failed first attempt is handed to the
// background retry loop.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"event_id", event.ID,
		"error", err)

	p.wg.Add(1)
	go p.retry(event, err)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retry(event Event, firstErr error) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-p.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.RetryDelay
	b.MaxInterval = p.config.MaxDelay
	b.MaxElapsedTime = 0

	attempts := 1
	lastErr := firstErr
	err := backoff.Retry(func() error {
		attempts++
		if err := p.inner.Publish(ctx, event); err != nil {
			lastErr = err
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.config.MaxRetries)), ctx))

	log := logger.FromContext(ctx)
	if err == nil {
		log.Info(LogMsgEventRetrySucceeded, "event_type", event.Type, "attempts", attempts)
		return
	}

	log.Warn(LogMsgEventRetryExhausted, "event_type", event.Type, "attempts", attempts, "error", lastErr)
	if p.deadLetter == nil {
		return
	}
	if err := p.deadLetter.Write(event, attempts, lastErr); err != nil {
		log.Error(LogMsgDeadLetterWriteFailed, "event_type", event.Type, "error", err)
	}
}

// Shutdown stops pending retries (dead-lettering their events) and waits for them
// to finish or for ctx to end.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
