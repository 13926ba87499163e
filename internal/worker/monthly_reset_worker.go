package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
)

// MonthlyResetter runs the first-of-month reset
type MonthlyResetter interface {
	RunMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error)
}

// MonthlyResetWorker runs the monthly reset at local midnight on the first of
// each month. The reset is idempotent, so it also runs once at startup to
// catch up on a boundary crossed while the process was down.
type MonthlyResetWorker struct {
	resetter MonthlyResetter
	loc      *time.Location
	now      func() time.Time
	timer    *time.Timer
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewMonthlyResetWorker creates a new MonthlyResetWorker for the given zone
func NewMonthlyResetWorker(resetter MonthlyResetter, loc *time.Location) *MonthlyResetWorker {
	if loc == nil {
		loc = time.UTC
	}
	return &MonthlyResetWorker{
		resetter: resetter,
		loc:      loc,
		now:      time.Now,
		shutdown: make(chan struct{}),
	}
}

// Start runs the catch-up reset and schedules the next one
func (w *MonthlyResetWorker) Start(ctx context.Context) {
	logger.FromContext(ctx).Info(LogMsgMonthlyResetCatchUp)
	w.executeReset()
	w.scheduleNext()
}

// untilNextMonth is the wait from now to the next local first-of-month midnight
func untilNextMonth(now time.Time, loc *time.Location) time.Duration {
	return prizepool.NextMonthStart(now, loc).Sub(now)
}

func (w *MonthlyResetWorker) scheduleNext() {
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}

	duration := untilNextMonth(w.now(), w.loc)

	// Long waits are split so clock drift across weeks cannot fire the reset early.
	if duration > standbyThreshold {
		wait := duration - approachLead
		w.timer = time.AfterFunc(wait, w.scheduleNext)
		log.Info(LogMsgMonthlyResetStandby, "next_check_at", w.now().UTC().Add(wait))
		return
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// Fired early: the boundary has not passed yet.
		rem := untilNextMonth(w.now(), w.loc)
		if rem > earlyTriggerTolerance && rem < standbyThreshold {
			w.scheduleNext()
			return
		}

		w.executeReset()
		w.scheduleNext()
	})
	log.Info(LogMsgMonthlyResetApproach, "next_reset_at", w.now().UTC().Add(duration))
}

// executeReset performs the reset in a tracked goroutine
func (w *MonthlyResetWorker) executeReset() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgMonthlyResetStarting)

		result, err := w.resetter.RunMonthlyReset(ctx)
		if err != nil {
			log.Error(LogMsgMonthlyResetFailed, "error", err)
			return
		}
		log.Info(LogMsgMonthlyResetCompleted,
			"period_start", result.PeriodStart,
			"expired_games", result.ExpiredGames,
			"reset_counters", result.ResetCounters)
	}()
}

// Shutdown cancels the pending timer and waits for an in-flight reset
func (w *MonthlyResetWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgMonthlyResetShutdown)

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgMonthlyResetStopped)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgMonthlyResetTimeout)
		return ctx.Err()
	}
}
