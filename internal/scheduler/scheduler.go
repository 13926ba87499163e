package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/worker"
)

const (
	LogMsgJobScheduled    = "Job scheduled"
	LogMsgTickSkipped     = "Scheduled job skipped, worker queue full"
	LogMsgPoolClosed      = "Worker pool closed, unscheduling job"
	LogMsgInvalidInterval = "Scheduled job ignored, interval must be positive"
)

// Option tunes a single scheduled job
type Option func(*entry)

// RunAtStart fires the job once immediately instead of waiting a full interval
func RunAtStart() Option {
	return func(e *entry) { e.runAtStart = true }
}

type entry struct {
	job        worker.Job
	interval   time.Duration
	runAtStart bool
}

// Scheduler feeds jobs into a worker pool on fixed intervals. A tick that
// finds the queue full is skipped, so a slow job never piles up runs.
type Scheduler struct {
	pool     *worker.Pool
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a scheduler over pool
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule starts feeding job every interval until Stop. It reports false
// when interval is not positive.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job, opts ...Option) bool {
	log := logger.FromContext(context.Background())
	if interval <= 0 {
		log.Warn(LogMsgInvalidInterval, "job", worker.JobName(job), "interval", interval)
		return false
	}
	e := &entry{job: job, interval: interval}
	for _, opt := range opts {
		opt(e)
	}
	log.Info(LogMsgJobScheduled, "job", worker.JobName(job), "interval", interval, "run_at_start", e.runAtStart)

	s.wg.Add(1)
	go s.run(e)
	return true
}

func (s *Scheduler) run(e *entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	if e.runAtStart && !s.fire(e) {
		return
	}
	for {
		select {
		case <-ticker.C:
			if !s.fire(e) {
				return
			}
		case <-s.quit:
			return
		}
	}
}

// fire reports false once the pool no longer accepts jobs
func (s *Scheduler) fire(e *entry) bool {
	if s.pool.TryEnqueue(e.job) {
		return true
	}
	log := logger.FromContext(context.Background())
	if s.pool.Stopped() {
		log.Info(LogMsgPoolClosed, "job", worker.JobName(e.job))
		return false
	}
	log.Warn(LogMsgTickSkipped, "job", worker.JobName(e.job))
	return true
}

// Stop unschedules every job. Stop the scheduler before the pool.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
