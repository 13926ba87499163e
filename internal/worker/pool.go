package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Named jobs report their name in pool logs
type Named interface {
	Name() string
}

// JobName returns the job's Name, or its Go type when it has none
func JobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", job)
}

// Pool runs queued jobs on a fixed set of goroutines. A failing or panicking
// job is logged and never takes its worker down.
type Pool struct {
	size  int
	queue chan Job

	running  sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once

	base   context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool with at least one worker
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		size:  max(workers, 1),
		queue: make(chan Job, queueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the workers. Jobs receive a context derived from ctx that
// Stop cancels.
func (p *Pool) Start(ctx context.Context) {
	p.base, p.cancel = context.WithCancel(ctx)
	p.running.Add(p.size)
	for range p.size {
		go p.loop()
	}
}

func (p *Pool) loop() {
	defer p.running.Done()
	for {
		select {
		case <-p.done:
			return
		case job := <-p.queue:
			p.run(job)
		}
	}
}

func (p *Pool) run(job Job) {
	log := logger.FromContext(p.base)
	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgWorkerJobPanicked, "job", JobName(job), "panic", r)
		}
	}()
	if err := job.Process(p.base); err != nil {
		log.Error(LogMsgWorkerJobFailed, "job", JobName(job), "error", err)
	}
}

// Enqueue queues job, waiting while the queue is full. It reports false once
// the pool is stopping.
func (p *Pool) Enqueue(job Job) bool {
	if p.Stopped() {
		return false
	}
	select {
	case p.queue <- job:
		return true
	case <-p.done:
		return false
	}
}

// TryEnqueue queues job only if there is room right now
func (p *Pool) TryEnqueue(job Job) bool {
	if p.Stopped() {
		return false
	}
	select {
	case p.queue <- job:
		return true
	default:
		return false
	}
}

// Stopped reports whether Stop has been called
func (p *Pool) Stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs
// that never started are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		if p.cancel != nil {
			p.cancel()
		}
		p.running.Wait()
		logger.FromContext(context.Background()).Info(LogMsgPoolStopped, "workers", p.size)
	})
}
