package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/scheduler"
	"github.com/osse101/RewardArcade_Go/internal/server"
	"github.com/osse101/RewardArcade_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	MonthlyResetWorker *worker.MonthlyResetWorker
	Events             *EventSystem
	Storage            *Storage
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler, job pool and the reset worker (finish in-flight jobs)
// 3. Event publisher (flush pending retries), then the dead-letter file
// 4. Storage
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}
	if c.MonthlyResetWorker != nil {
		if err := c.MonthlyResetWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResetWorkerShutdownFailed, "error", err)
		}
	}

	if c.Events != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		shutdownPublisher(ctx, c.Events.Publisher)
		if c.Events.DeadLetter != nil {
			if err := c.Events.DeadLetter.Close(); err != nil {
				slog.Error(LogMsgDeadLetterCloseFailed, "error", err)
			}
		}
	}

	if c.Storage != nil && c.Storage.Close != nil {
		c.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}

func shutdownPublisher(ctx context.Context, p *event.ResilientPublisher) {
	if p == nil {
		return
	}
	if err := p.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}
}
