package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/bootstrap"
	"github.com/osse101/RewardArcade_Go/internal/config"
	"github.com/osse101/RewardArcade_Go/internal/scheduler"
	"github.com/osse101/RewardArcade_Go/internal/server"
	"github.com/osse101/RewardArcade_Go/internal/worker"
)

const (
	jobWorkers      = 2
	jobQueueSize    = 8
	shutdownTimeout = 15 * time.Second
)

func main() {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	for _, w := range warnings {
		slog.Warn(w)
	}
	slog.Info("Starting RewardArcade", "version", version, "environment", cfg.Environment, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		slog.Error("Storage initialization failed", "error", err)
		os.Exit(1)
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		slog.Error("Event system initialization failed", "error", err)
		os.Exit(1)
	}
	bootstrap.RegisterEventHandlers(events.Bus)

	econ, err := bootstrap.InitializeEconomy(ctx, cfg, storage, events.Publisher)
	if err != nil {
		bootstrap.GracefulShutdown(context.Background(), bootstrap.ShutdownComponents{Events: events, Storage: storage})
		slog.Error("Economy initialization failed", "error", err)
		os.Exit(1)
	}

	pool := worker.NewPool(jobWorkers, jobQueueSize)
	pool.Start(ctx)

	sched := scheduler.New(pool)
	// A zero interval disables the sweep; it can still be run through the admin API
	sched.Schedule(cfg.AutoReverseInterval, &worker.AutoReverseJob{Sweeper: econ.Engine})

	resetWorker := worker.NewMonthlyResetWorker(econ.Engine, cfg.ResetLocation)
	resetWorker.Start(ctx)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, econ.Engine, econ.Authorizer, econ.Engine.Ready)

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		MonthlyResetWorker: resetWorker,
		Events:             events,
		Storage:            storage,
	})
}
