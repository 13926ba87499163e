package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/RewardArcade_Go/internal/concurrency"
	"github.com/osse101/RewardArcade_Go/internal/config"
	"github.com/osse101/RewardArcade_Go/internal/configstore"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/engine"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/exchange"
	"github.com/osse101/RewardArcade_Go/internal/game"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/metrics"
	"github.com/osse101/RewardArcade_Go/internal/odds"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
)

// Economy is the assembled engine plus the admin authorizer guarding it
type Economy struct {
	Engine     engine.Service
	Authorizer *engine.StaticAuthorizer
}

// InitializeEconomy builds the services on top of storage, seeds the economy
// config on first boot and aligns stored prize limits with it.
func InitializeEconomy(ctx context.Context, cfg *config.Config, storage *Storage, publisher event.Publisher) (*Economy, error) {
	configs := configstore.NewService(storage.Store, publisher, cfg.ConfigCacheTTL)

	seed, err := economySeed(cfg.EconomySeedFile)
	if err != nil {
		return nil, err
	}
	if err := configs.EnsureSeeded(ctx, seed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedSeedConfig, err)
	}
	current, err := configs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadConfig, err)
	}

	pools := prizepool.NewService(storage.Store, configs, cfg.ResetLocation, cfg.ConflictMaxRetries)
	if err := pools.SyncLimits(ctx, current); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedSyncPoolLimits, err)
	}
	slog.Info(LogMsgEconomyConfigReady, "version", current.Version, "pools", len(current.Pools))

	ledgerSvc := ledger.NewService(storage.Store)
	exchangeSvc := exchange.NewService(storage.Store, ledgerSvc, configs, publisher, cfg.ResetLocation)
	games := game.NewService(storage.Store, ledgerSvc, odds.NewEngine(nil, nil), pools, configs, publisher)
	authorizer := engine.NewStaticAuthorizer(cfg.AdminIDs)

	eng := engine.NewService(engine.Deps{
		Store:      storage.Store,
		Directory:  storage.Directory,
		Authorizer: authorizer,
		Configs:    configs,
		Ledger:     ledgerSvc,
		Exchange:   exchangeSvc,
		Games:      games,
		Pools:      pools,
		Locks:      concurrency.NewLockManager(),
		Recorder:   metrics.EngineRecorder{},
	}, engine.Options{
		PlayLockTimeout: cfg.PlayLockTimeout,
		ConflictRetries: cfg.ConflictMaxRetries,
	})

	return &Economy{Engine: eng, Authorizer: authorizer}, nil
}

func economySeed(path string) (*domain.EconomyConfig, error) {
	if path == "" {
		return domain.DefaultEconomyConfig(), nil
	}
	seed, err := configstore.LoadSeedFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadSeed, err)
	}
	return seed, nil
}
