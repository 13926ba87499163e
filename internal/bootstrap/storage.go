package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/RewardArcade_Go/internal/config"
	"github.com/osse101/RewardArcade_Go/internal/database"
	"github.com/osse101/RewardArcade_Go/internal/database/memory"
	"github.com/osse101/RewardArcade_Go/internal/database/postgres"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// Storage bundles the persistence layer selected by STORE_DRIVER
type Storage struct {
	Store     repository.Store
	Directory repository.Directory
	Close     func()
}

// InitializeStorage connects to Postgres and applies migrations, or builds the
// embedded in-memory store with its directory loaded from cfg.ProfilesFile.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres, "":
		pool, err := database.NewPool(ctx, database.PoolOptions{
			ConnString:     cfg.GetDBConnString(),
			MaxConns:       cfg.DBMaxConns,
			MaxIdleTime:    cfg.DBMaxIdleTime,
			MaxLifetime:    cfg.DBMaxConnLifetime,
			ConnectTimeout: cfg.DBConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgStorageInitialized, "driver", config.StoreDriverPostgres, "host", cfg.DBHost, "database", cfg.DBName)
		return &Storage{
			Store:     postgres.NewStore(pool, cfg.PlayLockTimeout),
			Directory: postgres.NewDirectory(pool),
			Close:     pool.Close,
		}, nil

	case config.StoreDriverMemory:
		var profiles []domain.EmployeeProfile
		if cfg.ProfilesFile != "" {
			var err error
			if profiles, err = LoadProfilesFile(cfg.ProfilesFile); err != nil {
				return nil, err
			}
		}
		slog.Warn(LogMsgMemoryStoreWarning)
		slog.Info(LogMsgStorageInitialized, "driver", config.StoreDriverMemory, "profiles", len(profiles))
		return &Storage{
			Store:     memory.NewStore(memory.WithLockTimeout(cfg.PlayLockTimeout)),
			Directory: memory.NewDirectory(profiles...),
			Close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.StoreDriver)
}
