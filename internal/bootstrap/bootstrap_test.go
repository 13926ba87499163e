package bootstrap

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardArcade_Go/internal/config"
	"github.com/osse101/RewardArcade_Go/internal/configstore"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/worker"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StoreDriver:        config.StoreDriverMemory,
		AdminIDs:           []string{"admin-1"},
		ConfigCacheTTL:     time.Second,
		PlayLockTimeout:    time.Second,
		ConflictMaxRetries: 2,
		ResetLocation:      time.UTC,
		DeadLetterPath:     filepath.Join(t.TempDir(), "dl", "events.jsonl"),
	}
}

func TestInitializeStorage_UnknownDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.StoreDriver = "sqlite"

	_, err := InitializeStorage(context.Background(), cfg)
	assert.ErrorContains(t, err, ErrMsgUnknownStoreDriver)
}

func TestInitializeEconomy_SeedsDefaultConfig(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)

	storage, err := InitializeStorage(ctx, cfg)
	require.NoError(t, err)
	events, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	RegisterEventHandlers(events.Bus)

	econ, err := InitializeEconomy(ctx, cfg, storage, events.Publisher)
	require.NoError(t, err)
	require.NoError(t, econ.Engine.Ready(ctx))

	blob, err := econ.Engine.ExportConfig(ctx, "admin-1")
	require.NoError(t, err)

	var exported configstore.ExportBlob
	require.NoError(t, json.Unmarshal(blob, &exported))
	assert.Equal(t, int64(1), exported.Config.Version)

	_, err = econ.Engine.ExportConfig(ctx, "someone-else")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// A second boot over the same store keeps the stored version
	again, err := InitializeEconomy(ctx, cfg, storage, events.Publisher)
	require.NoError(t, err)
	blob, err = again.Engine.ExportConfig(ctx, "admin-1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(blob, &exported))
	assert.Equal(t, int64(1), exported.Config.Version)

	GracefulShutdown(ctx, ShutdownComponents{Events: events, Storage: storage})
}

func TestInitializeEconomy_MissingSeedFile(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	cfg.EconomySeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	storage, err := InitializeStorage(ctx, cfg)
	require.NoError(t, err)

	_, err = InitializeEconomy(ctx, cfg, storage, event.NewMemoryBus())
	assert.ErrorContains(t, err, ErrMsgFailedLoadSeed)
}

func TestGracefulShutdown_StopsWorkers(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	GracefulShutdown(ctx, ShutdownComponents{WorkerPool: pool})
	assert.False(t, pool.Enqueue(nil))
}

const profilesYAML = `
employees:
  - id: emp-1
    tier: gold
    performance_percentile: 80
    best_period_earnings: 900
    opening_points: 250
    active: true
  - id: emp-2
    tier: bronze
    active: false
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProfilesFile(t *testing.T) {
	profiles, err := LoadProfilesFile(writeFile(t, "profiles.yaml", profilesYAML))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, domain.EmployeeProfile{
		ID: "emp-1", Tier: domain.TierGold, PerformancePercentile: 80,
		BestPeriodEarnings: 900, OpeningPoints: 250, Active: true,
	}, profiles[0])
	assert.False(t, profiles[1].Active)
}

func TestLoadProfilesFile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", "employees:\n  - tier: gold\n"},
		{"duplicate id", "employees:\n  - {id: a, tier: gold}\n  - {id: a, tier: silver}\n"},
		{"unknown tier", "employees:\n  - {id: a, tier: diamond}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfilesFile(writeFile(t, "profiles.yaml", tt.body))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestInitializeStorage_MemoryDirectoryFromProfiles(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	cfg.ProfilesFile = writeFile(t, "profiles.yaml", profilesYAML)

	storage, err := InitializeStorage(ctx, cfg)
	require.NoError(t, err)

	econ, err := InitializeEconomy(ctx, cfg, storage, event.NewMemoryBus())
	require.NoError(t, err)

	summary, err := econ.Engine.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(250), summary.PointBalance)

	_, err = econ.Engine.GetEmployeeSummary(ctx, "emp-404")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}
