package engine

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardArcade_Go/internal/configstore"
	"github.com/osse101/RewardArcade_Go/internal/database/memory"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/exchange"
	"github.com/osse101/RewardArcade_Go/internal/game"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/odds"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
)

const adminID = "admin-1"

type countingRecorder struct {
	timeouts atomic.Int32
	retries  atomic.Int32
}

func (r *countingRecorder) LockTimeout(string)   { r.timeouts.Add(1) }
func (r *countingRecorder) ConflictRetry(string) { r.retries.Add(1) }

type harness struct {
	svc      *service
	store    *memory.Store
	dir      *memory.Directory
	recorder *countingRecorder
	draw     *float64
}

func newHarness(t require.TestingT, profiles ...domain.EmployeeProfile) *harness {
	ctx := context.Background()
	store := memory.NewStore()
	dir := memory.NewDirectory(profiles...)
	bus := event.NewMemoryBus()

	configs := configstore.NewService(store, bus, time.Minute)
	led := ledger.NewService(store)
	pools := prizepool.NewService(store, configs, time.UTC, 3)
	cfg, err := configs.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, pools.SyncLimits(ctx, cfg))

	draw := 0.5
	games := game.NewService(store, led, odds.NewEngine(func() float64 { return draw }, nil), pools, configs, bus)
	rec := &countingRecorder{}

	svc := NewService(Deps{
		Store:      store,
		Directory:  dir,
		Authorizer: NewStaticAuthorizer([]string{adminID}),
		Configs:    configs,
		Ledger:     led,
		Exchange:   exchange.NewService(store, led, configs, bus, time.UTC),
		Games:      games,
		Pools:      pools,
		Recorder:   rec,
	}, Options{PlayLockTimeout: 50 * time.Millisecond, ConflictRetries: 3}).(*service)

	return &harness{svc: svc, store: store, dir: dir, recorder: rec, draw: &draw}
}

func profile(id string, tier domain.Tier, opening int64) domain.EmployeeProfile {
	return domain.EmployeeProfile{
		ID: id, Tier: tier, PerformancePercentile: 55, BestPeriodEarnings: 1000, OpeningPoints: opening, Active: true,
	}
}

func requireBalanced(t require.TestingT, h *harness, employeeID string) {
	report, err := h.svc.Reconcile(context.Background(), employeeID)
	require.NoError(t, err)
	require.True(t, report.Balanced(), "ledger drift: %+v", report)
}

func TestEngine_ExchangeThenPlay(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 120))
	ctx := context.Background()

	summary, err := h.svc.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), summary.PointBalance)
	require.Len(t, summary.RecentTransactions, 1)
	assert.Equal(t, domain.TxTypeAdminAward, summary.RecentTransactions[0].Type)

	res, err := h.svc.Exchange(ctx, "emp-1", 5, domain.DirectionPointsToTokens)
	require.NoError(t, err)
	assert.Equal(t, int64(70), res.NewPointBalance)
	assert.Equal(t, int64(5), res.NewTokenBalance)

	g, err := h.svc.AwardGame(ctx, "emp-1", domain.SourceTask, 2)
	require.NoError(t, err)
	require.Equal(t, domain.CategoryGambling, g.Category)

	*h.draw = 0.99
	played, err := h.svc.PlayGame(ctx, "emp-1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLoss, played.Outcome)

	_, err = h.svc.PlayGame(ctx, "emp-1", g.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)

	summary, err = h.svc.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Games.Played)
	assert.Equal(t, 1, summary.Games.Lost)
	requireBalanced(t, h, "emp-1")
}

func TestEngine_UnknownEmployee(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.AwardGame(context.Background(), "ghost", domain.SourceTask, 1)
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	_, err = h.svc.GetEmployeeSummary(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestEngine_SyncFollowsDirectory(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 100))
	ctx := context.Background()

	_, err := h.svc.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)

	promoted := profile("emp-1", domain.TierGold, 999)
	require.NoError(t, h.dir.UpsertProfile(ctx, promoted))
	summary, err := h.svc.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TierGold, summary.Tier)
	assert.Equal(t, int64(100), summary.PointBalance, "opening points only apply on creation")

	departed := promoted
	departed.Active = false
	require.NoError(t, h.dir.UpsertProfile(ctx, departed))
	_, err = h.svc.AwardGame(ctx, "emp-1", domain.SourceTask, 1)
	require.ErrorIs(t, err, domain.ErrEmployeeInactive)
}

func TestEngine_InvalidProfileRejected(t *testing.T) {
	bad := profile("emp-1", "diamond", 0)
	h := newHarness(t, bad)
	_, err := h.svc.GetEmployeeSummary(context.Background(), "emp-1")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestEngine_LockTimeoutFailsClosed(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 100))
	ctx := context.Background()
	g, err := h.svc.AwardGame(ctx, "emp-1", domain.SourceTask, 5)
	require.NoError(t, err)

	release, err := h.svc.deps.Locks.Acquire(ctx, "emp-1", time.Second)
	require.NoError(t, err)
	_, err = h.svc.PlayGame(ctx, "emp-1", g.ID)
	release()

	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, int32(1), h.recorder.timeouts.Load())

	stored, err := h.store.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusUnused, stored.Status)

	_, err = h.svc.PlayGame(ctx, "emp-1", g.ID)
	require.NoError(t, err)
}

func TestEngine_RetriesConflicts(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 100))
	ctx := context.Background()
	g, err := h.svc.AwardGame(ctx, "emp-1", domain.SourceVoting, 1)
	require.NoError(t, err)

	h.store.FailNext("GetGameForUpdate", domain.ErrConcurrencyConflict)
	res, err := h.svc.PlayGame(ctx, "emp-1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeWin, res.Outcome)
	assert.Equal(t, int32(1), h.recorder.retries.Load())
}

func TestEngine_NonConflictErrorsAreNotRetried(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 100))
	ctx := context.Background()

	_, err := h.svc.AwardGame(ctx, "emp-1", domain.SourceTask, 9)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, h.recorder.retries.Load())
}

func TestEngine_AdjustPoints(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 100))
	ctx := context.Background()

	_, err := h.svc.AdjustPoints(ctx, "emp-1", "emp-1", 50, "self service")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	row, err := h.svc.AdjustPoints(ctx, adminID, "emp-1", 50, "quarterly bonus")
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeAdminAward, row.Type)
	assert.Equal(t, "quarterly bonus", row.Note)

	_, err = h.svc.AdjustPoints(ctx, adminID, "emp-1", -500, "clawback")
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	_, err = h.svc.AdjustPoints(ctx, adminID, "emp-1", 0, "nothing")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.svc.AdjustPoints(ctx, adminID, "emp-1", 5, "  ")
	require.ErrorIs(t, err, domain.ErrValidation)

	summary, err := h.svc.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), summary.PointBalance)
	requireBalanced(t, h, "emp-1")
}

func TestEngine_ConfigAdministration(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pools := json.RawMessage(`{"jackpot": {"daily": 2, "weekly": 6, "monthly": 12}}`)

	_, err := h.svc.UpdateConfig(ctx, "nobody", domain.SectionPools, pools)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.svc.ExportConfig(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	cfg, err := h.svc.UpdateConfig(ctx, adminID, domain.SectionPools, pools)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.Version)
	assert.Equal(t, int64(2), cfg.Pools["jackpot"].Daily)
	assert.Contains(t, cfg.Pools, "major", "other pools survive a keyed merge")

	pool, err := h.store.GetGlobalPool(ctx, "jackpot")
	require.NoError(t, err)
	assert.Equal(t, int64(2), pool.DailyLimit)

	_, err = h.svc.UpdateConfig(ctx, adminID, domain.SectionBoost, json.RawMessage(`{"threshold_percentile": 130}`))
	require.ErrorIs(t, err, domain.ErrConfigInvalid)

	blob, err := h.svc.ExportConfig(ctx, adminID)
	require.NoError(t, err)
	imported, err := h.svc.ImportConfig(ctx, adminID, blob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), imported.Version)
	assert.Equal(t, cfg.Pools, imported.Pools)

	_, err = h.svc.ImportConfig(ctx, adminID, []byte(`{"schema_version": "1"}`))
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestEngine_ScheduledOperations(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 100))
	ctx := context.Background()
	_, err := h.svc.GetEmployeeSummary(ctx, "emp-1")
	require.NoError(t, err)

	first, err := h.svc.RunMonthlyReset(ctx)
	require.NoError(t, err)
	second, err := h.svc.RunMonthlyReset(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.ExpiredGames)
	assert.Zero(t, second.ResetCounters)
	assert.Equal(t, first.PeriodStart, second.PeriodStart)

	records, err := h.svc.RunAutoReverseSweep(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEngine_Ready(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Ready(context.Background()))
}

func TestStaticAuthorizer(t *testing.T) {
	a := NewStaticAuthorizer([]string{" ops ", "", "admin"})
	for id, want := range map[string]bool{"ops": true, "admin": true, "": false, "guest": false} {
		got, err := a.IsAdmin(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, got, id)
	}
}

func TestEngine_PlayUnknownGame(t *testing.T) {
	h := newHarness(t, profile("emp-1", domain.TierBronze, 0))
	_, err := h.svc.PlayGame(context.Background(), "emp-1", uuid.New())
	require.ErrorIs(t, err, domain.ErrGameNotFound)
}
