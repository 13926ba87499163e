package game

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardArcade_Go/internal/database/memory"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/odds"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

type staticConfig struct {
	cfg *domain.EconomyConfig
}

func (s *staticConfig) Load(context.Context) (*domain.EconomyConfig, error) {
	return s.cfg.Clone(), nil
}

type fixture struct {
	svc    *service
	store  *memory.Store
	cfg    *domain.EconomyConfig
	pools  prizepool.Service
	draw   *float64
	events *[]event.Event
	mu     *sync.Mutex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cfg := domain.DefaultEconomyConfig()
	configs := &staticConfig{cfg: cfg}

	draw := 0.5
	engine := odds.NewEngine(func() float64 { return draw }, nil)
	pools := prizepool.NewService(store, configs, time.UTC, 3)
	require.NoError(t, pools.SyncLimits(context.Background(), cfg))

	bus := event.NewMemoryBus()
	var mu sync.Mutex
	var events []event.Event
	record := func(_ context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
		return nil
	}
	for _, typ := range []event.Type{event.GameAwarded, event.GamePlayed, event.PoolExhausted, event.MonthlyResetCompleted} {
		bus.Subscribe(typ, record)
	}

	svc := NewService(store, ledger.NewService(store), engine, pools, configs, bus).(*service)
	return &fixture{svc: svc, store: store, cfg: cfg, pools: pools, draw: &draw, events: &events, mu: &mu}
}

func (f *fixture) seedEmployee(t *testing.T, emp domain.Employee) {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)
	emp.Active = true
	if emp.PerformancePercentile == 0 {
		emp.PerformancePercentile = 50
	}
	require.NoError(t, tx.InsertEmployee(ctx, &emp))
	require.NoError(t, tx.Commit(ctx))
}

func (f *fixture) insertGame(t *testing.T, g domain.Game) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)
	g.ID = uuid.New()
	g.Status = domain.GameStatusUnused
	if g.AwardedAt.IsZero() {
		g.AwardedAt = time.Now().UTC()
	}
	if g.Source == "" {
		g.Source = domain.SourceTask
	}
	require.NoError(t, tx.InsertGame(ctx, &g))
	require.NoError(t, tx.Commit(ctx))
	return g.ID
}

func (f *fixture) employee(t *testing.T, id string) *domain.Employee {
	t.Helper()
	emp, err := f.store.GetEmployee(context.Background(), id)
	require.NoError(t, err)
	return emp
}

func (f *fixture) eventsOf(typ event.Type) []event.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []event.Event
	for _, e := range *f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		source     domain.AchievementSource
		difficulty int
		want       domain.GameCategory
	}{
		{domain.SourceTask, 1, domain.CategoryGambling},
		{domain.SourceTask, 3, domain.CategoryGambling},
		{domain.SourceTask, 4, domain.CategoryGuaranteed},
		{domain.SourceMilestone, 5, domain.CategoryGuaranteed},
		{domain.SourceVoting, 1, domain.CategoryGuaranteed},
		{domain.SourceAdminAward, 2, domain.CategoryGambling},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.source, tt.difficulty), "%s at difficulty %d", tt.source, tt.difficulty)
	}
}

func TestAwardGame(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "emp-1", Tier: domain.TierSilver})
	f.svc.rng = func() float64 { return 0.99 }

	g, err := f.svc.AwardGame(context.Background(), "emp-1", domain.SourceTask, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryGambling, g.Category)
	assert.Equal(t, domain.GameTypeWheel, g.GameType, "last enabled type in sorted order")
	assert.Equal(t, domain.GameStatusUnused, g.Status)

	stored, err := f.store.GetGame(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, stored.ID)

	awarded := f.eventsOf(event.GameAwarded)
	require.Len(t, awarded, 1)
	payload, err := event.DecodePayload[domain.GameAwardedPayload](awarded[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, g.ID, payload.GameID)
}

func TestAwardGame_SkipsDisabledGameTypes(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "emp-1", Tier: domain.TierBronze})
	for _, gt := range []domain.GameType{domain.GameTypeDice, domain.GameTypeRoulette, domain.GameTypeWheel} {
		g := f.cfg.Games[gt]
		g.Enabled = false
		f.cfg.Games[gt] = g
	}
	f.svc.rng = func() float64 { return 0 }

	g, err := f.svc.AwardGame(context.Background(), "emp-1", domain.SourceTask, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.GameTypeSlots, g.GameType)

	slots := f.cfg.Games[domain.GameTypeSlots]
	slots.Enabled = false
	f.cfg.Games[domain.GameTypeSlots] = slots
	_, err = f.svc.AwardGame(context.Background(), "emp-1", domain.SourceTask, 1)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAwardGame_Rejections(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "emp-1", Tier: domain.TierBronze})
	ctx := context.Background()

	_, err := f.svc.AwardGame(ctx, "emp-1", domain.SourceTask, 0)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.AwardGame(ctx, "emp-1", domain.SourceTask, 6)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.AwardGame(ctx, "emp-1", "bribery", 2)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.AwardGame(ctx, "ghost", domain.SourceTask, 2)
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)

	games, err := f.store.ListGames(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestPlayGame_ExhaustedJackpotDowngradesToBasicPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cfg.Odds.JackpotMinPlays = 0
	f.seedEmployee(t, domain.Employee{ID: "gold-1", Tier: domain.TierGold, TokenBalance: 10})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "gold-1", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 3,
	})
	jackpot := f.cfg.Pools["jackpot"]
	f.store.SetPoolUsage("jackpot", jackpot.Daily, jackpot.Daily, jackpot.Daily, prizepool.PeriodStartsAt(time.Now(), time.UTC))
	*f.draw = 0.001

	res, err := f.svc.PlayGame(ctx, "gold-1", gameID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeWin, res.Outcome)
	assert.Equal(t, domain.ConsolationPrizeType, res.PrizeType)
	assert.Equal(t, domain.PrizeTierBasic, res.PrizeTier)
	assert.True(t, res.PoolExhausted)
	assert.Equal(t, int64(25), res.PrizeValue)
	assert.Equal(t, int64(5), res.TokensSpent)
	assert.Equal(t, int64(5), res.TokenBalance)
	assert.Equal(t, int64(25), res.PointBalance)
	assert.Contains(t, res.Message, "Jackpot")
	assert.Contains(t, res.Message, "Basic Points")

	stored, err := f.store.GetGame(ctx, gameID)
	require.NoError(t, err)
	require.NotNil(t, stored.Outcome)
	assert.True(t, stored.Outcome.PoolExhausted)
	assert.Equal(t, domain.GameStatusPlayed, stored.Status)

	pool, err := f.store.GetGlobalPool(ctx, "jackpot")
	require.NoError(t, err)
	assert.Equal(t, jackpot.Daily, pool.DailyUsed, "exhausted pool is not overshot")

	limit, err := f.store.GetPrizeLimit(ctx, domain.PoolKey{PrizeType: "jackpot", EmployeeID: "gold-1", Tier: domain.TierGold})
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, int64(0), limit.MonthlyUsed, "individual unit is released when the global pool is empty")

	exhausted := f.eventsOf(event.PoolExhausted)
	require.Len(t, exhausted, 1)
	payload, err := event.DecodePayload[domain.PoolExhaustedPayload](exhausted[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "jackpot", payload.PrizeType)
	assert.Equal(t, domain.ScopeGlobal, payload.Scope)
	assert.Len(t, f.eventsOf(event.GamePlayed), 1)
}

func TestPlayGame_JackpotWinReservesBothScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cfg.Odds.JackpotMinPlays = 0
	f.seedEmployee(t, domain.Employee{ID: "gold-1", Tier: domain.TierGold, TokenBalance: 10})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "gold-1", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 3,
	})
	*f.draw = 0.001

	res, err := f.svc.PlayGame(ctx, "gold-1", gameID)
	require.NoError(t, err)
	assert.Equal(t, "jackpot", res.PrizeType)
	assert.False(t, res.PoolExhausted)
	assert.Equal(t, int64(505), res.PointBalance+res.TokenBalance)

	pool, err := f.store.GetGlobalPool(ctx, "jackpot")
	require.NoError(t, err)
	assert.Equal(t, int64(1), pool.DailyUsed)
	assert.Equal(t, int64(1), pool.MonthlyUsed)

	limit, err := f.store.GetPrizeLimit(ctx, domain.PoolKey{PrizeType: "jackpot", EmployeeID: "gold-1", Tier: domain.TierGold})
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, int64(1), limit.MonthlyUsed)
	assert.Equal(t, int64(2), limit.MonthlyLimit)
}

func TestPlayGame_JackpotNeedsMinimumPlays(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierGold, TokenBalance: 10})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 3,
	})
	*f.draw = 0.001

	res, err := f.svc.PlayGame(context.Background(), "e", gameID)
	require.NoError(t, err)
	assert.Equal(t, "major", res.PrizeType, "jackpot band is empty before the first five plays")
}

func TestPlayGame_InsufficientTokensChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, TokenBalance: 2, PointBalance: 40})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 2,
	})

	_, err := f.svc.PlayGame(ctx, "e", gameID)
	var insufficient domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, domain.CurrencyTokens, insufficient.Currency)
	assert.Equal(t, int64(2), insufficient.Have)
	assert.Equal(t, int64(5), insufficient.Need)

	emp := f.employee(t, "e")
	assert.Equal(t, int64(2), emp.TokenBalance)
	assert.Equal(t, int64(40), emp.PointBalance)
	stored, err := f.store.GetGame(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusUnused, stored.Status)
	rows, err := f.store.ListTransactions(ctx, "e", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPlayGame_LossSpendsTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, TokenBalance: 9})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeDice, Difficulty: 1,
	})
	*f.draw = 0.99

	res, err := f.svc.PlayGame(ctx, "e", gameID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLoss, res.Outcome)
	assert.Empty(t, res.PrizeType)
	assert.Equal(t, int64(6), res.TokenBalance)
	assert.Contains(t, res.Message, "3 tokens")

	rows, err := f.store.ListTransactions(ctx, "e", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TxTypeSpend, rows[0].Type)
	require.NotNil(t, rows[0].GameID)
	assert.Equal(t, gameID, *rows[0].GameID)
}

func TestPlayGame_GuaranteedAlwaysWins(t *testing.T) {
	tests := []struct {
		name      string
		draw      float64
		wantType  string
		wantValue int64
	}{
		{name: "premium draw", draw: 0.0, wantType: "major", wantValue: 200},
		{name: "basic draw", draw: 0.99, wantType: domain.ConsolationPrizeType, wantValue: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze})
			gameID := f.insertGame(t, domain.Game{
				EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 5,
			})
			*f.draw = tt.draw

			res, err := f.svc.PlayGame(context.Background(), "e", gameID)
			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeWin, res.Outcome)
			assert.Equal(t, tt.wantType, res.PrizeType)
			assert.Equal(t, tt.wantValue, res.PointBalance)
			assert.Zero(t, res.TokensSpent)
		})
	}
}

func TestPlayGame_BoostRecordsLastBoostAt(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, PerformancePercentile: 10})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 4,
	})

	res, err := f.svc.PlayGame(context.Background(), "e", gameID)
	require.NoError(t, err)
	assert.True(t, res.BoostApplied)
	assert.NotNil(t, f.employee(t, "e").LastBoostAt)
}

func TestPlayGame_BoostCooldownFollowsServiceClock(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, PerformancePercentile: 10})
	start := time.Date(2020, 1, 6, 9, 0, 0, 0, time.UTC)
	cooldown := time.Duration(f.cfg.Boost.CooldownHours) * time.Hour

	play := func(at time.Time) bool {
		t.Helper()
		f.svc.now = func() time.Time { return at }
		gameID := f.insertGame(t, domain.Game{
			EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 4,
		})
		res, err := f.svc.PlayGame(context.Background(), "e", gameID)
		require.NoError(t, err)
		return res.BoostApplied
	}

	assert.True(t, play(start))
	require.NotNil(t, f.employee(t, "e").LastBoostAt)
	assert.True(t, f.employee(t, "e").LastBoostAt.Equal(start))

	assert.False(t, play(start.Add(cooldown-time.Minute)), "inside the cooldown")
	assert.True(t, play(start.Add(cooldown+time.Minute)), "cooldown elapsed on the service clock")
}

func TestPlayGame_SecondPlayIsAlreadyResolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, TokenBalance: 20})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 2,
	})

	_, err := f.svc.PlayGame(ctx, "e", gameID)
	require.NoError(t, err)
	after := f.employee(t, "e")

	_, err = f.svc.PlayGame(ctx, "e", gameID)
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)

	again := f.employee(t, "e")
	assert.Equal(t, after.TokenBalance, again.TokenBalance)
	assert.Equal(t, after.PointBalance, again.PointBalance)
}

func TestPlayGame_ConcurrentReplaysResolveOnce(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, TokenBalance: 100})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 2,
	})

	const players = 8
	var wg sync.WaitGroup
	var successes, resolved atomic.Int32
	start := make(chan struct{})
	for range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.PlayGame(context.Background(), "e", gameID)
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, domain.ErrAlreadyResolved):
				resolved.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(players-1), resolved.Load())
	assert.Equal(t, int64(95), f.employee(t, "e").TokenBalance)
}

func TestPlayGame_OwnershipAndLookup(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, domain.Employee{ID: "owner", Tier: domain.TierBronze, TokenBalance: 10})
	f.seedEmployee(t, domain.Employee{ID: "other", Tier: domain.TierBronze, TokenBalance: 10})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "owner", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 2,
	})

	_, err := f.svc.PlayGame(context.Background(), "other", gameID)
	require.ErrorIs(t, err, domain.ErrNotGameOwner)

	_, err = f.svc.PlayGame(context.Background(), "owner", uuid.New())
	require.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestPlayGame_FailureRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cfg.Odds.JackpotMinPlays = 0
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierGold, TokenBalance: 10})
	gameID := f.insertGame(t, domain.Game{
		EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeSlots, Difficulty: 3,
	})
	*f.draw = 0.001
	f.store.FailNext("UpdateGameIfStatus", assert.AnError)

	_, err := f.svc.PlayGame(ctx, "e", gameID)
	require.ErrorIs(t, err, assert.AnError)

	emp := f.employee(t, "e")
	assert.Equal(t, int64(10), emp.TokenBalance)
	assert.Equal(t, int64(0), emp.PointBalance)
	stored, err := f.store.GetGame(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusUnused, stored.Status)
	pool, err := f.store.GetGlobalPool(ctx, "jackpot")
	require.NoError(t, err)
	assert.Equal(t, int64(0), pool.DailyUsed)
	points, tokens, rows, err := f.store.SumLedger(ctx, "e")
	require.NoError(t, err)
	assert.Zero(t, points+tokens+rows)
	assert.Empty(t, f.eventsOf(event.GamePlayed))
}

func TestProcessMonthlyReset_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze})

	periods := f.pools.Periods()
	lastMonth := periods.Month.AddDate(0, -1, 0)
	stale := f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 4, AwardedAt: lastMonth})
	current := f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 4})
	gambling := f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeDice, Difficulty: 1, AwardedAt: lastMonth})
	f.store.SetPoolUsage("major", 3, 7, 9, domain.PeriodStarts{Day: lastMonth, Week: lastMonth, Month: lastMonth})

	first, err := f.svc.ProcessMonthlyReset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ExpiredGames)
	// every default pool carries stale markers, major also carries usage
	assert.Equal(t, int64(len(f.cfg.Pools)), first.ResetCounters)
	assert.Equal(t, periods.Month, first.PeriodStart)
	poolAfterFirst, err := f.store.GetGlobalPool(ctx, "major")
	require.NoError(t, err)

	second, err := f.svc.ProcessMonthlyReset(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.ExpiredGames)
	assert.Zero(t, second.ResetCounters)
	poolAfterSecond, err := f.store.GetGlobalPool(ctx, "major")
	require.NoError(t, err)
	assert.Equal(t, poolAfterFirst, poolAfterSecond)
	assert.Zero(t, poolAfterSecond.MonthlyUsed)

	for id, want := range map[uuid.UUID]domain.GameStatus{
		stale:    domain.GameStatusExpired,
		current:  domain.GameStatusUnused,
		gambling: domain.GameStatusUnused,
	} {
		g, err := f.store.GetGame(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, g.Status)
	}
	assert.Len(t, f.eventsOf(event.MonthlyResetCompleted), 2)

	_, err = f.svc.PlayGame(ctx, "e", stale)
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestProcessMonthlyReset_ExpirationDisabled(t *testing.T) {
	f := newFixture(t)
	f.cfg.Expiration.ExpireGuaranteedMonthly = false
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze})
	lastMonth := f.pools.Periods().Month.AddDate(0, -1, 0)
	f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 4, AwardedAt: lastMonth})

	res, err := f.svc.ProcessMonthlyReset(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.ExpiredGames)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEmployee(t, domain.Employee{ID: "e", Tier: domain.TierBronze, TokenBalance: 20})
	win := f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeWheel, Difficulty: 4})
	loss := f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeDice, Difficulty: 1})
	f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGambling, GameType: domain.GameTypeDice, Difficulty: 1})
	f.insertGame(t, domain.Game{EmployeeID: "e", Category: domain.CategoryGuaranteed, GameType: domain.GameTypeDice, Difficulty: 5})

	*f.draw = 0.99
	_, err := f.svc.PlayGame(ctx, "e", win)
	require.NoError(t, err)
	_, err = f.svc.PlayGame(ctx, "e", loss)
	require.NoError(t, err)

	sum, err := f.svc.Summary(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, domain.GamesSummary{
		UnusedGuaranteed: 1,
		UnusedGambling:   1,
		Played:           2,
		Won:              1,
		Lost:             1,
	}, sum)
}
