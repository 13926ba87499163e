// Package odds computes win probabilities for both game tracks. Every function is
// pure apart from the injected random source used for boost jitter and draws.
package odds

import (
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/utils"
)

// EmployeeStats are the per-employee inputs to an odds computation
type EmployeeStats struct {
	Tier                  domain.Tier
	PerformancePercentile float64
	LastBoostAt           *time.Time
	// GamblingPlays is the number of completed gambling plays, used for jackpot eligibility
	GamblingPlays int
	// TrailingWinnings is the gambling winnings inside the win-cap window
	TrailingWinnings   int64
	BestPeriodEarnings int64
	// At is the evaluation time for the boost cooldown; zero means the engine clock
	At time.Time
}

// Modifiers records the scaling applied on top of the base rates
type Modifiers struct {
	Difficulty   float64 `json:"difficulty"`
	Tier         float64 `json:"tier"`
	Boost        float64 `json:"boost"`
	BoostApplied bool    `json:"boost_applied"`
	WinCap       float64 `json:"win_cap"`
}

// CategoryAOdds is the chance that a guaranteed game pays the premium tier instead of basic
type CategoryAOdds struct {
	Premium     domain.PrizeTier `json:"premium"`
	Probability float64          `json:"probability"`
	Modifiers   Modifiers        `json:"modifiers"`
}

// CategoryBOdds holds one probability per prize tier; the remainder is a loss
type CategoryBOdds struct {
	GameType      domain.GameType              `json:"game_type"`
	Probabilities map[domain.PrizeTier]float64 `json:"probabilities"`
	Modifiers     Modifiers                    `json:"modifiers"`
}

// Engine computes odds and draws outcomes
type Engine struct {
	rng func() float64
	now func() time.Time
}

// NewEngine creates an engine. A nil rng uses utils.RandomFloat.
func NewEngine(rng func() float64, now func() time.Time) *Engine {
	if rng == nil {
		rng = utils.RandomFloat
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{rng: rng, now: now}
}

// ComputeCategoryAOdds never fails; a nil cfg falls back to conservative defaults.
func (e *Engine) ComputeCategoryAOdds(cfg *domain.EconomyConfig, difficulty int, stats EmployeeStats) CategoryAOdds {
	cfg = effective(cfg)

	mods := Modifiers{
		Difficulty: cfg.Difficulty.Multiplier(difficulty),
		Tier:       tierMultiplier(cfg, stats.Tier),
		WinCap:     1,
	}
	mods.Boost, mods.BoostApplied = e.boost(cfg.Boost, stats)

	p := cfg.Odds.PremiumBaseRate * mods.Difficulty * mods.Tier * mods.Boost
	return CategoryAOdds{
		Premium:     cfg.Odds.PremiumTier,
		Probability: utils.Clamp(p, 0, cfg.Odds.Ceiling),
		Modifiers:   mods,
	}
}

// ComputeCategoryBOdds never fails; a nil cfg or an unknown game type falls back to
// conservative base rates.
func (e *Engine) ComputeCategoryBOdds(cfg *domain.EconomyConfig, gameType domain.GameType, difficulty int, stats EmployeeStats) CategoryBOdds {
	cfg = effective(cfg)

	mods := Modifiers{
		Difficulty: cfg.Difficulty.Multiplier(difficulty),
		Tier:       tierMultiplier(cfg, stats.Tier),
		WinCap:     WinCapDampener(cfg.WinCap, stats.TrailingWinnings, stats.BestPeriodEarnings),
	}
	mods.Boost, mods.BoostApplied = e.boost(cfg.Boost, stats)

	scale := mods.Difficulty * mods.Tier * mods.Boost * mods.WinCap
	probs := make(map[domain.PrizeTier]float64, len(domain.PrizeTierOrder))
	for tier, base := range baseOdds(cfg, gameType) {
		if tier == domain.PrizeTierJackpot && stats.GamblingPlays < cfg.Odds.JackpotMinPlays {
			probs[tier] = 0
			continue
		}
		probs[tier] = utils.Clamp(base*scale, 0, cfg.Odds.Ceiling)
	}

	return CategoryBOdds{GameType: gameType, Probabilities: probs, Modifiers: mods}
}

// Draw returns a uniform value in [0, 1)
func (e *Engine) Draw() float64 {
	return e.rng()
}

// SelectOutcome walks the tiers from richest to poorest accumulating probability;
// the first tier whose cumulative threshold exceeds draw wins. No hit is a loss.
func SelectOutcome(probs map[domain.PrizeTier]float64, draw float64) (domain.PrizeTier, bool) {
	var cumulative float64
	for _, tier := range domain.PrizeTierOrder {
		cumulative += probs[tier]
		if draw < cumulative {
			return tier, true
		}
	}
	return "", false
}

// SelectCategoryA returns the premium tier when draw falls under the premium probability
func SelectCategoryA(o CategoryAOdds, draw float64) domain.PrizeTier {
	if draw < o.Probability {
		return o.Premium
	}
	return domain.PrizeTierBasic
}

func tierMultiplier(cfg *domain.EconomyConfig, tier domain.Tier) float64 {
	if tc, ok := cfg.Tiers[tier]; ok && tc.OddsMultiplier > 0 {
		return tc.OddsMultiplier
	}
	return 1
}

func baseOdds(cfg *domain.EconomyConfig, gameType domain.GameType) map[domain.PrizeTier]float64 {
	if g, ok := cfg.Games[gameType]; ok && len(g.BaseOdds) > 0 {
		return g.BaseOdds
	}
	if g, ok := conservative.Games[gameType]; ok {
		return g.BaseOdds
	}
	return map[domain.PrizeTier]float64{domain.PrizeTierBasic: fallbackBasicRate}
}

// conservative is used when no config can be loaded: base rates only, no boost,
// no difficulty or tier scaling.
var conservative = func() *domain.EconomyConfig {
	cfg := domain.DefaultEconomyConfig()
	cfg.Boost.Enabled = false
	cfg.Difficulty.Multipliers = []float64{1, 1, 1, 1, 1}
	for tier, tc := range cfg.Tiers {
		tc.OddsMultiplier = 1
		cfg.Tiers[tier] = tc
	}
	return cfg
}()

func effective(cfg *domain.EconomyConfig) *domain.EconomyConfig {
	if cfg == nil {
		return conservative
	}
	return cfg
}
