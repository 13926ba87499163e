package domain

import (
	"slices"
	"time"
)

// Config section names accepted by ConfigStore.Update
const (
	SectionDifficulty = "difficulty"
	SectionBoost      = "boost"
	SectionWinCap     = "win_cap"
	SectionExchange   = "exchange"
	SectionTiers      = "tiers"
	SectionExpiration = "expiration"
	SectionOdds       = "odds"
	SectionGames      = "games"
	SectionPrizes     = "prizes"
	SectionPools      = "pools"
)

// ConfigSections lists every updatable section
var ConfigSections = []string{
	SectionDifficulty, SectionBoost, SectionWinCap, SectionExchange, SectionTiers,
	SectionExpiration, SectionOdds, SectionGames, SectionPrizes, SectionPools,
}

// EconomyConfig is the single versioned structure holding every economy tunable.
// Field-level bounds are expressed as validate tags; cross-field rules are checked
// by configstore.Validate.
type EconomyConfig struct {
	Version    int64                       `json:"version" mapstructure:"version"`
	UpdatedAt  time.Time                   `json:"updated_at" mapstructure:"updated_at"`
	Difficulty DifficultyConfig            `json:"difficulty" mapstructure:"difficulty"`
	Boost      BoostConfig                 `json:"boost" mapstructure:"boost"`
	WinCap     WinCapConfig                `json:"win_cap" mapstructure:"win_cap"`
	Exchange   ExchangeConfig              `json:"exchange" mapstructure:"exchange"`
	Tiers      map[Tier]TierConfig         `json:"tiers" mapstructure:"tiers" validate:"dive"`
	Expiration ExpirationConfig            `json:"expiration" mapstructure:"expiration"`
	Odds       OddsConfig                  `json:"odds" mapstructure:"odds"`
	Games      map[GameType]GameTypeConfig `json:"games" mapstructure:"games" validate:"dive"`
	Prizes     map[PrizeTier]PrizeConfig   `json:"prizes" mapstructure:"prizes" validate:"dive"`
	Pools      map[string]PoolLimits       `json:"pools" mapstructure:"pools" validate:"dive"`
}

// DifficultyConfig holds one multiplier per difficulty, index 0 for difficulty 1
type DifficultyConfig struct {
	Multipliers []float64 `json:"multipliers" mapstructure:"multipliers" validate:"len=5,dive,gt=0"`
}

// Multiplier returns the multiplier for a difficulty, clamping out-of-range values
func (d DifficultyConfig) Multiplier(difficulty int) float64 {
	if len(d.Multipliers) == 0 {
		return 1
	}
	idx := min(max(difficulty-MinDifficulty, 0), len(d.Multipliers)-1)
	return d.Multipliers[idx]
}

type BoostConfig struct {
	Enabled             bool    `json:"enabled" mapstructure:"enabled"`
	ThresholdPercentile float64 `json:"threshold_percentile" mapstructure:"threshold_percentile" validate:"gte=0,lte=100"`
	MaxMultiplier       float64 `json:"max_multiplier" mapstructure:"max_multiplier" validate:"gte=1"`
	CooldownHours       int     `json:"cooldown_hours" mapstructure:"cooldown_hours" validate:"gte=0"`
	JitterPercent       float64 `json:"jitter_percent" mapstructure:"jitter_percent" validate:"gte=0,lt=100"`
}

type WinCapConfig struct {
	Enabled       bool    `json:"enabled" mapstructure:"enabled"`
	Multiplier    float64 `json:"multiplier" mapstructure:"multiplier" validate:"gte=1"`
	PeriodDays    int     `json:"period_days" mapstructure:"period_days" validate:"gt=0"`
	HardCap       int64   `json:"hard_cap" mapstructure:"hard_cap" validate:"gte=0"`
	DampenFactor  float64 `json:"dampen_factor" mapstructure:"dampen_factor" validate:"gt=0,lte=1"`
	SoftZoneStart float64 `json:"soft_zone_start" mapstructure:"soft_zone_start" validate:"gt=0,lt=1"`
}

type ExchangeConfig struct {
	Enabled              bool    `json:"enabled" mapstructure:"enabled"`
	ReverseFeePercent    float64 `json:"reverse_fee_percent" mapstructure:"reverse_fee_percent" validate:"gte=0,lt=100"`
	AutoReverseHoldDays  int     `json:"auto_reverse_hold_days" mapstructure:"auto_reverse_hold_days" validate:"gt=0"`
	AutoReverseMinTokens int64   `json:"auto_reverse_min_tokens" mapstructure:"auto_reverse_min_tokens" validate:"gt=0"`
}

// TierConfig holds the per-tier exchange terms and odds scaling
type TierConfig struct {
	PointsPerToken  float64 `json:"points_per_token" mapstructure:"points_per_token" validate:"gt=0"`
	DailyTokenLimit int64   `json:"daily_token_limit" mapstructure:"daily_token_limit" validate:"gt=0"`
	CooldownHours   int     `json:"cooldown_hours" mapstructure:"cooldown_hours" validate:"gte=0"`
	OddsMultiplier  float64 `json:"odds_multiplier" mapstructure:"odds_multiplier" validate:"gte=1"`
}

type ExpirationConfig struct {
	ExpireGuaranteedMonthly bool `json:"expire_guaranteed_monthly" mapstructure:"expire_guaranteed_monthly"`
}

type OddsConfig struct {
	Ceiling         float64   `json:"ceiling" mapstructure:"ceiling" validate:"gt=0,lte=1"`
	JackpotMinPlays int       `json:"jackpot_min_plays" mapstructure:"jackpot_min_plays" validate:"gte=0"`
	PremiumTier     PrizeTier `json:"premium_tier" mapstructure:"premium_tier" validate:"oneof=jackpot major minor"`
	PremiumBaseRate float64   `json:"premium_base_rate" mapstructure:"premium_base_rate" validate:"gte=0,lte=1"`
}

type GameTypeConfig struct {
	Enabled   bool                  `json:"enabled" mapstructure:"enabled"`
	TokenCost int64                 `json:"token_cost" mapstructure:"token_cost" validate:"gt=0"`
	BaseOdds  map[PrizeTier]float64 `json:"base_odds" mapstructure:"base_odds" validate:"dive,gte=0,lte=1"`
}

// PrizeConfig defines what a prize tier pays. MonthlyLimits rations the prize per
// employee by tier; a tier without an entry is unrationed.
type PrizeConfig struct {
	PrizeType     string         `json:"prize_type" mapstructure:"prize_type" validate:"required"`
	PointValue    int64          `json:"point_value" mapstructure:"point_value" validate:"gt=0"`
	MonthlyLimits map[Tier]int64 `json:"monthly_limits,omitempty" mapstructure:"monthly_limits" validate:"dive,gt=0"`
}

// PoolLimits are the shared caps for one prize type
type PoolLimits struct {
	Daily   int64 `json:"daily" mapstructure:"daily" validate:"gt=0"`
	Weekly  int64 `json:"weekly" mapstructure:"weekly" validate:"gt=0"`
	Monthly int64 `json:"monthly" mapstructure:"monthly" validate:"gt=0"`
}

// EnabledGameTypes returns enabled game types in a stable order
func (c *EconomyConfig) EnabledGameTypes() []GameType {
	types := make([]GameType, 0, len(c.Games))
	for gt, g := range c.Games {
		if g.Enabled {
			types = append(types, gt)
		}
	}
	slices.Sort(types)
	return types
}

// PrizeFor returns the prize definition for a tier, falling back to the basic tier
func (c *EconomyConfig) PrizeFor(tier PrizeTier) PrizeConfig {
	if p, ok := c.Prizes[tier]; ok {
		return p
	}
	return c.Prizes[PrizeTierBasic]
}

// Clone returns a deep copy
func (c *EconomyConfig) Clone() *EconomyConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Difficulty.Multipliers = slices.Clone(c.Difficulty.Multipliers)
	out.Tiers = make(map[Tier]TierConfig, len(c.Tiers))
	for k, v := range c.Tiers {
		out.Tiers[k] = v
	}
	out.Games = make(map[GameType]GameTypeConfig, len(c.Games))
	for k, v := range c.Games {
		odds := make(map[PrizeTier]float64, len(v.BaseOdds))
		for pt, p := range v.BaseOdds {
			odds[pt] = p
		}
		v.BaseOdds = odds
		out.Games[k] = v
	}
	out.Prizes = make(map[PrizeTier]PrizeConfig, len(c.Prizes))
	for k, v := range c.Prizes {
		if v.MonthlyLimits != nil {
			limits := make(map[Tier]int64, len(v.MonthlyLimits))
			for t, l := range v.MonthlyLimits {
				limits[t] = l
			}
			v.MonthlyLimits = limits
		}
		out.Prizes[k] = v
	}
	out.Pools = make(map[string]PoolLimits, len(c.Pools))
	for k, v := range c.Pools {
		out.Pools[k] = v
	}
	return &out
}

// DefaultEconomyConfig returns the built-in tunables (version 0)
func DefaultEconomyConfig() *EconomyConfig {
	return &EconomyConfig{
		Difficulty: DifficultyConfig{Multipliers: []float64{0.5, 1.0, 1.5, 2.0, 3.0}},
		Boost: BoostConfig{
			Enabled:             true,
			ThresholdPercentile: DefaultBoostThresholdPercentile,
			MaxMultiplier:       DefaultBoostMaxMultiplier,
			CooldownHours:       DefaultBoostCooldownHours,
			JitterPercent:       DefaultBoostJitterPercent,
		},
		WinCap: WinCapConfig{
			Enabled:       true,
			Multiplier:    DefaultWinCapMultiplier,
			PeriodDays:    DefaultWinCapPeriodDays,
			HardCap:       DefaultWinCapHardCap,
			DampenFactor:  DefaultWinCapDampenFactor,
			SoftZoneStart: DefaultWinCapSoftZoneStart,
		},
		Exchange: ExchangeConfig{
			Enabled:              true,
			ReverseFeePercent:    DefaultReverseFeePercent,
			AutoReverseHoldDays:  DefaultAutoReverseHoldDays,
			AutoReverseMinTokens: DefaultAutoReverseMinTokens,
		},
		Tiers: map[Tier]TierConfig{
			TierBronze:   {PointsPerToken: 10, DailyTokenLimit: 50, CooldownHours: 4, OddsMultiplier: 1.00},
			TierSilver:   {PointsPerToken: 9, DailyTokenLimit: 100, CooldownHours: 2, OddsMultiplier: 1.05},
			TierGold:     {PointsPerToken: 8, DailyTokenLimit: 200, CooldownHours: 1, OddsMultiplier: 1.10},
			TierPlatinum: {PointsPerToken: 7, DailyTokenLimit: 400, CooldownHours: 0, OddsMultiplier: 1.15},
		},
		Expiration: ExpirationConfig{ExpireGuaranteedMonthly: true},
		Odds: OddsConfig{
			Ceiling:         DefaultOddsCeiling,
			JackpotMinPlays: DefaultJackpotMinPlays,
			PremiumTier:     PrizeTierMajor,
			PremiumBaseRate: DefaultPremiumBaseRate,
		},
		Games: map[GameType]GameTypeConfig{
			GameTypeSlots: {Enabled: true, TokenCost: 5, BaseOdds: map[PrizeTier]float64{
				PrizeTierJackpot: 0.010, PrizeTierMajor: 0.040, PrizeTierMinor: 0.100, PrizeTierBasic: 0.250,
			}},
			GameTypeRoulette: {Enabled: true, TokenCost: 4, BaseOdds: map[PrizeTier]float64{
				PrizeTierJackpot: 0.008, PrizeTierMajor: 0.035, PrizeTierMinor: 0.120, PrizeTierBasic: 0.300,
			}},
			GameTypeDice: {Enabled: true, TokenCost: 3, BaseOdds: map[PrizeTier]float64{
				PrizeTierJackpot: 0.005, PrizeTierMajor: 0.030, PrizeTierMinor: 0.120, PrizeTierBasic: 0.330,
			}},
			GameTypeWheel: {Enabled: true, TokenCost: 2, BaseOdds: map[PrizeTier]float64{
				PrizeTierJackpot: 0.015, PrizeTierMajor: 0.050, PrizeTierMinor: 0.090, PrizeTierBasic: 0.200,
			}},
		},
		Prizes: map[PrizeTier]PrizeConfig{
			PrizeTierJackpot: {PrizeType: "jackpot", PointValue: 500, MonthlyLimits: map[Tier]int64{
				TierBronze: 1, TierSilver: 1, TierGold: 2, TierPlatinum: 2,
			}},
			PrizeTierMajor: {PrizeType: "major", PointValue: 200, MonthlyLimits: map[Tier]int64{
				TierBronze: 2, TierSilver: 3, TierGold: 4, TierPlatinum: 5,
			}},
			PrizeTierMinor: {PrizeType: "minor", PointValue: 75, MonthlyLimits: map[Tier]int64{
				TierBronze: 5, TierSilver: 6, TierGold: 8, TierPlatinum: 10,
			}},
			PrizeTierBasic: {PrizeType: ConsolationPrizeType, PointValue: 25},
		},
		Pools: map[string]PoolLimits{
			"jackpot": {Daily: 1, Weekly: 5, Monthly: 10},
			"major":   {Daily: 10, Weekly: 40, Monthly: 120},
			"minor":   {Daily: 50, Weekly: 200, Monthly: 600},
		},
	}
}
