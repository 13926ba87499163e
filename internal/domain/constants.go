package domain

// Difficulty bounds
const (
	MinDifficulty = 1
	MaxDifficulty = 5

	// GuaranteedDifficulty is the lowest difficulty that always awards a guaranteed game
	GuaranteedDifficulty = 4
)

// Default economy tunables. These are the values the engine runs with when no
// stored config exists, and the conservative fallback when config cannot be loaded.
const (
	DefaultBoostThresholdPercentile = 30.0
	DefaultBoostMaxMultiplier       = 2.0
	DefaultBoostCooldownHours       = 24
	DefaultBoostJitterPercent       = 10.0

	DefaultWinCapMultiplier    = 1.5
	DefaultWinCapPeriodDays    = 30
	DefaultWinCapHardCap       = 5000
	DefaultWinCapDampenFactor  = 0.1
	DefaultWinCapSoftZoneStart = 0.8

	DefaultOddsCeiling          = 0.95
	DefaultJackpotMinPlays      = 5
	DefaultPremiumBaseRate      = 0.20
	DefaultReverseFeePercent    = 20.0
	DefaultAutoReverseHoldDays  = 60
	DefaultAutoReverseMinTokens = 1
)

// ConsolationPrizeType is awarded when a drawn prize cannot be reserved
const ConsolationPrizeType = "basic_points"
