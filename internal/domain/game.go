package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// GameCategory is the reward track of a game
type GameCategory string

const (
	// CategoryGuaranteed always resolves as a win (Category A)
	CategoryGuaranteed GameCategory = "guaranteed"
	// CategoryGambling may resolve as a loss and costs tokens to play (Category B)
	CategoryGambling GameCategory = "gambling"
)

type GameType string

const (
	GameTypeSlots    GameType = "slots"
	GameTypeRoulette GameType = "roulette"
	GameTypeDice     GameType = "dice"
	GameTypeWheel    GameType = "wheel"
)

// AllGameTypes lists the supported game types
var AllGameTypes = []GameType{GameTypeSlots, GameTypeRoulette, GameTypeDice, GameTypeWheel}

func (g GameType) Valid() bool {
	return slices.Contains(AllGameTypes, g)
}

// GameStatus transitions are one-way: unused -> played or unused -> expired
type GameStatus string

const (
	GameStatusUnused  GameStatus = "unused"
	GameStatusPlayed  GameStatus = "played"
	GameStatusExpired GameStatus = "expired"
)

// AchievementSource describes what earned the game
type AchievementSource string

const (
	SourceTask       AchievementSource = "task"
	SourceVoting     AchievementSource = "voting"
	SourceMilestone  AchievementSource = "milestone"
	SourceAdminAward AchievementSource = "admin_award"
)

func (s AchievementSource) Valid() bool {
	switch s {
	case SourceTask, SourceVoting, SourceMilestone, SourceAdminAward:
		return true
	}
	return false
}

// PrizeTier values in the fixed draw priority order
type PrizeTier string

const (
	PrizeTierJackpot PrizeTier = "jackpot"
	PrizeTierMajor   PrizeTier = "major"
	PrizeTierMinor   PrizeTier = "minor"
	PrizeTierBasic   PrizeTier = "basic"
)

// PrizeTierOrder is the order in which tiers are tried against a draw.
// Richer prizes come first.
var PrizeTierOrder = []PrizeTier{PrizeTierJackpot, PrizeTierMajor, PrizeTierMinor, PrizeTierBasic}

func (p PrizeTier) Valid() bool {
	return slices.Contains(PrizeTierOrder, p)
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// GameOutcome is embedded in a game once it has been played
type GameOutcome struct {
	Result        Outcome   `json:"result"`
	PrizeTier     PrizeTier `json:"prize_tier,omitempty"`
	PrizeType     string    `json:"prize_type,omitempty"`
	PrizeValue    int64     `json:"prize_value"`
	PoolExhausted bool      `json:"pool_exhausted"`
	BoostApplied  bool      `json:"boost_applied"`
	TokensSpent   int64     `json:"tokens_spent"`
}

type Game struct {
	ID         uuid.UUID         `json:"id"`
	EmployeeID string            `json:"employee_id"`
	Category   GameCategory      `json:"category"`
	GameType   GameType          `json:"game_type"`
	Difficulty int               `json:"difficulty"`
	Source     AchievementSource `json:"source"`
	Status     GameStatus        `json:"status"`
	AwardedAt  time.Time         `json:"awarded_at"`
	PlayedAt   *time.Time        `json:"played_at,omitempty"`
	ExpiredAt  *time.Time        `json:"expired_at,omitempty"`
	Outcome    *GameOutcome      `json:"outcome,omitempty"`
}

// PlayResult is returned to the caller of PlayGame
type PlayResult struct {
	GameID        uuid.UUID    `json:"game_id"`
	Category      GameCategory `json:"category"`
	Outcome       Outcome      `json:"outcome"`
	PrizeTier     PrizeTier    `json:"prize_tier,omitempty"`
	PrizeType     string       `json:"prize_type,omitempty"`
	PrizeValue    int64        `json:"prize_value"`
	PoolExhausted bool         `json:"pool_exhausted"`
	BoostApplied  bool         `json:"boost_applied"`
	TokensSpent   int64        `json:"tokens_spent"`
	PointBalance  int64        `json:"point_balance"`
	TokenBalance  int64        `json:"token_balance"`
	Message       string       `json:"message"`
}

// MonthlyResetResult reports what a monthly reset changed
type MonthlyResetResult struct {
	PeriodStart   time.Time `json:"period_start"`
	ExpiredGames  int64     `json:"expired_games"`
	ResetCounters int64     `json:"reset_counters"`
}
