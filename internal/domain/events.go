package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants published on the event bus after a successful commit.
//
// Event types follow the pattern: <entity>.<action> (e.g., "game.played")
const (
	// EventTypeGameAwarded is published when a game is awarded to an employee
	EventTypeGameAwarded = "game.awarded"

	// EventTypeGamePlayed is published when a game resolves
	EventTypeGamePlayed = "game.played"

	// EventTypePoolExhausted is published when a drawn prize was downgraded
	EventTypePoolExhausted = "prize.pool_exhausted"

	// EventTypeTokensExchanged is published after a points/tokens exchange
	EventTypeTokensExchanged = "tokens.exchanged"

	// EventTypeTokensAutoReversed is published for every idle balance swept back to points
	EventTypeTokensAutoReversed = "tokens.auto_reversed"

	// EventTypeConfigUpdated is published when a new economy config version is persisted
	EventTypeConfigUpdated = "config.updated"

	// EventTypeMonthlyResetCompleted is published after the monthly reset runs
	EventTypeMonthlyResetCompleted = "reset.monthly_completed"
)

type GameAwardedPayload struct {
	GameID     uuid.UUID    `json:"game_id"`
	EmployeeID string       `json:"employee_id"`
	Category   GameCategory `json:"category"`
	GameType   GameType     `json:"game_type"`
	Difficulty int          `json:"difficulty"`
}

type GamePlayedPayload struct {
	GameID        uuid.UUID    `json:"game_id"`
	EmployeeID    string       `json:"employee_id"`
	Category      GameCategory `json:"category"`
	GameType      GameType     `json:"game_type"`
	Outcome       Outcome      `json:"outcome"`
	PrizeType     string       `json:"prize_type,omitempty"`
	PrizeValue    int64        `json:"prize_value"`
	PoolExhausted bool         `json:"pool_exhausted"`
	BoostApplied  bool         `json:"boost_applied"`
}

type PoolExhaustedPayload struct {
	EmployeeID string    `json:"employee_id"`
	PrizeType  string    `json:"prize_type"`
	Scope      PoolScope `json:"scope"`
}

type TokensExchangedPayload struct {
	EmployeeID string            `json:"employee_id"`
	Direction  ExchangeDirection `json:"direction"`
	Tokens     int64             `json:"tokens"`
	Points     int64             `json:"points"`
}

type TokensAutoReversedPayload struct {
	EmployeeID string `json:"employee_id"`
	Tokens     int64  `json:"tokens"`
	Points     int64  `json:"points"`
}

type ConfigUpdatedPayload struct {
	Version int64  `json:"version"`
	Section string `json:"section"`
	ActorID string `json:"actor_id"`
}

type MonthlyResetPayload struct {
	PeriodStart   time.Time `json:"period_start"`
	ExpiredGames  int64     `json:"expired_games"`
	ResetCounters int64     `json:"reset_counters"`
}
