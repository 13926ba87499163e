package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExchangeDirection string

const (
	DirectionPointsToTokens ExchangeDirection = "points_to_tokens"
	DirectionTokensToPoints ExchangeDirection = "tokens_to_points"
)

func (d ExchangeDirection) Valid() bool {
	return d == DirectionPointsToTokens || d == DirectionTokensToPoints
}

// ExchangeResult reports balances after an exchange
type ExchangeResult struct {
	EmployeeID      string            `json:"employee_id"`
	Direction       ExchangeDirection `json:"direction"`
	Tokens          int64             `json:"tokens"`
	Points          int64             `json:"points"`
	RateUsed        decimal.Decimal   `json:"rate_used"`
	NewPointBalance int64             `json:"new_point_balance"`
	NewTokenBalance int64             `json:"new_token_balance"`
}

// ReversalRecord describes one idle token balance converted back to points
type ReversalRecord struct {
	EmployeeID     string          `json:"employee_id"`
	Tokens         int64           `json:"tokens"`
	Points         int64           `json:"points"`
	RateUsed       decimal.Decimal `json:"rate_used"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	ReversedAt     time.Time       `json:"reversed_at"`
}
