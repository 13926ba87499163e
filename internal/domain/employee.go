package domain

import "time"

// Tier is an employee standing level. Benefits escalate with rank.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// AllTiers lists tiers in ascending rank
var AllTiers = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

// Rank returns the ordinal position of the tier, or -1 if unknown.
func (t Tier) Rank() int {
	for i, tier := range AllTiers {
		if tier == t {
			return i
		}
	}
	return -1
}

func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// Employee is the persisted economy state of one employee.
type Employee struct {
	ID                    string     `json:"id"`
	PointBalance          int64      `json:"point_balance"`
	TokenBalance          int64      `json:"token_balance"`
	Tier                  Tier       `json:"tier"`
	PerformancePercentile float64    `json:"performance_percentile"`
	BestPeriodEarnings    int64      `json:"best_period_earnings"`
	Active                bool       `json:"active"`
	LastExchangeAt        *time.Time `json:"last_exchange_at,omitempty"`
	DailyExchangeCount    int64      `json:"daily_exchange_count"`
	DailyExchangeDate     *time.Time `json:"daily_exchange_date,omitempty"`
	LastBoostAt           *time.Time `json:"last_boost_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// ExchangedToday returns the number of tokens exchanged on the day starting at dayStart.
func (e *Employee) ExchangedToday(dayStart time.Time) int64 {
	if e.DailyExchangeDate == nil || !e.DailyExchangeDate.Equal(dayStart) {
		return 0
	}
	return e.DailyExchangeCount
}

// EmployeeProfile is what the hosting service knows about an employee.
// OpeningPoints seeds the point balance the first time the employee is seen.
type EmployeeProfile struct {
	ID                    string  `json:"id" mapstructure:"id"`
	Tier                  Tier    `json:"tier" mapstructure:"tier"`
	PerformancePercentile float64 `json:"performance_percentile" mapstructure:"performance_percentile"`
	BestPeriodEarnings    int64   `json:"best_period_earnings" mapstructure:"best_period_earnings"`
	OpeningPoints         int64   `json:"opening_points" mapstructure:"opening_points"`
	Active                bool    `json:"active" mapstructure:"active"`
}

// GamesSummary counts an employee's games
type GamesSummary struct {
	UnusedGuaranteed int `json:"unused_guaranteed"`
	UnusedGambling   int `json:"unused_gambling"`
	Played           int `json:"played"`
	Won              int `json:"won"`
	Lost             int `json:"lost"`
	Expired          int `json:"expired"`
}

// EmployeeSummary is the read model returned to the hosting service
type EmployeeSummary struct {
	EmployeeID         string             `json:"employee_id"`
	PointBalance       int64              `json:"point_balance"`
	TokenBalance       int64              `json:"token_balance"`
	Tier               Tier               `json:"tier"`
	Games              GamesSummary       `json:"games"`
	RecentTransactions []TokenTransaction `json:"recent_transactions"`
}
