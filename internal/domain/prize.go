package domain

import "time"

// PoolScope selects which rationing record a reservation targets
type PoolScope string

const (
	ScopeIndividual PoolScope = "individual"
	ScopeGlobal     PoolScope = "global"
)

// PoolKey identifies a rationing record. EmployeeID and Tier are only used for
// the individual scope.
type PoolKey struct {
	PrizeType  string
	EmployeeID string
	Tier       Tier
}

// Period identifies one of the global pool windows
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// PeriodStarts holds the start of the current day, week and month
type PeriodStarts struct {
	Day   time.Time
	Week  time.Time
	Month time.Time
}

// PrizeLimitRecord rations one prize type for one employee per month
type PrizeLimitRecord struct {
	EmployeeID   string    `json:"employee_id"`
	PrizeType    string    `json:"prize_type"`
	Tier         Tier      `json:"tier"`
	MonthlyLimit int64     `json:"monthly_limit"`
	MonthlyUsed  int64     `json:"monthly_used"`
	LastReset    time.Time `json:"last_reset"`
}

// Remaining returns the reservations left once the record is rolled to monthStart
func (r PrizeLimitRecord) Remaining(monthStart time.Time) int64 {
	used := r.MonthlyUsed
	if r.LastReset.Before(monthStart) {
		used = 0
	}
	return r.MonthlyLimit - used
}

// GlobalPrizePool rations one prize type across all employees
type GlobalPrizePool struct {
	PrizeType        string    `json:"prize_type"`
	DailyLimit       int64     `json:"daily_limit"`
	DailyUsed        int64     `json:"daily_used"`
	WeeklyLimit      int64     `json:"weekly_limit"`
	WeeklyUsed       int64     `json:"weekly_used"`
	MonthlyLimit     int64     `json:"monthly_limit"`
	MonthlyUsed      int64     `json:"monthly_used"`
	LastDailyReset   time.Time `json:"last_daily_reset"`
	LastWeeklyReset  time.Time `json:"last_weekly_reset"`
	LastMonthlyReset time.Time `json:"last_monthly_reset"`
}

// Rolled returns a copy with every elapsed period counter reset and its marker advanced.
// Markers never move backwards.
func (p GlobalPrizePool) Rolled(periods PeriodStarts) GlobalPrizePool {
	if p.LastDailyReset.Before(periods.Day) {
		p.DailyUsed = 0
		p.LastDailyReset = periods.Day
	}
	if p.LastWeeklyReset.Before(periods.Week) {
		p.WeeklyUsed = 0
		p.LastWeeklyReset = periods.Week
	}
	if p.LastMonthlyReset.Before(periods.Month) {
		p.MonthlyUsed = 0
		p.LastMonthlyReset = periods.Month
	}
	return p
}

// ExhaustedPeriod returns the first period with no capacity left, or "" if all have room.
func (p GlobalPrizePool) ExhaustedPeriod() Period {
	switch {
	case p.DailyUsed >= p.DailyLimit:
		return PeriodDaily
	case p.WeeklyUsed >= p.WeeklyLimit:
		return PeriodWeekly
	case p.MonthlyUsed >= p.MonthlyLimit:
		return PeriodMonthly
	}
	return ""
}
