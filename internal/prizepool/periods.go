package prizepool

import (
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// PeriodStartsAt returns the start of the day, week (Monday) and month containing now,
// computed in loc and expressed in UTC.
func PeriodStartsAt(now time.Time, loc *time.Location) domain.PeriodStarts {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()

	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	week := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	month := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	return domain.PeriodStarts{Day: day.UTC(), Week: week.UTC(), Month: month.UTC()}
}

// NextMonthStart returns the first instant of the month after the one containing now
func NextMonthStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month()+1, 1, 0, 0, 0, 0, loc).UTC()
}
