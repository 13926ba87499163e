package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// mapError converts lock contention and timeouts into domain.ErrConcurrencyConflict
// so callers can retry them.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
			return fmt.Errorf("%w: %s: %s", domain.ErrConcurrencyConflict, op, pgErr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConcurrencyConflict, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	var tier string
	err := row.Scan(&e.ID, &e.PointBalance, &e.TokenBalance, &tier, &e.PerformancePercentile,
		&e.BestPeriodEarnings, &e.Active, &e.LastExchangeAt, &e.DailyExchangeCount, &e.DailyExchangeDate,
		&e.LastBoostAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Tier = domain.Tier(tier)
	return &e, nil
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	var category, gameType, source, status string
	var outcome []byte
	err := row.Scan(&g.ID, &g.EmployeeID, &category, &gameType, &g.Difficulty, &source, &status,
		&g.AwardedAt, &g.PlayedAt, &g.ExpiredAt, &outcome)
	if err != nil {
		return nil, err
	}
	g.Category = domain.GameCategory(category)
	g.GameType = domain.GameType(gameType)
	g.Source = domain.AchievementSource(source)
	g.Status = domain.GameStatus(status)
	if len(outcome) > 0 {
		var o domain.GameOutcome
		if err := json.Unmarshal(outcome, &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game outcome: %w", err)
		}
		g.Outcome = &o
	}
	return &g, nil
}

func scanTransaction(row pgx.Row) (*domain.TokenTransaction, error) {
	var t domain.TokenTransaction
	var txType, rate string
	err := row.Scan(&t.ID, &t.EmployeeID, &txType, &t.PointDelta, &t.TokenDelta, &rate, &t.GameID, &t.Note, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(txType)
	t.ExchangeRateUsed, err = decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exchange rate: %w", err)
	}
	return &t, nil
}

func scanPool(row pgx.Row) (*domain.GlobalPrizePool, error) {
	var p domain.GlobalPrizePool
	err := row.Scan(&p.PrizeType, &p.DailyLimit, &p.DailyUsed, &p.WeeklyLimit, &p.WeeklyUsed,
		&p.MonthlyLimit, &p.MonthlyUsed, &p.LastDailyReset, &p.LastWeeklyReset, &p.LastMonthlyReset)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func marshalOutcome(o *domain.GameOutcome) ([]byte, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}
