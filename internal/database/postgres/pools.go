package postgres

import (
	"context"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// A counter's effective value is 0 once its period has elapsed. Each statement
// below rolls and checks in the same row update, and markers only move forward,
// so two callers crossing a boundary together cannot undo each other's increment.

const reserveGlobalSQL = `
	UPDATE global_prize_pools SET
	    daily_used   = (CASE WHEN last_daily_reset   < $2 THEN 0 ELSE daily_used   END) + 1,
	    weekly_used  = (CASE WHEN last_weekly_reset  < $3 THEN 0 ELSE weekly_used  END) + 1,
	    monthly_used = (CASE WHEN last_monthly_reset < $4 THEN 0 ELSE monthly_used END) + 1,
	    last_daily_reset   = GREATEST(last_daily_reset, $2),
	    last_weekly_reset  = GREATEST(last_weekly_reset, $3),
	    last_monthly_reset = GREATEST(last_monthly_reset, $4)
	WHERE prize_type = $1
	  AND (CASE WHEN last_daily_reset   < $2 THEN 0 ELSE daily_used   END) < daily_limit
	  AND (CASE WHEN last_weekly_reset  < $3 THEN 0 ELSE weekly_used  END) < weekly_limit
	  AND (CASE WHEN last_monthly_reset < $4 THEN 0 ELSE monthly_used END) < monthly_limit`

const releaseGlobalSQL = `
	UPDATE global_prize_pools SET
	    daily_used   = CASE WHEN last_daily_reset   = $2 AND daily_used   > 0 THEN daily_used   - 1 ELSE daily_used   END,
	    weekly_used  = CASE WHEN last_weekly_reset  = $3 AND weekly_used  > 0 THEN weekly_used  - 1 ELSE weekly_used  END,
	    monthly_used = CASE WHEN last_monthly_reset = $4 AND monthly_used > 0 THEN monthly_used - 1 ELSE monthly_used END
	WHERE prize_type = $1`

const reserveIndividualSQL = `
	INSERT INTO prize_limits (employee_id, prize_type, tier, monthly_limit, monthly_used, last_reset)
	VALUES ($1, $2, $3, $4, 1, $5)
	ON CONFLICT (employee_id, prize_type, tier) DO UPDATE SET
	    monthly_limit = EXCLUDED.monthly_limit,
	    monthly_used  = (CASE WHEN prize_limits.last_reset < EXCLUDED.last_reset THEN 0 ELSE prize_limits.monthly_used END) + 1,
	    last_reset    = GREATEST(prize_limits.last_reset, EXCLUDED.last_reset)
	WHERE (CASE WHEN prize_limits.last_reset < EXCLUDED.last_reset THEN 0 ELSE prize_limits.monthly_used END) < EXCLUDED.monthly_limit`

const resetPoolsSQL = `
	UPDATE global_prize_pools SET
	    daily_used   = CASE WHEN last_daily_reset   < $1 THEN 0 ELSE daily_used   END,
	    weekly_used  = CASE WHEN last_weekly_reset  < $2 THEN 0 ELSE weekly_used  END,
	    monthly_used = CASE WHEN last_monthly_reset < $3 THEN 0 ELSE monthly_used END,
	    last_daily_reset   = GREATEST(last_daily_reset, $1),
	    last_weekly_reset  = GREATEST(last_weekly_reset, $2),
	    last_monthly_reset = GREATEST(last_monthly_reset, $3)
	WHERE last_daily_reset < $1 OR last_weekly_reset < $2 OR last_monthly_reset < $3`

func (t *tx) ReserveGlobalPrize(ctx context.Context, prizeType string, periods domain.PeriodStarts) (bool, error) {
	tag, err := t.tx.Exec(ctx, reserveGlobalSQL, prizeType, periods.Day, periods.Week, periods.Month)
	if err != nil {
		return false, mapError("reserve global prize", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM global_prize_pools WHERE prize_type = $1)`, prizeType).Scan(&exists); err != nil {
		return false, mapError("check global pool", err)
	}
	if !exists {
		return false, domain.ErrPoolNotFound
	}
	return false, nil
}

func (t *tx) ReleaseGlobalPrize(ctx context.Context, prizeType string, periods domain.PeriodStarts) error {
	tag, err := t.tx.Exec(ctx, releaseGlobalSQL, prizeType, periods.Day, periods.Week, periods.Month)
	if err != nil {
		return mapError("release global prize", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPoolNotFound
	}
	return nil
}

func (t *tx) ReserveIndividualPrize(ctx context.Context, key domain.PoolKey, limit int64, monthStart time.Time) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	tag, err := t.tx.Exec(ctx, reserveIndividualSQL, key.EmployeeID, key.PrizeType, string(key.Tier), limit, monthStart)
	if err != nil {
		return false, mapError("reserve individual prize", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *tx) ReleaseIndividualPrize(ctx context.Context, key domain.PoolKey, monthStart time.Time) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE prize_limits SET monthly_used = monthly_used - 1
		WHERE employee_id = $1 AND prize_type = $2 AND tier = $3 AND last_reset = $4 AND monthly_used > 0`,
		key.EmployeeID, key.PrizeType, string(key.Tier), monthStart)
	return mapError("release individual prize", err)
}

func (t *tx) ResetElapsedPools(ctx context.Context, periods domain.PeriodStarts) (int64, error) {
	tag, err := t.tx.Exec(ctx, resetPoolsSQL, periods.Day, periods.Week, periods.Month)
	if err != nil {
		return 0, mapError("reset elapsed pools", err)
	}
	return tag.RowsAffected(), nil
}

func (t *tx) ResetElapsedPrizeLimits(ctx context.Context, monthStart time.Time) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`UPDATE prize_limits SET monthly_used = 0, last_reset = $1 WHERE last_reset < $1`, monthStart)
	if err != nil {
		return 0, mapError("reset elapsed prize limits", err)
	}
	return tag.RowsAffected(), nil
}
