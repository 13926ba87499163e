package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

type tx struct {
	tx pgx.Tx
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return mapError(ErrMsgFailedToCommitTx, err)
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

func (t *tx) GetEmployeeForUpdate(ctx context.Context, employeeID string) (*domain.Employee, error) {
	e, err := scanEmployee(t.tx.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1 FOR UPDATE`, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, mapError("get employee for update", err)
	}
	return e, nil
}

func (t *tx) InsertEmployee(ctx context.Context, e *domain.Employee) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO employees (employee_id, point_balance, token_balance, tier, performance_percentile,
			best_period_earnings, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		e.ID, e.PointBalance, e.TokenBalance, string(e.Tier), e.PerformancePercentile,
		e.BestPeriodEarnings, e.Active, e.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: employee %s was created concurrently", domain.ErrConcurrencyConflict, e.ID)
	}
	return mapError("insert employee", err)
}

func (t *tx) UpdateEmployee(ctx context.Context, e *domain.Employee) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE employees
		SET point_balance = $2, token_balance = $3, tier = $4, performance_percentile = $5,
		    best_period_earnings = $6, active = $7, last_exchange_at = $8, daily_exchange_count = $9,
		    daily_exchange_date = $10, last_boost_at = $11, updated_at = $12
		WHERE employee_id = $1`,
		e.ID, e.PointBalance, e.TokenBalance, string(e.Tier), e.PerformancePercentile,
		e.BestPeriodEarnings, e.Active, e.LastExchangeAt, e.DailyExchangeCount,
		e.DailyExchangeDate, e.LastBoostAt, e.UpdatedAt)
	if err != nil {
		return mapError("update employee", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (t *tx) AppendTransaction(ctx context.Context, txn *domain.TokenTransaction) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO token_transactions (transaction_id, employee_id, transaction_type, point_delta,
			token_delta, exchange_rate_used, game_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)`,
		txn.ID, txn.EmployeeID, string(txn.Type), txn.PointDelta, txn.TokenDelta,
		txn.ExchangeRateUsed.String(), txn.GameID, txn.Note, txn.CreatedAt)
	return mapError("append transaction", err)
}

func (t *tx) LastActivityAt(ctx context.Context, employeeID string) (*time.Time, error) {
	var last *time.Time
	err := t.tx.QueryRow(ctx,
		`SELECT MAX(created_at) FROM token_transactions WHERE employee_id = $1`, employeeID).Scan(&last)
	if err != nil {
		return nil, mapError("get last activity", err)
	}
	return last, nil
}

func (t *tx) InsertGame(ctx context.Context, g *domain.Game) error {
	outcome, err := marshalOutcome(g.Outcome)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO games (game_id, employee_id, category, game_type, difficulty, source, status,
			awarded_at, played_at, expired_at, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		g.ID, g.EmployeeID, string(g.Category), string(g.GameType), g.Difficulty, string(g.Source),
		string(g.Status), g.AwardedAt, g.PlayedAt, g.ExpiredAt, outcome)
	return mapError("insert game", err)
}

func (t *tx) GetGameForUpdate(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	g, err := scanGame(t.tx.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = $1 FOR UPDATE`, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, mapError("get game for update", err)
	}
	return g, nil
}

func (t *tx) UpdateGameIfStatus(ctx context.Context, g *domain.Game, expected domain.GameStatus) (int64, error) {
	outcome, err := marshalOutcome(g.Outcome)
	if err != nil {
		return 0, err
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE games SET status = $2, played_at = $3, expired_at = $4, outcome = $5
		WHERE game_id = $1 AND status = $6`,
		g.ID, string(g.Status), g.PlayedAt, g.ExpiredAt, outcome, string(expected))
	if err != nil {
		return 0, mapError("update game status", err)
	}
	return tag.RowsAffected(), nil
}

func (t *tx) CountPlayedGames(ctx context.Context, employeeID string, category domain.GameCategory) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM games WHERE employee_id = $1 AND category = $2 AND status = $3`,
		employeeID, string(category), string(domain.GameStatusPlayed)).Scan(&n)
	if err != nil {
		return 0, mapError("count played games", err)
	}
	return n, nil
}

func (t *tx) SumWinnings(ctx context.Context, employeeID string, category domain.GameCategory, since time.Time) (int64, error) {
	var total int64
	err := t.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(tt.point_delta), 0)
		FROM token_transactions tt
		JOIN games g ON g.game_id = tt.game_id
		WHERE tt.employee_id = $1 AND tt.transaction_type = $2 AND g.category = $3 AND tt.created_at >= $4`,
		employeeID, string(domain.TxTypeWin), string(category), since).Scan(&total)
	if err != nil {
		return 0, mapError("sum winnings", err)
	}
	return total, nil
}

func (t *tx) ExpireUnusedGames(ctx context.Context, category domain.GameCategory, awardedBefore, now time.Time) (int64, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE games SET status = $1, expired_at = $2
		WHERE category = $3 AND status = $4 AND awarded_at < $5`,
		string(domain.GameStatusExpired), now, string(category), string(domain.GameStatusUnused), awardedBefore)
	if err != nil {
		return 0, mapError("expire unused games", err)
	}
	return tag.RowsAffected(), nil
}
