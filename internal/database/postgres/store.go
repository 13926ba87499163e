package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db          *pgxpool.Pool
	lockTimeout string
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a Store. lockTimeout bounds row-lock waits inside transactions.
func NewStore(db *pgxpool.Pool, lockTimeout time.Duration) *Store {
	lt := DefaultLockTimeout
	if lockTimeout > 0 {
		lt = fmt.Sprintf("%dms", lockTimeout.Milliseconds())
	}
	return &Store{db: db, lockTimeout: lt}
}

func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	pgxTx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, mapError(ErrMsgFailedToBeginTx, err)
	}
	// SET LOCAL does not accept bind parameters
	if _, err := pgxTx.Exec(ctx, "SET LOCAL lock_timeout = '"+s.lockTimeout+"'"); err != nil {
		_ = pgxTx.Rollback(ctx)
		return nil, mapError("set lock timeout", err)
	}
	return &tx{tx: pgxTx}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) GetLatestConfig(ctx context.Context) (*domain.EconomyConfig, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM economy_config ORDER BY version DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get latest config", err)
	}
	var cfg domain.EconomyConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, cfg *domain.EconomyConfig, section, actorID string) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO economy_config (version, payload, section, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		cfg.Version, payload, section, actorID, cfg.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: config version %d already exists", domain.ErrConcurrencyConflict, cfg.Version)
	}
	if err != nil {
		return mapError("save config", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	e, err := scanEmployee(s.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, mapError("get employee", err)
	}
	return e, nil
}

func (s *Store) ListIdleTokenHolders(ctx context.Context, idleBefore time.Time, minTokens int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.employee_id
		FROM employees e
		WHERE e.active
		  AND e.token_balance >= $2
		  AND COALESCE(
		        (SELECT MAX(t.created_at) FROM token_transactions t WHERE t.employee_id = e.employee_id),
		        e.created_at) < $1
		ORDER BY e.employee_id`, idleBefore, minTokens)
	if err != nil {
		return nil, mapError("list idle token holders", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError("list idle token holders", err)
	}
	return ids, nil
}

func (s *Store) ListTransactions(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM token_transactions WHERE employee_id = $1 ORDER BY created_at DESC, transaction_id`
	args := []any{employeeID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list transactions", err)
	}
	defer rows.Close()

	var out []domain.TokenTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) SumLedger(ctx context.Context, employeeID string) (int64, int64, int64, error) {
	var points, tokens, count int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(point_delta), 0), COALESCE(SUM(token_delta), 0), COUNT(*)
		FROM token_transactions WHERE employee_id = $1`, employeeID).Scan(&points, &tokens, &count)
	if err != nil {
		return 0, 0, 0, mapError("sum ledger", err)
	}
	return points, tokens, count, nil
}

func (s *Store) GetGame(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	g, err := scanGame(s.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = $1`, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, mapError("get game", err)
	}
	return g, nil
}

func (s *Store) ListGames(ctx context.Context, employeeID string) ([]domain.Game, error) {
	rows, err := s.db.Query(ctx, `SELECT `+gameColumns+` FROM games WHERE employee_id = $1 ORDER BY awarded_at, game_id`, employeeID)
	if err != nil {
		return nil, mapError("list games", err)
	}
	defer rows.Close()

	var out []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (s *Store) GetGlobalPool(ctx context.Context, prizeType string) (*domain.GlobalPrizePool, error) {
	p, err := scanPool(s.db.QueryRow(ctx, `SELECT `+poolColumns+` FROM global_prize_pools WHERE prize_type = $1`, prizeType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPoolNotFound
	}
	if err != nil {
		return nil, mapError("get global pool", err)
	}
	return p, nil
}

func (s *Store) GetPrizeLimit(ctx context.Context, key domain.PoolKey) (*domain.PrizeLimitRecord, error) {
	var r domain.PrizeLimitRecord
	var tier string
	err := s.db.QueryRow(ctx, `
		SELECT employee_id, prize_type, tier, monthly_limit, monthly_used, last_reset
		FROM prize_limits WHERE employee_id = $1 AND prize_type = $2 AND tier = $3`,
		key.EmployeeID, key.PrizeType, string(key.Tier)).
		Scan(&r.EmployeeID, &r.PrizeType, &tier, &r.MonthlyLimit, &r.MonthlyUsed, &r.LastReset)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get prize limit", err)
	}
	r.Tier = domain.Tier(tier)
	return &r, nil
}

func (s *Store) UpsertPoolLimits(ctx context.Context, prizeType string, limits domain.PoolLimits) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO global_prize_pools (prize_type, daily_limit, weekly_limit, monthly_limit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (prize_type) DO UPDATE
		SET daily_limit = EXCLUDED.daily_limit,
		    weekly_limit = EXCLUDED.weekly_limit,
		    monthly_limit = EXCLUDED.monthly_limit`,
		prizeType, limits.Daily, limits.Weekly, limits.Monthly)
	return mapError("upsert pool limits", err)
}
