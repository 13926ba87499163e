package prizepool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/concurrency"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// ConfigLoader provides the active economy config
type ConfigLoader interface {
	Load(ctx context.Context) (*domain.EconomyConfig, error)
}

// Store is the persistence surface the pool needs
type Store interface {
	repository.TxBeginner
	repository.PoolRepository
}

// Reservation is the result of reserving a won prize inside a play transaction
type Reservation struct {
	Reserved bool
	// ExhaustedScope names the record that had no capacity when Reserved is false
	ExhaustedScope domain.PoolScope
}

// Service rations scarce prizes per employee per month and globally per day, week
// and month. Every counter change is a single conditional write on the stored row;
// no counter is cached in process.
type Service interface {
	CheckAvailability(ctx context.Context, scope domain.PoolScope, key domain.PoolKey) (bool, string, error)
	// Reserve takes one unit in its own transaction, retrying conflicts
	Reserve(ctx context.Context, scope domain.PoolScope, key domain.PoolKey) (bool, error)
	Release(ctx context.Context, scope domain.PoolScope, key domain.PoolKey) error
	// ReserveForWin reserves the individual record and then the global pool inside tx.
	// If either is exhausted the units already taken are released.
	ReserveForWin(ctx context.Context, tx repository.Tx, cfg *domain.EconomyConfig, key domain.PoolKey) (Reservation, error)
	// ResetElapsed zeroes counters whose period has ended and returns how many were reset
	ResetElapsed(ctx context.Context, tx repository.Tx) (int64, error)
	SyncLimits(ctx context.Context, cfg *domain.EconomyConfig) error
	Periods() domain.PeriodStarts
}

type service struct {
	store      Store
	configs    ConfigLoader
	loc        *time.Location
	maxRetries int
	now        func() time.Time
}

// NewService creates a prize pool service. Periods are computed in loc.
func NewService(store Store, configs ConfigLoader, loc *time.Location, maxRetries int) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		store:      store,
		configs:    configs,
		loc:        loc,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

func (s *service) Periods() domain.PeriodStarts {
	return PeriodStartsAt(s.now(), s.loc)
}

// IndividualLimit returns the monthly limit for the prize type at tier, or 0 when unrationed
func IndividualLimit(cfg *domain.EconomyConfig, prizeType string, tier domain.Tier) int64 {
	if cfg == nil {
		return 0
	}
	for _, p := range cfg.Prizes {
		if p.PrizeType == prizeType {
			return p.MonthlyLimits[tier]
		}
	}
	return 0
}

func validateKey(scope domain.PoolScope, key domain.PoolKey) error {
	switch scope {
	case domain.ScopeGlobal:
	case domain.ScopeIndividual:
		if key.EmployeeID == "" || !key.Tier.Valid() {
			return fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgMissingEmployee)
		}
	default:
		return fmt.Errorf("%w: %s %q", domain.ErrValidation, ErrMsgUnknownScope, scope)
	}
	if key.PrizeType == "" {
		return fmt.Errorf("%w: prize type is required", domain.ErrValidation)
	}
	return nil
}

func (s *service) CheckAvailability(ctx context.Context, scope domain.PoolScope, key domain.PoolKey) (bool, string, error) {
	if err := validateKey(scope, key); err != nil {
		return false, "", err
	}
	periods := s.Periods()

	if scope == domain.ScopeGlobal {
		pool, err := s.store.GetGlobalPool(ctx, key.PrizeType)
		if errors.Is(err, domain.ErrPoolNotFound) {
			return true, ReasonUnrationed, nil
		}
		if err != nil {
			return false, "", err
		}
		if period := pool.Rolled(periods).ExhaustedPeriod(); period != "" {
			return false, fmt.Sprintf(ReasonSoldOutFmt, period), nil
		}
		return true, ReasonAvailable, nil
	}

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return false, "", err
	}
	limit := IndividualLimit(cfg, key.PrizeType, key.Tier)
	if limit <= 0 {
		return true, ReasonUnrationed, nil
	}
	rec, err := s.store.GetPrizeLimit(ctx, key)
	if err != nil {
		return false, "", err
	}
	if rec == nil {
		return true, ReasonAvailable, nil
	}
	rec.MonthlyLimit = limit
	if rec.Remaining(periods.Month) <= 0 {
		return false, ReasonMonthlyCap, nil
	}
	return true, ReasonAvailable, nil
}

func (s *service) Reserve(ctx context.Context, scope domain.PoolScope, key domain.PoolKey) (bool, error) {
	if err := validateKey(scope, key); err != nil {
		return false, err
	}

	var limit int64
	if scope == domain.ScopeIndividual {
		cfg, err := s.configs.Load(ctx)
		if err != nil {
			return false, err
		}
		if limit = IndividualLimit(cfg, key.PrizeType, key.Tier); limit <= 0 {
			return true, nil
		}
	}

	var reserved bool
	err := s.inTx(ctx, func(tx repository.Tx) error {
		var err error
		periods := s.Periods()
		if scope == domain.ScopeGlobal {
			reserved, err = tx.ReserveGlobalPrize(ctx, key.PrizeType, periods)
			if errors.Is(err, domain.ErrPoolNotFound) {
				reserved, err = true, nil
			}
		} else {
			reserved, err = tx.ReserveIndividualPrize(ctx, key, limit, periods.Month)
		}
		return err
	})
	if err != nil {
		return false, err
	}

	log := logger.FromContext(ctx)
	if reserved {
		log.Debug(LogMsgReserved, "scope", scope, "prize_type", key.PrizeType, "employee_id", key.EmployeeID)
	} else {
		log.Info(LogMsgReserveExhausted, "scope", scope, "prize_type", key.PrizeType, "employee_id", key.EmployeeID)
	}
	return reserved, nil
}

func (s *service) Release(ctx context.Context, scope domain.PoolScope, key domain.PoolKey) error {
	if err := validateKey(scope, key); err != nil {
		return err
	}
	err := s.inTx(ctx, func(tx repository.Tx) error {
		periods := s.Periods()
		if scope == domain.ScopeGlobal {
			err := tx.ReleaseGlobalPrize(ctx, key.PrizeType, periods)
			if errors.Is(err, domain.ErrPoolNotFound) {
				return nil
			}
			return err
		}
		return tx.ReleaseIndividualPrize(ctx, key, periods.Month)
	})
	if err == nil {
		logger.FromContext(ctx).Debug(LogMsgReleased, "scope", scope, "prize_type", key.PrizeType)
	}
	return err
}

// inTx runs fn in a fresh transaction, retrying the whole transaction on conflict
func (s *service) inTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	onRetry := func(attempt int, err error) {
		logger.FromContext(ctx).Debug(LogMsgReserveRetry, "attempt", attempt, "error", err)
	}
	return concurrency.RetryOnConflict(ctx, s.maxRetries, onRetry, func() error {
		tx, err := s.store.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
		}
		defer repository.SafeRollback(ctx, tx)

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
		}
		return nil
	})
}

func (s *service) ReserveForWin(ctx context.Context, tx repository.Tx, cfg *domain.EconomyConfig, key domain.PoolKey) (Reservation, error) {
	periods := s.Periods()
	log := logger.FromContext(ctx)

	individual := false
	if limit := IndividualLimit(cfg, key.PrizeType, key.Tier); limit > 0 {
		ok, err := tx.ReserveIndividualPrize(ctx, key, limit, periods.Month)
		if err != nil {
			return Reservation{}, err
		}
		if !ok {
			log.Info(LogMsgReserveExhausted, "scope", domain.ScopeIndividual, "prize_type", key.PrizeType, "employee_id", key.EmployeeID)
			return Reservation{ExhaustedScope: domain.ScopeIndividual}, nil
		}
		individual = true
	}

	ok, err := tx.ReserveGlobalPrize(ctx, key.PrizeType, periods)
	if errors.Is(err, domain.ErrPoolNotFound) {
		ok, err = true, nil
	}
	if err != nil {
		return Reservation{}, err
	}
	if !ok {
		if individual {
			if err := tx.ReleaseIndividualPrize(ctx, key, periods.Month); err != nil {
				return Reservation{}, err
			}
		}
		log.Info(LogMsgReserveExhausted, "scope", domain.ScopeGlobal, "prize_type", key.PrizeType, "employee_id", key.EmployeeID)
		return Reservation{ExhaustedScope: domain.ScopeGlobal}, nil
	}

	log.Debug(LogMsgReserved, "prize_type", key.PrizeType, "employee_id", key.EmployeeID)
	return Reservation{Reserved: true}, nil
}

func (s *service) ResetElapsed(ctx context.Context, tx repository.Tx) (int64, error) {
	periods := s.Periods()

	pools, err := tx.ResetElapsedPools(ctx, periods)
	if err != nil {
		return 0, err
	}
	limits, err := tx.ResetElapsedPrizeLimits(ctx, periods.Month)
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info(LogMsgPoolsReset, "pools", pools, "limits", limits, "month_start", periods.Month)
	return pools + limits, nil
}

func (s *service) SyncLimits(ctx context.Context, cfg *domain.EconomyConfig) error {
	for prizeType, limits := range cfg.Pools {
		if err := s.store.UpsertPoolLimits(ctx, prizeType, limits); err != nil {
			return fmt.Errorf(ErrMsgSyncLimits+": %w", prizeType, err)
		}
	}
	logger.FromContext(ctx).Info(LogMsgLimitsSynced, "pools", len(cfg.Pools))
	return nil
}
