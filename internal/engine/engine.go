// Package engine is the call surface the hosting service uses. It syncs employees
// from the directory, serializes work per employee and retries conflicting
// transactions before handing off to the component services.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/concurrency"
	"github.com/osse101/RewardArcade_Go/internal/configstore"
	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/exchange"
	"github.com/osse101/RewardArcade_Go/internal/game"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// Service is the engine call surface
type Service interface {
	AwardGame(ctx context.Context, employeeID string, source domain.AchievementSource, difficulty int) (*domain.Game, error)
	PlayGame(ctx context.Context, employeeID string, gameID uuid.UUID) (*domain.PlayResult, error)
	Exchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (*domain.ExchangeResult, error)
	CanExchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (bool, string, error)
	GetEmployeeSummary(ctx context.Context, employeeID string) (*domain.EmployeeSummary, error)
	Reconcile(ctx context.Context, employeeID string) (*domain.ReconciliationReport, error)
	History(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error)

	RunMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error)
	RunAutoReverseSweep(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error)

	AdjustPoints(ctx context.Context, actorID, employeeID string, delta int64, reason string) (*domain.TokenTransaction, error)
	UpdateConfig(ctx context.Context, actorID, section string, payload json.RawMessage) (*domain.EconomyConfig, error)
	ExportConfig(ctx context.Context, actorID string) ([]byte, error)
	ImportConfig(ctx context.Context, actorID string, blob []byte) (*domain.EconomyConfig, error)

	Ready(ctx context.Context) error
}

// Recorder receives signals that are not published as events
type Recorder interface {
	LockTimeout(op string)
	ConflictRetry(op string)
}

type nopRecorder struct{}

func (nopRecorder) LockTimeout(string)   {}
func (nopRecorder) ConflictRetry(string) {}

// Deps are the collaborators of the engine. Recorder is optional.
type Deps struct {
	Store      repository.Store
	Directory  repository.Directory
	Authorizer Authorizer
	Configs    configstore.Service
	Ledger     ledger.Service
	Exchange   exchange.Service
	Games      game.Service
	Pools      prizepool.Service
	Locks      *concurrency.LockManager
	Recorder   Recorder
}

// Options tune locking and retries
type Options struct {
	PlayLockTimeout time.Duration
	ConflictRetries int
}

type service struct {
	deps Deps
	opts Options
	now  func() time.Time
}

// NewService creates the engine
func NewService(deps Deps, opts Options) Service {
	if deps.Locks == nil {
		deps.Locks = concurrency.NewLockManager()
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if opts.PlayLockTimeout <= 0 {
		opts.PlayLockTimeout = DefaultPlayLockTimeout
	}
	if opts.ConflictRetries < 0 {
		opts.ConflictRetries = concurrency.DefaultConflictRetries
	}
	return &service{deps: deps, opts: opts, now: time.Now}
}

// retry reruns fn while it fails with a concurrency conflict
func (s *service) retry(ctx context.Context, op string, fn func() error) error {
	return concurrency.RetryOnConflict(ctx, s.opts.ConflictRetries, func(attempt int, err error) {
		s.deps.Recorder.ConflictRetry(op)
		logger.FromContext(ctx).Warn(LogMsgConflictRetry, "op", op, "attempt", attempt, "error", err)
	}, fn)
}

// withEmployee syncs the employee and runs fn holding the employee's lock. A lock
// that cannot be taken in time fails the call as a conflict.
func (s *service) withEmployee(ctx context.Context, op, employeeID string, fn func() error) error {
	release, err := s.deps.Locks.Acquire(ctx, employeeID, s.opts.PlayLockTimeout)
	if err != nil {
		if errors.Is(err, concurrency.ErrLockTimeout) {
			s.deps.Recorder.LockTimeout(op)
			logger.FromContext(ctx).Warn(LogMsgLockTimeout, "op", op, "employee_id", employeeID)
		}
		return err
	}
	defer release()

	if err := s.retry(ctx, OpSync, func() error { return s.syncEmployee(ctx, employeeID) }); err != nil {
		return err
	}
	return s.retry(ctx, op, fn)
}

func (s *service) AwardGame(ctx context.Context, employeeID string, source domain.AchievementSource, difficulty int) (*domain.Game, error) {
	var g *domain.Game
	err := s.withEmployee(ctx, OpAward, employeeID, func() error {
		var err error
		g, err = s.deps.Games.AwardGame(ctx, employeeID, source, difficulty)
		return err
	})
	return g, err
}

func (s *service) PlayGame(ctx context.Context, employeeID string, gameID uuid.UUID) (*domain.PlayResult, error) {
	var res *domain.PlayResult
	err := s.withEmployee(ctx, OpPlay, employeeID, func() error {
		var err error
		res, err = s.deps.Games.PlayGame(ctx, employeeID, gameID)
		return err
	})
	return res, err
}

func (s *service) Exchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (*domain.ExchangeResult, error) {
	var res *domain.ExchangeResult
	err := s.withEmployee(ctx, OpExchange, employeeID, func() error {
		var err error
		res, err = s.deps.Exchange.Exchange(ctx, employeeID, amount, direction)
		return err
	})
	return res, err
}

func (s *service) CanExchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (bool, string, error) {
	if err := s.retry(ctx, OpSync, func() error { return s.syncEmployee(ctx, employeeID) }); err != nil {
		return false, "", err
	}
	return s.deps.Exchange.CanExchange(ctx, employeeID, amount, direction)
}

func (s *service) GetEmployeeSummary(ctx context.Context, employeeID string) (*domain.EmployeeSummary, error) {
	if err := s.retry(ctx, OpSync, func() error { return s.syncEmployee(ctx, employeeID) }); err != nil {
		return nil, err
	}
	emp, err := s.deps.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	games, err := s.deps.Games.Summary(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	recent, err := s.deps.Ledger.History(ctx, employeeID, ledger.DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &domain.EmployeeSummary{
		EmployeeID:         emp.ID,
		PointBalance:       emp.PointBalance,
		TokenBalance:       emp.TokenBalance,
		Tier:               emp.Tier,
		Games:              games,
		RecentTransactions: recent,
	}, nil
}

func (s *service) Reconcile(ctx context.Context, employeeID string) (*domain.ReconciliationReport, error) {
	return s.deps.Ledger.Reconcile(ctx, employeeID)
}

// History lists the employee's ledger rows newest first. A zero limit uses
// the ledger default.
func (s *service) History(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error) {
	if err := s.retry(ctx, OpSync, func() error { return s.syncEmployee(ctx, employeeID) }); err != nil {
		return nil, err
	}
	return s.deps.Ledger.History(ctx, employeeID, limit)
}

func (s *service) RunMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error) {
	var res *domain.MonthlyResetResult
	err := s.retry(ctx, OpReset, func() error {
		var err error
		res, err = s.deps.Games.ProcessMonthlyReset(ctx)
		return err
	})
	return res, err
}

func (s *service) RunAutoReverseSweep(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error) {
	return s.deps.Exchange.ProcessAutoReverse(ctx, cutoffDays)
}

func (s *service) Ready(ctx context.Context) error {
	if err := s.deps.Store.Ping(ctx); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}
	return nil
}
