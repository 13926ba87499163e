package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// ConfigRepository persists economy config versions. Versions are append-only.
type ConfigRepository interface {
	// GetLatestConfig returns the newest stored version, or nil when none has been saved
	GetLatestConfig(ctx context.Context) (*domain.EconomyConfig, error)
	// SaveConfig stores cfg as a new version. It fails with domain.ErrConcurrencyConflict
	// if cfg.Version already exists.
	SaveConfig(ctx context.Context, cfg *domain.EconomyConfig, section, actorID string) error
}

// EmployeeReader reads employee rows outside a transaction
type EmployeeReader interface {
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
	// ListIdleTokenHolders returns active employees holding at least minTokens whose last
	// ledger activity is older than idleBefore
	ListIdleTokenHolders(ctx context.Context, idleBefore time.Time, minTokens int64) ([]string, error)
}

// LedgerReader reads the immutable transaction log
type LedgerReader interface {
	ListTransactions(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error)
	// SumLedger returns the point and token delta sums and the row count for an employee
	SumLedger(ctx context.Context, employeeID string) (points, tokens, rows int64, err error)
}

// GameReader reads awarded games
type GameReader interface {
	GetGame(ctx context.Context, gameID uuid.UUID) (*domain.Game, error)
	ListGames(ctx context.Context, employeeID string) ([]domain.Game, error)
}

// PoolRepository reads rationing records and maintains pool limits
type PoolRepository interface {
	GetGlobalPool(ctx context.Context, prizeType string) (*domain.GlobalPrizePool, error)
	// GetPrizeLimit returns nil when the employee has never reserved the prize type
	GetPrizeLimit(ctx context.Context, key domain.PoolKey) (*domain.PrizeLimitRecord, error)
	UpsertPoolLimits(ctx context.Context, prizeType string, limits domain.PoolLimits) error
}

// Directory is the hosting service's view of its employees. The engine only reads it.
type Directory interface {
	// LookupEmployee returns domain.ErrEmployeeNotFound for unknown ids
	LookupEmployee(ctx context.Context, employeeID string) (*domain.EmployeeProfile, error)
}

// Store is the full persistence surface of the engine
type Store interface {
	TxBeginner
	ConfigRepository
	EmployeeReader
	LedgerReader
	GameReader
	PoolRepository
	Ping(ctx context.Context) error
}
