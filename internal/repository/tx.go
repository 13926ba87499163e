package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// Tx is a unit of work. Every balance, game and counter mutation happens inside one.
// Row reads ending in ForUpdate lock the row until Commit or Rollback.
type Tx interface {
	GetEmployeeForUpdate(ctx context.Context, employeeID string) (*domain.Employee, error)
	InsertEmployee(ctx context.Context, employee *domain.Employee) error
	UpdateEmployee(ctx context.Context, employee *domain.Employee) error

	AppendTransaction(ctx context.Context, txn *domain.TokenTransaction) error
	// LastActivityAt returns the newest ledger row time, or nil when there is none
	LastActivityAt(ctx context.Context, employeeID string) (*time.Time, error)

	InsertGame(ctx context.Context, game *domain.Game) error
	GetGameForUpdate(ctx context.Context, gameID uuid.UUID) (*domain.Game, error)
	// UpdateGameIfStatus writes the game only if its stored status still equals expected.
	// It returns the number of rows affected (0 or 1).
	UpdateGameIfStatus(ctx context.Context, game *domain.Game, expected domain.GameStatus) (int64, error)
	CountPlayedGames(ctx context.Context, employeeID string, category domain.GameCategory) (int, error)
	// SumWinnings totals win point deltas for games of the category since the given time
	SumWinnings(ctx context.Context, employeeID string, category domain.GameCategory, since time.Time) (int64, error)
	ExpireUnusedGames(ctx context.Context, category domain.GameCategory, awardedBefore, now time.Time) (int64, error)

	// ReserveGlobalPrize rolls elapsed periods and increments every period counter in one
	// atomic step, only if all three are below their limits. Returns domain.ErrPoolNotFound
	// when no pool exists for the prize type.
	ReserveGlobalPrize(ctx context.Context, prizeType string, periods domain.PeriodStarts) (bool, error)
	ReleaseGlobalPrize(ctx context.Context, prizeType string, periods domain.PeriodStarts) error
	// ReserveIndividualPrize creates the record on first use and increments it only while
	// monthly_used is below limit.
	ReserveIndividualPrize(ctx context.Context, key domain.PoolKey, limit int64, monthStart time.Time) (bool, error)
	ReleaseIndividualPrize(ctx context.Context, key domain.PoolKey, monthStart time.Time) error
	ResetElapsedPools(ctx context.Context, periods domain.PeriodStarts) (int64, error)
	ResetElapsedPrizeLimits(ctx context.Context, monthStart time.Time) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner opens a unit of work
type TxBeginner interface {
	BeginTx(ctx context.Context) (Tx, error)
}
