// Package game awards games and resolves plays for both reward tracks.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/odds"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
	"github.com/osse101/RewardArcade_Go/internal/repository"
	"github.com/osse101/RewardArcade_Go/internal/utils"
)

// ConfigLoader provides the active economy config
type ConfigLoader interface {
	Load(ctx context.Context) (*domain.EconomyConfig, error)
}

// Store is the persistence surface the lifecycle needs
type Store interface {
	repository.TxBeginner
	repository.GameReader
}

// Service drives games from award to resolution. A game is resolved at most once.
type Service interface {
	AwardGame(ctx context.Context, employeeID string, source domain.AchievementSource, difficulty int) (*domain.Game, error)
	PlayGame(ctx context.Context, employeeID string, gameID uuid.UUID) (*domain.PlayResult, error)
	// ProcessMonthlyReset expires stale guaranteed games and resets elapsed prize counters.
	// Running it again in the same month changes nothing.
	ProcessMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error)
	Summary(ctx context.Context, employeeID string) (domain.GamesSummary, error)
}

type service struct {
	store     Store
	ledger    ledger.Service
	odds      *odds.Engine
	pools     prizepool.Service
	configs   ConfigLoader
	publisher event.Publisher
	rng       func() float64
	now       func() time.Time
}

// NewService creates a game lifecycle service
func NewService(store Store, ledgerSvc ledger.Service, engine *odds.Engine, pools prizepool.Service, configs ConfigLoader, publisher event.Publisher) Service {
	if publisher == nil {
		publisher = event.Nop{}
	}
	return &service{
		store:     store,
		ledger:    ledgerSvc,
		odds:      engine,
		pools:     pools,
		configs:   configs,
		publisher: publisher,
		rng:       utils.RandomFloat,
		now:       time.Now,
	}
}

// Classify returns the track a game lands on. Hard tasks and voting always earn a
// guaranteed game.
func Classify(source domain.AchievementSource, difficulty int) domain.GameCategory {
	if difficulty >= domain.GuaranteedDifficulty || source == domain.SourceVoting {
		return domain.CategoryGuaranteed
	}
	return domain.CategoryGambling
}

func validateAward(source domain.AchievementSource, difficulty int) error {
	if difficulty < domain.MinDifficulty || difficulty > domain.MaxDifficulty {
		return fmt.Errorf("%w: %s (got %d)", domain.ErrValidation, domain.ErrMsgInvalidDifficulty, difficulty)
	}
	if !source.Valid() {
		return fmt.Errorf("%w: %s %q", domain.ErrValidation, domain.ErrMsgInvalidSource, source)
	}
	return nil
}

func (s *service) pickGameType(cfg *domain.EconomyConfig) (domain.GameType, error) {
	enabled := cfg.EnabledGameTypes()
	if len(enabled) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgNoGameTypes)
	}
	idx := utils.Clamp(int(s.rng()*float64(len(enabled))), 0, len(enabled)-1)
	return enabled[idx], nil
}

func (s *service) AwardGame(ctx context.Context, employeeID string, source domain.AchievementSource, difficulty int) (*domain.Game, error) {
	if err := validateAward(source, difficulty); err != nil {
		return nil, err
	}
	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}
	gameType, err := s.pickGameType(cfg)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	emp, err := tx.GetEmployeeForUpdate(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.Active {
		return nil, domain.ErrEmployeeInactive
	}

	game := &domain.Game{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Category:   Classify(source, difficulty),
		GameType:   gameType,
		Difficulty: difficulty,
		Source:     source,
		Status:     domain.GameStatusUnused,
		AwardedAt:  s.now().UTC(),
	}
	if err := tx.InsertGame(ctx, game); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInsertGame, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	logger.FromContext(ctx).Info(LogMsgGameAwarded,
		"employee_id", employeeID,
		"game_id", game.ID,
		"category", game.Category,
		"game_type", game.GameType,
		"difficulty", difficulty)

	s.publish(ctx, event.New(event.GameAwarded, domain.GameAwardedPayload{
		GameID:     game.ID,
		EmployeeID: employeeID,
		Category:   game.Category,
		GameType:   game.GameType,
		Difficulty: difficulty,
	}))
	return game, nil
}

func (s *service) Summary(ctx context.Context, employeeID string) (domain.GamesSummary, error) {
	games, err := s.store.ListGames(ctx, employeeID)
	if err != nil {
		return domain.GamesSummary{}, err
	}
	var sum domain.GamesSummary
	for _, g := range games {
		switch g.Status {
		case domain.GameStatusUnused:
			if g.Category == domain.CategoryGuaranteed {
				sum.UnusedGuaranteed++
			} else {
				sum.UnusedGambling++
			}
		case domain.GameStatusExpired:
			sum.Expired++
		case domain.GameStatusPlayed:
			sum.Played++
			if g.Outcome != nil && g.Outcome.Result == domain.OutcomeWin {
				sum.Won++
			} else {
				sum.Lost++
			}
		}
	}
	return sum, nil
}

func (s *service) ProcessMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error) {
	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}
	monthStart := s.pools.Periods().Month

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	result := &domain.MonthlyResetResult{PeriodStart: monthStart}
	if cfg.Expiration.ExpireGuaranteedMonthly {
		result.ExpiredGames, err = tx.ExpireUnusedGames(ctx, domain.CategoryGuaranteed, monthStart, s.now().UTC())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgExpireGames, err)
		}
	}
	result.ResetCounters, err = s.pools.ResetElapsed(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgResetCounters, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	logger.FromContext(ctx).Info(LogMsgMonthlyReset,
		"period_start", monthStart,
		"expired_games", result.ExpiredGames,
		"reset_counters", result.ResetCounters)

	s.publish(ctx, event.New(event.MonthlyResetCompleted, domain.MonthlyResetPayload{
		PeriodStart:   monthStart,
		ExpiredGames:  result.ExpiredGames,
		ResetCounters: result.ResetCounters,
	}))
	return result, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	}
}
