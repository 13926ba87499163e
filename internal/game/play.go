package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/odds"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// resolution is the outcome of a play before it is persisted
type resolution struct {
	outcome       domain.Outcome
	prizeTier     domain.PrizeTier
	prize         domain.PrizeConfig
	drawnPrize    domain.PrizeConfig
	poolExhausted bool
	exhausted     domain.PoolScope
	boostApplied  bool
	tokensSpent   int64
}

func (s *service) PlayGame(ctx context.Context, employeeID string, gameID uuid.UUID) (*domain.PlayResult, error) {
	log := logger.FromContext(ctx)

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	game, err := tx.GetGameForUpdate(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.EmployeeID != employeeID {
		return nil, fmt.Errorf("%w: game %s", domain.ErrNotGameOwner, gameID)
	}
	if game.Status != domain.GameStatusUnused {
		log.Warn(LogMsgAlreadyResolved, "employee_id", employeeID, "game_id", gameID, "status", game.Status)
		return nil, fmt.Errorf("%w: game %s is %s", domain.ErrAlreadyResolved, gameID, game.Status)
	}

	emp, err := tx.GetEmployeeForUpdate(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.Active {
		return nil, domain.ErrEmployeeInactive
	}

	now := s.now().UTC()
	var res resolution
	if game.Category == domain.CategoryGuaranteed {
		res, err = s.playGuaranteed(ctx, tx, cfg, game, emp, now)
	} else {
		res, err = s.playGambling(ctx, tx, cfg, game, emp, now)
	}
	if err != nil {
		return nil, err
	}

	game.Status = domain.GameStatusPlayed
	game.PlayedAt = &now
	game.Outcome = &domain.GameOutcome{
		Result:        res.outcome,
		PrizeTier:     res.prizeTier,
		PrizeType:     res.prize.PrizeType,
		PrizeValue:    res.prize.PointValue,
		PoolExhausted: res.poolExhausted,
		BoostApplied:  res.boostApplied,
		TokensSpent:   res.tokensSpent,
	}
	n, err := tx.UpdateGameIfStatus(ctx, game, domain.GameStatusUnused)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateGame, err)
	}
	if n == 0 {
		log.Warn(LogMsgAlreadyResolved, "employee_id", employeeID, "game_id", gameID)
		return nil, fmt.Errorf("%w: game %s", domain.ErrAlreadyResolved, gameID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	result := &domain.PlayResult{
		GameID:        gameID,
		Category:      game.Category,
		Outcome:       res.outcome,
		PrizeTier:     res.prizeTier,
		PrizeType:     res.prize.PrizeType,
		PrizeValue:    res.prize.PointValue,
		PoolExhausted: res.poolExhausted,
		BoostApplied:  res.boostApplied,
		TokensSpent:   res.tokensSpent,
		PointBalance:  emp.PointBalance,
		TokenBalance:  emp.TokenBalance,
		Message:       formatMessage(res),
	}

	log.Info(LogMsgGamePlayed,
		"employee_id", employeeID,
		"game_id", gameID,
		"category", game.Category,
		"outcome", res.outcome,
		"prize_type", res.prize.PrizeType,
		"pool_exhausted", res.poolExhausted)

	s.publishPlayed(ctx, game, emp.ID, res)
	return result, nil
}

func (s *service) stats(ctx context.Context, tx repository.Tx, cfg *domain.EconomyConfig, emp *domain.Employee, now time.Time) (odds.EmployeeStats, error) {
	stats := odds.EmployeeStats{
		Tier:                  emp.Tier,
		PerformancePercentile: emp.PerformancePercentile,
		LastBoostAt:           emp.LastBoostAt,
		BestPeriodEarnings:    emp.BestPeriodEarnings,
		At:                    now,
	}
	plays, err := tx.CountPlayedGames(ctx, emp.ID, domain.CategoryGambling)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", ErrMsgLoadStats, err)
	}
	since := now.AddDate(0, 0, -cfg.WinCap.PeriodDays)
	winnings, err := tx.SumWinnings(ctx, emp.ID, domain.CategoryGambling, since)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", ErrMsgLoadStats, err)
	}
	stats.GamblingPlays = plays
	stats.TrailingWinnings = winnings
	return stats, nil
}

func (s *service) playGuaranteed(ctx context.Context, tx repository.Tx, cfg *domain.EconomyConfig, game *domain.Game, emp *domain.Employee, now time.Time) (resolution, error) {
	stats, err := s.stats(ctx, tx, cfg, emp, now)
	if err != nil {
		return resolution{}, err
	}
	o := s.odds.ComputeCategoryAOdds(cfg, game.Difficulty, stats)
	logger.FromContext(ctx).Debug(LogMsgOddsComputed, "game_id", game.ID, "premium", o.Premium, "probability", o.Probability, "boost", o.Modifiers.Boost)

	res := resolution{outcome: domain.OutcomeWin, boostApplied: o.Modifiers.BoostApplied}
	if res.boostApplied {
		emp.LastBoostAt = &now
	}
	tier := odds.SelectCategoryA(o, s.odds.Draw())
	if err := s.award(ctx, tx, cfg, game, emp, tier, &res); err != nil {
		return resolution{}, err
	}
	return res, nil
}

func (s *service) playGambling(ctx context.Context, tx repository.Tx, cfg *domain.EconomyConfig, game *domain.Game, emp *domain.Employee, now time.Time) (resolution, error) {
	gt, ok := cfg.Games[game.GameType]
	if !ok {
		return resolution{}, fmt.Errorf("%w: %s %q", domain.ErrValidation, domain.ErrMsgGameTypeUnknown, game.GameType)
	}
	if emp.TokenBalance < gt.TokenCost {
		return resolution{}, domain.InsufficientBalanceError{Currency: domain.CurrencyTokens, Have: emp.TokenBalance, Need: gt.TokenCost}
	}

	stats, err := s.stats(ctx, tx, cfg, emp, now)
	if err != nil {
		return resolution{}, err
	}
	o := s.odds.ComputeCategoryBOdds(cfg, game.GameType, game.Difficulty, stats)
	logger.FromContext(ctx).Debug(LogMsgOddsComputed, "game_id", game.ID, "probabilities", o.Probabilities, "boost", o.Modifiers.Boost, "win_cap", o.Modifiers.WinCap)

	res := resolution{outcome: domain.OutcomeLoss, boostApplied: o.Modifiers.BoostApplied, tokensSpent: gt.TokenCost}
	if res.boostApplied {
		emp.LastBoostAt = &now
	}
	id := game.ID
	if _, err := s.ledger.Apply(ctx, tx, emp, ledger.Entry{
		Type:       domain.TxTypeSpend,
		TokenDelta: -gt.TokenCost,
		GameID:     &id,
	}); err != nil {
		return resolution{}, err
	}

	tier, won := odds.SelectOutcome(o.Probabilities, s.odds.Draw())
	if !won {
		return res, nil
	}
	res.outcome = domain.OutcomeWin
	if err := s.award(ctx, tx, cfg, game, emp, tier, &res); err != nil {
		return resolution{}, err
	}
	return res, nil
}

// award reserves the drawn prize and credits it. An exhausted pool downgrades the
// prize to the consolation prize instead of failing the play.
func (s *service) award(ctx context.Context, tx repository.Tx, cfg *domain.EconomyConfig, game *domain.Game, emp *domain.Employee, tier domain.PrizeTier, res *resolution) error {
	prize := cfg.PrizeFor(tier)
	res.prizeTier, res.prize, res.drawnPrize = tier, prize, prize

	if prize.PrizeType != domain.ConsolationPrizeType {
		r, err := s.pools.ReserveForWin(ctx, tx, cfg, domain.PoolKey{
			PrizeType:  prize.PrizeType,
			EmployeeID: emp.ID,
			Tier:       emp.Tier,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgReservePrize, err)
		}
		if !r.Reserved {
			logger.FromContext(ctx).Warn(LogMsgPrizeDowngraded,
				"employee_id", emp.ID,
				"game_id", game.ID,
				"prize_type", prize.PrizeType,
				"scope", r.ExhaustedScope)
			res.prizeTier = domain.PrizeTierBasic
			res.prize = cfg.PrizeFor(domain.PrizeTierBasic)
			res.poolExhausted = true
			res.exhausted = r.ExhaustedScope
		}
	}

	id := game.ID
	_, err := s.ledger.Apply(ctx, tx, emp, ledger.Entry{
		Type:       domain.TxTypeWin,
		PointDelta: res.prize.PointValue,
		GameID:     &id,
		Note:       res.prize.PrizeType,
	})
	return err
}

func (s *service) publishPlayed(ctx context.Context, game *domain.Game, employeeID string, res resolution) {
	s.publish(ctx, event.New(event.GamePlayed, domain.GamePlayedPayload{
		GameID:        game.ID,
		EmployeeID:    employeeID,
		Category:      game.Category,
		GameType:      game.GameType,
		Outcome:       res.outcome,
		PrizeType:     res.prize.PrizeType,
		PrizeValue:    res.prize.PointValue,
		PoolExhausted: res.poolExhausted,
		BoostApplied:  res.boostApplied,
	}))
	if res.poolExhausted {
		s.publish(ctx, event.New(event.PoolExhausted, domain.PoolExhaustedPayload{
			EmployeeID: employeeID,
			PrizeType:  res.drawnPrize.PrizeType,
			Scope:      res.exhausted,
		}))
	}
}

// displayName turns a snake_case identifier into a title for messages
func displayName(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func formatMessage(res resolution) string {
	switch {
	case res.outcome == domain.OutcomeLoss:
		return fmt.Sprintf(MsgLossFmt, res.tokensSpent)
	case res.poolExhausted:
		return fmt.Sprintf(MsgDowngradedFmt, displayName(res.drawnPrize.PrizeType), displayName(res.prize.PrizeType), res.prize.PointValue)
	default:
		return fmt.Sprintf(MsgWinFmt, displayName(res.prize.PrizeType), res.prize.PointValue)
	}
}
