package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

var errNotIdle = errors.New("employee is no longer idle")

func (s *service) ProcessAutoReverse(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error) {
	log := logger.FromContext(ctx)

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}
	holdDays := cfg.Exchange.AutoReverseHoldDays
	if cutoffDays > 0 {
		holdDays = cutoffDays
	}
	minTokens := max(cfg.Exchange.AutoReverseMinTokens, 1)

	now := s.now().UTC()
	idleBefore := now.Add(-time.Duration(holdDays) * hoursPerDay * time.Hour)

	ids, err := s.store.ListIdleTokenHolders(ctx, idleBefore, minTokens)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListIdle, err)
	}

	records := make([]domain.ReversalRecord, 0, len(ids))
	var failures []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := s.reverseIdle(ctx, cfg, id, idleBefore, minTokens, now)
		switch {
		case errors.Is(err, errNotIdle):
			log.Debug(LogMsgAutoReverseSkipped, "employee_id", id)
		case err != nil:
			log.Error(LogMsgAutoReverseFailed, "employee_id", id, "error", err)
			failures = append(failures, fmt.Errorf("employee %s: %w", id, err))
		default:
			records = append(records, *rec)
			s.publish(ctx, event.New(event.TokensAutoReversed, domain.TokensAutoReversedPayload{
				EmployeeID: id,
				Tokens:     rec.Tokens,
				Points:     rec.Points,
			}))
		}
	}

	log.Info(LogMsgAutoReverseDone, "candidates", len(ids), "reversed", len(records), "failed", len(failures), "hold_days", holdDays)
	return records, errors.Join(failures...)
}

// reverseIdle re-checks idleness under the row lock before converting, so activity
// that landed after the candidate scan wins.
func (s *service) reverseIdle(ctx context.Context, cfg *domain.EconomyConfig, employeeID string, idleBefore time.Time, minTokens int64, now time.Time) (*domain.ReversalRecord, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	emp, err := tx.GetEmployeeForUpdate(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.Active || emp.TokenBalance < minTokens {
		return nil, errNotIdle
	}

	last, err := tx.LastActivityAt(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		last = &emp.CreatedAt
	}
	if !last.Before(idleBefore) {
		return nil, errNotIdle
	}

	rate, err := ReverseRate(cfg, emp.Tier)
	if err != nil {
		return nil, err
	}
	tokens := emp.TokenBalance
	points := PointsFromTokens(rate, tokens)

	if _, err := s.ledger.Apply(ctx, tx, emp, ledger.Entry{
		Type:       domain.TxTypeReverse,
		PointDelta: points,
		TokenDelta: -tokens,
		Rate:       rate,
		Note:       autoReverseNote,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	logger.FromContext(ctx).Info(LogMsgAutoReversed, "employee_id", employeeID, "tokens", tokens, "points", points)
	return &domain.ReversalRecord{
		EmployeeID:     employeeID,
		Tokens:         tokens,
		Points:         points,
		RateUsed:       rate,
		LastActivityAt: *last,
		ReversedAt:     now,
	}, nil
}
