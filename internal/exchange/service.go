package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/prizepool"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// ConfigLoader provides the active economy config
type ConfigLoader interface {
	Load(ctx context.Context) (*domain.EconomyConfig, error)
}

// Store is the persistence surface the exchange needs
type Store interface {
	repository.TxBeginner
	repository.EmployeeReader
}

// Service converts points and tokens. Amounts are always in tokens.
type Service interface {
	// CanExchange reports whether Exchange would pass the rule checks right now.
	// A rule failure is reported as allowed=false with the reason, not as an error.
	CanExchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (bool, string, error)
	Exchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (*domain.ExchangeResult, error)
	// ProcessAutoReverse converts balances idle for longer than cutoffDays back to
	// points. A non-positive cutoffDays uses the configured hold period.
	ProcessAutoReverse(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error)
}

type service struct {
	store     Store
	ledger    ledger.Service
	configs   ConfigLoader
	publisher event.Publisher
	loc       *time.Location
	now       func() time.Time
}

// NewService creates an exchange service. Daily quotas reset at midnight in loc.
func NewService(store Store, ledgerSvc ledger.Service, configs ConfigLoader, publisher event.Publisher, loc *time.Location) Service {
	if publisher == nil {
		publisher = event.Nop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		store:     store,
		ledger:    ledgerSvc,
		configs:   configs,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

func validateRequest(amount int64, direction domain.ExchangeDirection) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrMsgInvalidAmount)
	}
	if !direction.Valid() {
		return fmt.Errorf("%w: %s %q", domain.ErrValidation, domain.ErrMsgInvalidDirection, direction)
	}
	return nil
}

// quote checks the rules in order (toggle, daily quota, cooldown, balance) and
// prices the exchange. It returns the points moved and the rate recorded.
func quote(cfg *domain.EconomyConfig, emp *domain.Employee, amount int64, direction domain.ExchangeDirection, now, dayStart time.Time) (int64, decimal.Decimal, error) {
	if !emp.Active {
		return 0, decimal.Zero, domain.ErrEmployeeInactive
	}
	if !cfg.Exchange.Enabled {
		return 0, decimal.Zero, domain.ErrExchangeDisabled
	}

	tc, ok := cfg.Tiers[emp.Tier]
	if !ok {
		return 0, decimal.Zero, fmt.Errorf("%w: %s %s", domain.ErrValidation, ErrMsgUnknownTier, emp.Tier)
	}

	used := emp.ExchangedToday(dayStart)
	if used+amount > tc.DailyTokenLimit {
		return 0, decimal.Zero, domain.QuotaExceededError{Used: used, Requested: amount, Limit: tc.DailyTokenLimit}
	}

	if emp.LastExchangeAt != nil {
		cooldown := time.Duration(tc.CooldownHours) * time.Hour
		if elapsed := now.Sub(*emp.LastExchangeAt); elapsed < cooldown {
			return 0, decimal.Zero, domain.CooldownActiveError{Remaining: cooldown - elapsed}
		}
	}

	if direction == domain.DirectionPointsToTokens {
		rate, err := PurchaseRate(cfg, emp.Tier)
		if err != nil {
			return 0, decimal.Zero, err
		}
		cost := PointsForTokens(rate, amount)
		if cost > emp.PointBalance {
			return 0, decimal.Zero, domain.InsufficientBalanceError{Currency: domain.CurrencyPoints, Have: emp.PointBalance, Need: cost}
		}
		return cost, rate, nil
	}

	if amount > emp.TokenBalance {
		return 0, decimal.Zero, domain.InsufficientBalanceError{Currency: domain.CurrencyTokens, Have: emp.TokenBalance, Need: amount}
	}
	rate, err := ReverseRate(cfg, emp.Tier)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return PointsFromTokens(rate, amount), rate, nil
}

func (s *service) CanExchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (bool, string, error) {
	if err := validateRequest(amount, direction); err != nil {
		return false, err.Error(), nil
	}
	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return false, "", err
	}
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return false, "", err
	}

	now := s.now()
	if _, _, err := quote(cfg, emp, amount, direction, now, s.dayStart(now)); err != nil {
		return false, err.Error(), nil
	}
	return true, "", nil
}

func (s *service) dayStart(now time.Time) time.Time {
	return prizepool.PeriodStartsAt(now, s.loc).Day
}

func (s *service) Exchange(ctx context.Context, employeeID string, amount int64, direction domain.ExchangeDirection) (*domain.ExchangeResult, error) {
	log := logger.FromContext(ctx)
	if err := validateRequest(amount, direction); err != nil {
		return nil, err
	}
	cfg, err := s.configs.Load(ctx)
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

	now := s.now().UTC()
	dayStart := s.dayStart(now)
	points, rate, err := quote(cfg, emp, amount, direction, now, dayStart)
	if err != nil {
		log.Info(LogMsgExchangeRejected, "employee_id", employeeID, "direction", direction, "amount", amount, "reason", err)
		return nil, err
	}

	entry := ledger.Entry{Rate: rate}
	if direction == domain.DirectionPointsToTokens {
		entry.Type = domain.TxTypePurchase
		entry.PointDelta, entry.TokenDelta = -points, amount
	} else {
		entry.Type = domain.TxTypeReverse
		entry.PointDelta, entry.TokenDelta = points, -amount
	}

	emp.DailyExchangeCount = emp.ExchangedToday(dayStart) + amount
	emp.DailyExchangeDate = &dayStart
	emp.LastExchangeAt = &now
	if _, err := s.ledger.Apply(ctx, tx, emp, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	result := &domain.ExchangeResult{
		EmployeeID:      employeeID,
		Direction:       direction,
		Tokens:          amount,
		Points:          points,
		RateUsed:        rate,
		NewPointBalance: emp.PointBalance,
		NewTokenBalance: emp.TokenBalance,
	}
	log.Info(LogMsgExchanged, "employee_id", employeeID, "direction", direction, "tokens", amount, "points", points, "rate", rate.String())

	s.publish(ctx, event.New(event.TokensExchanged, domain.TokensExchangedPayload{
		EmployeeID: employeeID,
		Direction:  direction,
		Tokens:     amount,
		Points:     points,
	}))
	return result, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	}
}
