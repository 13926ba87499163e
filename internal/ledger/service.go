// Package ledger is the only code path that changes employee balances. Every
// change is written together with an immutable transaction row in the caller's
// transaction.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// Entry describes one balance change
type Entry struct {
	Type       domain.TransactionType
	PointDelta int64
	TokenDelta int64
	Rate       decimal.Decimal
	GameID     *uuid.UUID
	Note       string
}

// Reader is the read side the ledger needs
type Reader interface {
	repository.EmployeeReader
	repository.LedgerReader
}

// Service applies and audits balance changes
type Service interface {
	// Apply changes the balances of employee (locked in tx) and appends the row.
	// Any other pending field changes on employee are written with it.
	Apply(ctx context.Context, tx repository.Tx, employee *domain.Employee, entry Entry) (*domain.TokenTransaction, error)
	Reconcile(ctx context.Context, employeeID string) (*domain.ReconciliationReport, error)
	History(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error)
}

type service struct {
	reader Reader
	now    func() time.Time
}

// NewService creates a ledger service
func NewService(reader Reader) Service {
	return &service{reader: reader, now: time.Now}
}

func (s *service) Apply(ctx context.Context, tx repository.Tx, employee *domain.Employee, entry Entry) (*domain.TokenTransaction, error) {
	if !entry.Type.Valid() {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrValidation, ErrMsgInvalidType, entry.Type)
	}
	if entry.PointDelta == 0 && entry.TokenDelta == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgEmptyEntry)
	}

	points := employee.PointBalance + entry.PointDelta
	if points < 0 {
		return nil, domain.InsufficientBalanceError{Currency: domain.CurrencyPoints, Have: employee.PointBalance, Need: -entry.PointDelta}
	}
	tokens := employee.TokenBalance + entry.TokenDelta
	if tokens < 0 {
		return nil, domain.InsufficientBalanceError{Currency: domain.CurrencyTokens, Have: employee.TokenBalance, Need: -entry.TokenDelta}
	}

	now := s.now().UTC()
	employee.PointBalance = points
	employee.TokenBalance = tokens
	employee.UpdatedAt = now
	if err := tx.UpdateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateEmployee, err)
	}

	row := &domain.TokenTransaction{
		ID:               uuid.New(),
		EmployeeID:       employee.ID,
		Type:             entry.Type,
		PointDelta:       entry.PointDelta,
		TokenDelta:       entry.TokenDelta,
		ExchangeRateUsed: entry.Rate,
		GameID:           entry.GameID,
		Note:             entry.Note,
		CreatedAt:        now,
	}
	if err := tx.AppendTransaction(ctx, row); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgAppendRow, err)
	}

	logger.FromContext(ctx).Debug(LogMsgEntryApplied,
		"employee_id", employee.ID,
		"type", entry.Type,
		"point_delta", entry.PointDelta,
		"token_delta", entry.TokenDelta)
	return row, nil
}

func (s *service) Reconcile(ctx context.Context, employeeID string) (*domain.ReconciliationReport, error) {
	employee, err := s.reader.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	points, tokens, rows, err := s.reader.SumLedger(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	report := &domain.ReconciliationReport{
		EmployeeID:      employeeID,
		TokenBalance:    employee.TokenBalance,
		LedgerTokenSum:  tokens,
		PointBalance:    employee.PointBalance,
		LedgerPointSum:  points,
		TransactionRows: rows,
	}
	if !report.Balanced() {
		logger.FromContext(ctx).Error(LogMsgDrift,
			"employee_id", employeeID,
			"token_balance", report.TokenBalance,
			"ledger_token_sum", report.LedgerTokenSum,
			"point_balance", report.PointBalance,
			"ledger_point_sum", report.LedgerPointSum)
	}
	return report, nil
}

func (s *service) History(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.reader.ListTransactions(ctx, employeeID, min(limit, MaxHistoryLimit))
}
