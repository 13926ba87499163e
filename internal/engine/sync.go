package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

func validateProfile(p *domain.EmployeeProfile) error {
	switch {
	case !p.Tier.Valid():
		return fmt.Errorf("%w: %s: tier %q", domain.ErrValidation, ErrMsgInvalidProfile, p.Tier)
	case p.PerformancePercentile < 0 || p.PerformancePercentile > 100:
		return fmt.Errorf("%w: %s: percentile %.2f", domain.ErrValidation, ErrMsgInvalidProfile, p.PerformancePercentile)
	case p.OpeningPoints < 0 || p.BestPeriodEarnings < 0:
		return fmt.Errorf("%w: %s: negative balance fields", domain.ErrValidation, ErrMsgInvalidProfile)
	}
	return nil
}

// syncEmployee copies the directory profile onto the employee row, creating it on
// first sight with the opening points recorded in the ledger.
func (s *service) syncEmployee(ctx context.Context, employeeID string) error {
	profile, err := s.deps.Directory.LookupEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	tx, err := s.deps.Store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	emp, err := tx.GetEmployeeForUpdate(ctx, employeeID)
	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		if err := s.createEmployee(ctx, tx, profile); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if !profileChanged(emp, profile) {
			return nil
		}
		emp.Tier = profile.Tier
		emp.PerformancePercentile = profile.PerformancePercentile
		emp.BestPeriodEarnings = profile.BestPeriodEarnings
		emp.Active = profile.Active
		emp.UpdatedAt = s.now().UTC()
		if err := tx.UpdateEmployee(ctx, emp); err != nil {
			return err
		}
		logger.FromContext(ctx).Info(LogMsgEmployeeSynced, "employee_id", employeeID, "tier", emp.Tier, "active", emp.Active)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}
	return nil
}

func (s *service) createEmployee(ctx context.Context, tx repository.Tx, p *domain.EmployeeProfile) error {
	now := s.now().UTC()
	emp := &domain.Employee{
		ID:                    p.ID,
		Tier:                  p.Tier,
		PerformancePercentile: p.PerformancePercentile,
		BestPeriodEarnings:    p.BestPeriodEarnings,
		Active:                p.Active,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := tx.InsertEmployee(ctx, emp); err != nil {
		return err
	}
	if p.OpeningPoints > 0 {
		if _, err := s.deps.Ledger.Apply(ctx, tx, emp, ledger.Entry{
			Type:       domain.TxTypeAdminAward,
			PointDelta: p.OpeningPoints,
			Note:       openingBalanceNote,
		}); err != nil {
			return err
		}
	}
	logger.FromContext(ctx).Info(LogMsgEmployeeCreated, "employee_id", p.ID, "tier", p.Tier, "opening_points", p.OpeningPoints)
	return nil
}

func profileChanged(emp *domain.Employee, p *domain.EmployeeProfile) bool {
	return emp.Tier != p.Tier ||
		emp.PerformancePercentile != p.PerformancePercentile ||
		emp.BestPeriodEarnings != p.BestPeriodEarnings ||
		emp.Active != p.Active
}
