package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// Directory reads employee profiles that the hosting service maintains in
// the employee_profiles table.
type Directory struct {
	db *pgxpool.Pool
}

func NewDirectory(db *pgxpool.Pool) *Directory {
	return &Directory{db: db}
}

func (d *Directory) LookupEmployee(ctx context.Context, employeeID string) (*domain.EmployeeProfile, error) {
	var p domain.EmployeeProfile
	var tier string
	err := d.db.QueryRow(ctx, `
		SELECT employee_id, tier, performance_percentile, best_period_earnings, opening_points, active
		FROM employee_profiles WHERE employee_id = $1`, employeeID).
		Scan(&p.ID, &tier, &p.PerformancePercentile, &p.BestPeriodEarnings, &p.OpeningPoints, &p.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, mapError("lookup employee profile", err)
	}
	p.Tier = domain.Tier(tier)
	return &p, nil
}

// UpsertProfile writes a profile. The hosting service normally owns this table;
// the engine uses it for seeding and tests.
func (d *Directory) UpsertProfile(ctx context.Context, p domain.EmployeeProfile) error {
	_, err := d.db.Exec(ctx, `
		INSERT INTO employee_profiles (employee_id, tier, performance_percentile, best_period_earnings, opening_points, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id) DO UPDATE SET
		    tier = EXCLUDED.tier,
		    performance_percentile = EXCLUDED.performance_percentile,
		    best_period_earnings = EXCLUDED.best_period_earnings,
		    opening_points = EXCLUDED.opening_points,
		    active = EXCLUDED.active,
		    updated_at = NOW()`,
		p.ID, string(p.Tier), p.PerformancePercentile, p.BestPeriodEarnings, p.OpeningPoints, p.Active)
	return mapError("upsert employee profile", err)
}
