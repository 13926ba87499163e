package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/ledger"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/repository"
)

// authorize expects ctx to be tagged with the actor already
func (s *service) authorize(ctx context.Context, actorID, op string) error {
	ok, err := s.deps.Authorizer.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		logger.FromContext(ctx).Warn(LogMsgUnauthorized, "op", op)
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, op)
	}
	return nil
}

func (s *service) AdjustPoints(ctx context.Context, actorID, employeeID string, delta int64, reason string) (*domain.TokenTransaction, error) {
	ctx = logger.WithActor(ctx, actorID)
	if err := s.authorize(ctx, actorID, OpAdjust); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgZeroDelta)
	}
	if reason = strings.TrimSpace(reason); reason == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgEmptyReason)
	}

	var row *domain.TokenTransaction
	err := s.withEmployee(ctx, OpAdjust, employeeID, func() error {
		tx, err := s.deps.Store.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
		}
		defer repository.SafeRollback(ctx, tx)

		emp, err := tx.GetEmployeeForUpdate(ctx, employeeID)
		if err != nil {
			return err
		}
		row, err = s.deps.Ledger.Apply(ctx, tx, emp, ledger.Entry{
			Type:       domain.TxTypeAdminAward,
			PointDelta: delta,
			Note:       reason,
		})
		if err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgPointsAdjusted, "employee_id", employeeID, "delta", delta)
	return row, nil
}

func (s *service) UpdateConfig(ctx context.Context, actorID, section string, payload json.RawMessage) (*domain.EconomyConfig, error) {
	ctx = logger.WithActor(ctx, actorID)
	if err := s.authorize(ctx, actorID, "update_config"); err != nil {
		return nil, err
	}
	cfg, err := s.deps.Configs.Update(ctx, section, payload, actorID)
	if err != nil {
		return nil, err
	}
	if section == domain.SectionPools {
		s.syncPools(ctx, cfg)
	}
	return cfg, nil
}

func (s *service) ExportConfig(ctx context.Context, actorID string) ([]byte, error) {
	ctx = logger.WithActor(ctx, actorID)
	if err := s.authorize(ctx, actorID, "export_config"); err != nil {
		return nil, err
	}
	return s.deps.Configs.Export(ctx)
}

func (s *service) ImportConfig(ctx context.Context, actorID string, blob []byte) (*domain.EconomyConfig, error) {
	ctx = logger.WithActor(ctx, actorID)
	if err := s.authorize(ctx, actorID, "import_config"); err != nil {
		return nil, err
	}
	cfg, err := s.deps.Configs.Import(ctx, blob, actorID)
	if err != nil {
		return nil, err
	}
	s.syncPools(ctx, cfg)
	return cfg, nil
}

// syncPools pushes pool limits to storage. The config is already committed, so a
// failure is logged and picked up by the next sync at boot.
func (s *service) syncPools(ctx context.Context, cfg *domain.EconomyConfig) {
	if err := s.deps.Pools.SyncLimits(ctx, cfg); err != nil {
		logger.FromContext(ctx).Error(LogMsgPoolSyncFailed, "version", cfg.Version, "error", err)
	}
}
