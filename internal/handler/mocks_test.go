package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) GetEmployeeSummary(ctx context.Context, employeeID string) (*domain.EmployeeSummary, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeSummary), args.Error(1)
}

func (m *MockEngine) UpdateConfig(ctx context.Context, actorID, section string, payload json.RawMessage) (*domain.EconomyConfig, error) {
	args := m.Called(ctx, actorID, section, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EconomyConfig), args.Error(1)
}

func (m *MockEngine) ExportConfig(ctx context.Context, actorID string) ([]byte, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockEngine) ImportConfig(ctx context.Context, actorID string, blob []byte) (*domain.EconomyConfig, error) {
	args := m.Called(ctx, actorID, blob)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EconomyConfig), args.Error(1)
}

func (m *MockEngine) RunMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyResetResult), args.Error(1)
}

func (m *MockEngine) RunAutoReverseSweep(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error) {
	args := m.Called(ctx, cutoffDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReversalRecord), args.Error(1)
}

func (m *MockEngine) History(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error) {
	args := m.Called(ctx, employeeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TokenTransaction), args.Error(1)
}

func (m *MockEngine) AdjustPoints(ctx context.Context, actorID, employeeID string, delta int64, reason string) (*domain.TokenTransaction, error) {
	args := m.Called(ctx, actorID, employeeID, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenTransaction), args.Error(1)
}

func (m *MockEngine) Reconcile(ctx context.Context, employeeID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

type MockAdminChecker struct {
	mock.Mock
}

func (m *MockAdminChecker) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	args := m.Called(ctx, actorID)
	return args.Bool(0), args.Error(1)
}
