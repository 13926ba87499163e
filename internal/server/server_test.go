package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/engine"
	"github.com/osse101/RewardArcade_Go/internal/handler"
)

const testKey = "k3y"

// fakeEngine answers every call with fixed data and records what it saw
type fakeEngine struct {
	resets  int
	section string
}

func (f *fakeEngine) GetEmployeeSummary(_ context.Context, id string) (*domain.EmployeeSummary, error) {
	if id != "emp-1" {
		return nil, domain.ErrEmployeeNotFound
	}
	return &domain.EmployeeSummary{EmployeeID: id, PointBalance: 120}, nil
}

func (f *fakeEngine) UpdateConfig(_ context.Context, _, section string, _ json.RawMessage) (*domain.EconomyConfig, error) {
	f.section = section
	return &domain.EconomyConfig{Version: 2}, nil
}

func (f *fakeEngine) ExportConfig(context.Context, string) ([]byte, error) {
	return []byte(`{"version":1}`), nil
}

func (f *fakeEngine) ImportConfig(context.Context, string, []byte) (*domain.EconomyConfig, error) {
	return &domain.EconomyConfig{Version: 3}, nil
}

func (f *fakeEngine) RunMonthlyReset(context.Context) (*domain.MonthlyResetResult, error) {
	f.resets++
	return &domain.MonthlyResetResult{}, nil
}

func (f *fakeEngine) RunAutoReverseSweep(context.Context, int) ([]domain.ReversalRecord, error) {
	return nil, nil
}

func (f *fakeEngine) History(_ context.Context, id string, _ int) ([]domain.TokenTransaction, error) {
	return []domain.TokenTransaction{{EmployeeID: id, PointDelta: 120}}, nil
}

func (f *fakeEngine) AdjustPoints(_ context.Context, _, id string, delta int64, _ string) (*domain.TokenTransaction, error) {
	return &domain.TokenTransaction{EmployeeID: id, PointDelta: delta}, nil
}

func (f *fakeEngine) Reconcile(_ context.Context, id string) (*domain.ReconciliationReport, error) {
	return &domain.ReconciliationReport{EmployeeID: id, PointBalance: 120, LedgerPointSum: 120}, nil
}

func newTestServer(ready ...handler.ReadinessCheck) (http.Handler, *fakeEngine) {
	eng := &fakeEngine{}
	r := NewRouter(Options{APIKey: testKey}, eng, engine.NewStaticAuthorizer([]string{"admin-1"}), ready...)
	return r, eng
}

func call(h http.Handler, method, path, actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(HeaderAPIKey, testKey)
	if actor != "" {
		req.Header.Set(handler.HeaderActorID, actor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	h, _ := newTestServer(func(context.Context) error { return nil })

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_ReadyzFailsWhenStoreDown(t *testing.T) {
	h, _ := newTestServer(func(context.Context) error { return errors.New("ping: refused") })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Summary(t *testing.T) {
	h, _ := newTestServer()

	rec := call(h, http.MethodGet, "/api/v1/employees/emp-1/summary", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"point_balance":120`)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	rec = call(h, http.MethodGet, "/api/v1/employees/nobody/summary", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AdminRoutesRequireAdmin(t *testing.T) {
	h, eng := newTestServer()

	rec := call(h, http.MethodPost, "/api/v1/admin/monthly-reset", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(h, http.MethodPost, "/api/v1/admin/monthly-reset", "employee-7", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, eng.resets)

	rec = call(h, http.MethodPost, "/api/v1/admin/monthly-reset", "admin-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, eng.resets)
}

func TestRouter_AdminConfig(t *testing.T) {
	h, eng := newTestServer()

	rec := call(h, http.MethodGet, "/api/v1/admin/config", "admin-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":1}`, rec.Body.String())

	rec = call(h, http.MethodPut, "/api/v1/admin/config", "admin-1", `{"version":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":3`)

	rec = call(h, http.MethodPatch, "/api/v1/admin/config/exchange", "admin-1", `{"enabled":false}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SectionExchange, eng.section)

	rec = call(h, http.MethodPost, "/api/v1/admin/auto-reverse", "admin-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RejectsMissingAPIKey(t *testing.T) {
	h, _ := newTestServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employees/emp-1/summary", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	eng := &fakeEngine{}
	h := NewRouter(Options{APIKey: testKey, MaxBodyBytes: 16}, eng, engine.NewStaticAuthorizer([]string{"admin-1"}))

	rec := call(h, http.MethodPut, "/api/v1/admin/config", "admin-1", strings.Repeat("x", 64))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EmployeeLedgerRoutes(t *testing.T) {
	h, _ := newTestServer()

	rec := call(h, http.MethodGet, "/api/v1/employees/emp-1/history?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transactions"`)

	rec = call(h, http.MethodGet, "/api/v1/admin/employees/emp-1/reconcile", "admin-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ledger_point_sum":120`)

	rec = call(h, http.MethodPost, "/api/v1/admin/employees/emp-1/points", "admin-1", `{"delta":-30,"reason":"correction"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(h, http.MethodPost, "/api/v1/admin/employees/emp-1/points", "someone", `{"delta":5,"reason":"x"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
