package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// AdminService is the admin slice of the engine
type AdminService interface {
	UpdateConfig(ctx context.Context, actorID, section string, payload json.RawMessage) (*domain.EconomyConfig, error)
	ExportConfig(ctx context.Context, actorID string) ([]byte, error)
	ImportConfig(ctx context.Context, actorID string, blob []byte) (*domain.EconomyConfig, error)
	RunMonthlyReset(ctx context.Context) (*domain.MonthlyResetResult, error)
	RunAutoReverseSweep(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error)
	AdjustPoints(ctx context.Context, actorID, employeeID string, delta int64, reason string) (*domain.TokenTransaction, error)
	Reconcile(ctx context.Context, employeeID string) (*domain.ReconciliationReport, error)
}

// AdminChecker decides whether an actor may call admin routes
type AdminChecker interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}

// UpdateSectionRequest is the path input of PATCH /admin/config/{section}
type UpdateSectionRequest struct {
	Section string `validate:"required,config_section"`
}

// AutoReverseRequest optionally overrides the configured hold period
type AutoReverseRequest struct {
	CutoffDays int `json:"cutoff_days" validate:"min=0,max=3650"`
}

// AdjustPointsRequest credits (positive) or debits (negative) points
type AdjustPointsRequest struct {
	Delta  int64  `json:"delta" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// ConfigVersionResponse reports the version a config write produced
type ConfigVersionResponse struct {
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AutoReverseResponse summarises one sweep
type AutoReverseResponse struct {
	Reversed int                     `json:"reversed"`
	Tokens   int64                   `json:"tokens"`
	Points   int64                   `json:"points"`
	Records  []domain.ReversalRecord `json:"records"`
	Errors   []string                `json:"errors,omitempty"`
}

// AdminHandler serves the economy admin routes
type AdminHandler struct {
	svc AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// RequireAdmin rejects requests whose X-Actor-ID is not an admin
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := requireActor(r, w)
			if !ok {
				return
			}
			ctx := logger.WithActor(r.Context(), actor)
			log := logger.FromContext(ctx)
			isAdmin, err := checker.IsAdmin(ctx, actor)
			if err != nil {
				log.Error(LogMsgAdminCheckFailed, "error", err)
				respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
				return
			}
			if !isAdmin {
				log.Warn(LogMsgAdminDenied, "path", r.URL.Path)
				respondError(w, http.StatusForbidden, ErrMsgForbiddenError)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HandleExportConfig serves GET /admin/config as the portable blob
func (h *AdminHandler) HandleExportConfig(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(r, w)
	if !ok {
		return
	}
	blob, err := h.svc.ExportConfig(r.Context(), actor)
	if err != nil {
		respondServiceError(w, r, "export_config", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgConfigExported, "bytes", len(blob))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// HandleImportConfig serves PUT /admin/config, replacing the whole config
func (h *AdminHandler) HandleImportConfig(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(r, w)
	if !ok {
		return
	}
	blob, ok := readBody(r, w)
	if !ok {
		return
	}
	cfg, err := h.svc.ImportConfig(r.Context(), actor, blob)
	if err != nil {
		respondServiceError(w, r, "import_config", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgConfigImported, "version", cfg.Version)
	respondJSON(w, http.StatusOK, ConfigVersionResponse{Version: cfg.Version, UpdatedAt: cfg.UpdatedAt})
}

// HandleUpdateSection serves PATCH /admin/config/{section}
func (h *AdminHandler) HandleUpdateSection(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(r, w)
	if !ok {
		return
	}
	req := UpdateSectionRequest{Section: chi.URLParam(r, ParamSection)}
	if err := ValidateRequest(r, w, &req, "update_config"); err != nil {
		return
	}
	body, ok := readBody(r, w)
	if !ok {
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	cfg, err := h.svc.UpdateConfig(r.Context(), actor, req.Section, json.RawMessage(body))
	if err != nil {
		respondServiceError(w, r, opLabel("update_config", req.Section), err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgConfigSectionSet, "section", req.Section, "version", cfg.Version)
	respondJSON(w, http.StatusOK, ConfigVersionResponse{Version: cfg.Version, UpdatedAt: cfg.UpdatedAt})
}

// HandleMonthlyReset serves POST /admin/monthly-reset
func (h *AdminHandler) HandleMonthlyReset(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RunMonthlyReset(r.Context())
	if err != nil {
		respondServiceError(w, r, "monthly_reset", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgMonthlyResetRun,
		"expired_games", res.ExpiredGames, "reset_counters", res.ResetCounters)
	respondJSON(w, http.StatusOK, res)
}

// HandleAutoReverse serves POST /admin/auto-reverse. Per-employee failures
// are reported alongside the reversals that did succeed.
func (h *AdminHandler) HandleAutoReverse(w http.ResponseWriter, r *http.Request) {
	var req AutoReverseRequest
	if err := DecodeAndValidateRequest(r, w, &req, "auto_reverse", true); err != nil {
		return
	}

	records, err := h.svc.RunAutoReverseSweep(r.Context(), req.CutoffDays)
	if err != nil && len(records) == 0 {
		respondServiceError(w, r, "auto_reverse", err)
		return
	}

	resp := AutoReverseResponse{Reversed: len(records), Records: records}
	if resp.Records == nil {
		resp.Records = []domain.ReversalRecord{}
	}
	for _, rec := range records {
		resp.Tokens += rec.Tokens
		resp.Points += rec.Points
	}
	status := http.StatusOK
	if err != nil {
		resp.Errors = []string{err.Error()}
		status = http.StatusMultiStatus
	}
	logger.FromContext(r.Context()).Info(LogMsgAutoReverseRun,
		"reversed", resp.Reversed, "tokens", resp.Tokens)
	respondJSON(w, status, resp)
}

// HandleAdjustPoints serves POST /admin/employees/{id}/points
func (h *AdminHandler) HandleAdjustPoints(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(r, w)
	if !ok {
		return
	}
	employeeID, ok := requireEmployeeID(r, w)
	if !ok {
		return
	}
	var req AdjustPointsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "adjust_points", false); err != nil {
		return
	}

	row, err := h.svc.AdjustPoints(r.Context(), actor, employeeID, req.Delta, req.Reason)
	if err != nil {
		respondServiceError(w, r, "adjust_points", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgPointsAdjusted, "employee_id", employeeID, "delta", req.Delta)
	respondJSON(w, http.StatusOK, row)
}

// HandleReconcile serves GET /admin/employees/{id}/reconcile. Drift is
// reported in the body; the status is 200 either way.
func (h *AdminHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployeeID(r, w)
	if !ok {
		return
	}
	report, err := h.svc.Reconcile(r.Context(), employeeID)
	if err != nil {
		respondServiceError(w, r, "reconcile", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgReconciled, "employee_id", employeeID)
	respondJSON(w, http.StatusOK, report)
}
