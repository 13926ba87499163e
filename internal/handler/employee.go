package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// SummaryService reads an employee's balances, games and recent ledger rows
type SummaryService interface {
	GetEmployeeSummary(ctx context.Context, employeeID string) (*domain.EmployeeSummary, error)
}

type HistoryService interface {
	History(ctx context.Context, employeeID string, limit int) ([]domain.TokenTransaction, error)
}

// HistoryResponse wraps ledger rows so an empty history encodes as []
type HistoryResponse struct {
	EmployeeID   string                    `json:"employee_id"`
	Transactions []domain.TokenTransaction `json:"transactions"`
}

// HandleGetEmployeeSummary serves GET /employees/{id}/summary
func HandleGetEmployeeSummary(svc SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployeeID(r, w)
		if !ok {
			return
		}

		summary, err := svc.GetEmployeeSummary(r.Context(), employeeID)
		if err != nil {
			respondServiceError(w, r, "get_employee_summary", err)
			return
		}
		respondJSON(w, http.StatusOK, summary)
	}
}

// HandleGetEmployeeHistory serves GET /employees/{id}/history?limit=N
func HandleGetEmployeeHistory(svc HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, ok := requireEmployeeID(r, w)
		if !ok {
			return
		}
		limit := 0
		if raw := r.URL.Query().Get(QueryLimit); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = n
		}

		rows, err := svc.History(r.Context(), employeeID, limit)
		if err != nil {
			respondServiceError(w, r, "get_employee_history", err)
			return
		}
		if rows == nil {
			rows = []domain.TokenTransaction{}
		}
		respondJSON(w, http.StatusOK, HistoryResponse{EmployeeID: employeeID, Transactions: rows})
	}
}

func requireEmployeeID(r *http.Request, w http.ResponseWriter) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, ParamEmployeeID))
	if id == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingEmployeeID)
		return "", false
	}
	return id, true
}
