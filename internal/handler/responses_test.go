package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"validation", fmt.Errorf("%w: difficulty 7", domain.ErrValidation), http.StatusBadRequest, domain.ErrMsgValidation},
		{"insufficient balance", domain.InsufficientBalanceError{Currency: domain.CurrencyTokens, Have: 2, Need: 5}, http.StatusConflict, domain.ErrMsgInsufficientBalance},
		{"quota", domain.QuotaExceededError{Used: 45, Requested: 10, Limit: 50}, http.StatusTooManyRequests, domain.ErrMsgQuotaExceeded},
		{"cooldown", domain.CooldownActiveError{Remaining: time.Hour}, http.StatusTooManyRequests, domain.ErrMsgCooldownActive},
		{"conflict", fmt.Errorf("play: %w", domain.ErrConcurrencyConflict), http.StatusServiceUnavailable, domain.ErrMsgConcurrencyConflict},
		{"already resolved", domain.ErrAlreadyResolved, http.StatusConflict, domain.ErrMsgAlreadyResolved},
		{"exchange disabled", domain.ErrExchangeDisabled, http.StatusForbidden, domain.ErrMsgExchangeDisabled},
		{"inactive", domain.ErrEmployeeInactive, http.StatusForbidden, domain.ErrMsgEmployeeInactive},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, ""},
		{"game not found", domain.ErrGameNotFound, http.StatusNotFound, ""},
		{"config invalid", domain.ConfigInvalidError{Problems: []error{errors.New("x")}}, http.StatusUnprocessableEntity, domain.ErrMsgConfigInvalid},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, ""},
		{"nil", nil, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestMapServiceError_QuotaKeepsDetail(t *testing.T) {
	_, resp := mapServiceError(domain.QuotaExceededError{Used: 45, Requested: 10, Limit: 50})
	assert.Len(t, resp.Details, 1)
	assert.Contains(t, resp.Details[0], "45 of 50")
}
