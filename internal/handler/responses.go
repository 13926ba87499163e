package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetailedErrorResponse adds a machine-readable reason and detail lines
type DetailedErrorResponse struct {
	Error   string   `json:"error"`
	Reason  string   `json:"reason,omitempty"`
	Details []string `json:"details,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// respondJSON encodes payload into a pooled buffer before writing, so an
// encoding failure never leaves a half-written body.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and maps it onto a status and a safe message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, resp := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgRequestFailed, "op", opName, "status", status, "error", err)
	} else {
		log.Warn(LogMsgRequestFailed, "op", opName, "status", status, "error", err)
	}
	respondJSON(w, status, resp)
}

// mapServiceError converts domain errors into HTTP status codes and
// responses callers can act on. Typed errors keep their detail text.
func mapServiceError(err error) (int, DetailedErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, DetailedErrorResponse{Error: ErrMsgUnknownError}
	}

	var cfgErr domain.ConfigInvalidError
	if errors.As(err, &cfgErr) {
		details := make([]string, 0, len(cfgErr.Problems))
		for _, p := range cfgErr.Problems {
			details = append(details, p.Error())
		}
		return http.StatusUnprocessableEntity, DetailedErrorResponse{
			Error: ErrMsgConfigInvalidError, Reason: domain.ErrMsgConfigInvalid, Details: details,
		}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, detailed(ErrMsgInvalidInputError, domain.ErrMsgValidation, err)
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotGameOwner):
		return http.StatusForbidden, DetailedErrorResponse{Error: ErrMsgForbiddenError}
	case errors.Is(err, domain.ErrEmployeeInactive):
		return http.StatusForbidden, DetailedErrorResponse{Error: ErrMsgEmployeeInactiveErr, Reason: domain.ErrMsgEmployeeInactive}
	case errors.Is(err, domain.ErrExchangeDisabled):
		return http.StatusForbidden, DetailedErrorResponse{Error: ErrMsgExchangeDisabledErr, Reason: domain.ErrMsgExchangeDisabled}
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusNotFound, DetailedErrorResponse{Error: ErrMsgEmployeeNotFoundErr}
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound, DetailedErrorResponse{Error: ErrMsgGameNotFoundError}
	case errors.Is(err, domain.ErrPoolNotFound):
		return http.StatusNotFound, DetailedErrorResponse{Error: ErrMsgPoolNotFoundError}
	case errors.Is(err, domain.ErrAlreadyResolved):
		return http.StatusConflict, DetailedErrorResponse{Error: ErrMsgAlreadyResolvedErr, Reason: domain.ErrMsgAlreadyResolved}
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict, detailed(ErrMsgInsufficientBalance, domain.ErrMsgInsufficientBalance, err)
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusServiceUnavailable, DetailedErrorResponse{Error: ErrMsgBusyError, Reason: domain.ErrMsgConcurrencyConflict}
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests, detailed(domain.ErrMsgQuotaExceeded, domain.ErrMsgQuotaExceeded, err)
	case errors.Is(err, domain.ErrCooldownActive):
		return http.StatusTooManyRequests, detailed(domain.ErrMsgCooldownActive, domain.ErrMsgCooldownActive, err)
	}

	return http.StatusInternalServerError, DetailedErrorResponse{Error: ErrMsgGenericServerError}
}

func detailed(msg, reason string, err error) DetailedErrorResponse {
	return DetailedErrorResponse{Error: msg, Reason: reason, Details: []string{err.Error()}}
}
