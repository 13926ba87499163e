package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON body into req and validates it.
// An empty body is accepted when allowEmpty is set and leaves req at its zero
// value. On error the response has already been written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string, allowEmpty bool) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !(allowEmpty && errors.Is(err, io.EOF)) {
		log.Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	return ValidateRequest(r, w, req, actionName)
}

// ValidateRequest runs struct validation and writes a field error response
func ValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	if err := GetValidator().ValidateStruct(req); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgValidationFailed, "action", actionName, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// readBody reads the whole request body. The server caps body size.
func readBody(r *http.Request, w http.ResponseWriter) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgDecodeFailed, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgReadBodyFailed)
		return nil, false
	}
	return body, true
}

// ActorID returns the trimmed X-Actor-ID header
func ActorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderActorID))
}

// requireActor writes a 400 and returns false when no actor header is set
func requireActor(r *http.Request, w http.ResponseWriter) (string, bool) {
	actor := ActorID(r)
	if actor == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingActor)
		return "", false
	}
	return actor, true
}

func opLabel(prefix, detail string) string {
	return fmt.Sprintf("%s:%s", prefix, detail)
}
