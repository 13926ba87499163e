package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingActor          = "Missing X-Actor-ID header"
	ErrMsgMissingEmployeeID     = "Missing employee id"
	ErrMsgReadBodyFailed        = "Failed to read request body"
	ErrMsgInvalidLimit          = "limit must be a non-negative integer"
)

// User-facing messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
	ErrMsgForbiddenError      = "You are not allowed to do that"
	ErrMsgEmployeeNotFoundErr = "Employee not found"
	ErrMsgEmployeeInactiveErr = "Employee is inactive"
	ErrMsgGameNotFoundError   = "Game not found"
	ErrMsgPoolNotFoundError   = "Prize pool not found"
	ErrMsgAlreadyResolvedErr  = "Game already played"
	ErrMsgBusyError           = "System is busy, try again"
	ErrMsgConfigInvalidError  = "Configuration rejected"
	ErrMsgInsufficientBalance = "Insufficient balance"
	ErrMsgExchangeDisabledErr = "Token exchange is disabled"
	ErrMsgUnavailableError    = "Service is temporarily unavailable"
)

// Health status values
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// Log messages
const (
	LogMsgRequestFailed    = "Request failed"
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgValidationFailed = "Request validation failed"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgConfigExported   = "Economy config exported"
	LogMsgConfigImported   = "Economy config imported"
	LogMsgConfigSectionSet = "Economy config section updated"
	LogMsgMonthlyResetRun  = "Monthly reset triggered"
	LogMsgAutoReverseRun   = "Auto-reverse sweep triggered"
	LogMsgAdminCheckFailed = "Admin check failed"
	LogMsgAdminDenied      = "Admin access denied"
	LogMsgPointsAdjusted   = "Employee points adjusted"
	LogMsgReconciled       = "Employee ledger reconciled"
)

// HeaderActorID carries the id of the caller performing admin operations
const HeaderActorID = "X-Actor-ID"

// Route parameters
const (
	ParamEmployeeID = "id"
	ParamSection    = "section"

	QueryLimit = "limit"
)
