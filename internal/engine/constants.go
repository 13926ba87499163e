package engine

import "time"

// Defaults used when Options leaves a field zero
const (
	DefaultPlayLockTimeout = 5 * time.Second
	openingBalanceNote     = "opening balance"
)

// Operation names used in logs and recorder calls
const (
	OpAward       = "award_game"
	OpPlay        = "play_game"
	OpExchange    = "exchange"
	OpAdjust      = "adjust_points"
	OpSync        = "sync_employee"
	OpReset       = "monthly_reset"
	OpAutoReverse = "auto_reverse"
)

// Log messages
const (
	LogMsgEmployeeCreated = "Employee created from directory"
	LogMsgEmployeeSynced  = "Employee profile synced"
	LogMsgLockTimeout     = "Timed out waiting for employee lock"
	LogMsgConflictRetry   = "Transaction conflicted, retrying"
	LogMsgPointsAdjusted  = "Points adjusted by admin"
	LogMsgUnauthorized    = "Rejected admin operation"
	LogMsgPoolSyncFailed  = "Failed to sync pool limits after config change"
)

// Error messages
const (
	ErrMsgInvalidProfile = "directory returned an invalid profile"
	ErrMsgEmptyReason    = "adjustment reason is required"
	ErrMsgZeroDelta      = "adjustment delta must not be zero"
	ErrMsgBeginTx        = "failed to begin transaction"
	ErrMsgCommitTx       = "failed to commit transaction"
)
