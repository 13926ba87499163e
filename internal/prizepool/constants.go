package prizepool

// Availability reasons
const (
	ReasonAvailable  = ""
	ReasonUnrationed = "prize is not rationed"
	ReasonSoldOutFmt = "this prize is sold out for the current %s period"
	ReasonMonthlyCap = "monthly limit for this prize reached"
)

// Log messages
const (
	LogMsgReserved         = "Prize reserved"
	LogMsgReserveExhausted = "Prize pool exhausted"
	LogMsgReserveRetry     = "Prize reservation conflicted, retrying"
	LogMsgReleased         = "Prize reservation released"
	LogMsgPoolsReset       = "Elapsed prize counters reset"
	LogMsgLimitsSynced     = "Global pool limits synced from config"
)

// Error messages
const (
	ErrMsgUnknownScope    = "unknown pool scope"
	ErrMsgMissingEmployee = "individual scope requires an employee id and tier"
	ErrMsgBeginTx         = "failed to begin transaction"
	ErrMsgCommitTx        = "failed to commit transaction"
	ErrMsgSyncLimits      = "failed to sync pool limits for %s"
)
