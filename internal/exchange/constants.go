package exchange

const (
	autoReverseNote = "auto_reverse"
	hoursPerDay     = 24
)

// Log messages
const (
	LogMsgExchanged          = "Tokens exchanged"
	LogMsgExchangeRejected   = "Exchange rejected"
	LogMsgAutoReversed       = "Idle tokens reversed to points"
	LogMsgAutoReverseSkipped = "Auto-reverse skipped, employee no longer idle"
	LogMsgAutoReverseFailed  = "Auto-reverse failed for employee"
	LogMsgAutoReverseDone    = "Auto-reverse sweep finished"
	LogMsgEventPublishFailed = "Failed to publish exchange event"
)

// Error messages
const (
	ErrMsgBeginTx     = "failed to begin transaction"
	ErrMsgCommitTx    = "failed to commit transaction"
	ErrMsgListIdle    = "failed to list idle token holders"
	ErrMsgUnknownTier = "no exchange terms for tier"
)
