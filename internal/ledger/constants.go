package ledger

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Log messages
const (
	LogMsgEntryApplied = "Ledger entry applied"
	LogMsgDrift        = "Ledger drift detected"
)

// Error messages
const (
	ErrMsgInvalidType    = "unknown transaction type"
	ErrMsgEmptyEntry     = "ledger entry changes no balance"
	ErrMsgUpdateEmployee = "failed to update employee balances"
	ErrMsgAppendRow      = "failed to append ledger row"
)
