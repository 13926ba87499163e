package game

// Result messages
const (
	MsgWinFmt        = "You won a %s prize worth %d points!"
	MsgDowngradedFmt = "The %s prize is sold out for the current period, so you received %s worth %d points instead."
	MsgLossFmt       = "No prize this time. You spent %d tokens."
)

// Log messages
const (
	LogMsgGameAwarded        = "Game awarded"
	LogMsgGamePlayed         = "Game played"
	LogMsgAlreadyResolved    = "Rejected replay of a resolved game"
	LogMsgPrizeDowngraded    = "Prize pool exhausted, outcome downgraded"
	LogMsgOddsComputed       = "Odds computed"
	LogMsgMonthlyReset       = "Monthly reset completed"
	LogMsgEventPublishFailed = "Failed to publish game event"
)

// Error messages
const (
	ErrMsgNoGameTypes   = "no game types are enabled"
	ErrMsgBeginTx       = "failed to begin transaction"
	ErrMsgCommitTx      = "failed to commit transaction"
	ErrMsgInsertGame    = "failed to insert game"
	ErrMsgUpdateGame    = "failed to update game"
	ErrMsgLoadStats     = "failed to load play statistics"
	ErrMsgReservePrize  = "failed to reserve prize"
	ErrMsgExpireGames   = "failed to expire unused games"
	ErrMsgResetCounters = "failed to reset prize counters"
)
