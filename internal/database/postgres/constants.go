package postgres

// Postgres error codes that signal contention rather than a bad request
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
	pgCodeUniqueViolation      = "23505"
)

const (
	// DefaultLockTimeout bounds how long a statement waits on a row lock
	DefaultLockTimeout = "2s"
)

const (
	ErrMsgFailedToBeginTx  = "failed to begin transaction"
	ErrMsgFailedToCommitTx = "failed to commit transaction"
)

const employeeColumns = `employee_id, point_balance, token_balance, tier, performance_percentile,
	best_period_earnings, active, last_exchange_at, daily_exchange_count, daily_exchange_date,
	last_boost_at, created_at, updated_at`

const gameColumns = `game_id, employee_id, category, game_type, difficulty, source, status,
	awarded_at, played_at, expired_at, outcome`

const transactionColumns = `transaction_id, employee_id, transaction_type, point_delta, token_delta,
	exchange_rate_used::text, game_id, note, created_at`

const poolColumns = `prize_type, daily_limit, daily_used, weekly_limit, weekly_used, monthly_limit,
	monthly_used, last_daily_reset, last_weekly_reset, last_monthly_reset`
