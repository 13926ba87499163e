package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Economy metric names
const (
	MetricNameGamesAwarded       = "games_awarded_total"
	MetricNameGamesPlayed        = "games_played_total"
	MetricNamePrizesAwarded      = "prizes_awarded_total"
	MetricNamePrizePoints        = "prize_points_total"
	MetricNamePoolExhaustions    = "prize_pool_exhaustions_total"
	MetricNameBoostsApplied      = "odds_boosts_applied_total"
	MetricNameTokensExchanged    = "tokens_exchanged_total"
	MetricNameTokensAutoReversed = "tokens_auto_reversed_total"
	MetricNameConfigUpdates      = "config_updates_total"
	MetricNameMonthlyResets      = "monthly_resets_total"
	MetricNameGamesExpired       = "games_expired_total"
)

// Engine metric names
const (
	MetricNameLockTimeouts    = "engine_lock_timeouts_total"
	MetricNameConflictRetries = "engine_conflict_retries_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Economy metric help text
const (
	HelpTextGamesAwarded       = "Total number of games awarded"
	HelpTextGamesPlayed        = "Total number of games played"
	HelpTextPrizesAwarded      = "Total number of prizes paid out"
	HelpTextPrizePoints        = "Total points paid out as prizes"
	HelpTextPoolExhaustions    = "Total number of wins downgraded because a prize pool was exhausted"
	HelpTextBoostsApplied      = "Total number of plays that received an odds boost"
	HelpTextTokensExchanged    = "Total tokens moved by exchanges"
	HelpTextTokensAutoReversed = "Total idle tokens converted back to points"
	HelpTextConfigUpdates      = "Total number of economy config versions written"
	HelpTextMonthlyResets      = "Total number of monthly reset runs"
	HelpTextGamesExpired       = "Total number of unused guaranteed games expired"
)

// Engine metric help text
const (
	HelpTextLockTimeouts    = "Total number of employee lock acquisitions that timed out"
	HelpTextConflictRetries = "Total number of transactions retried after a conflict"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelCategory  = "category"
	LabelOutcome   = "outcome"
	LabelPrizeType = "prize_type"
	LabelScope     = "scope"
	LabelDirection = "direction"
	LabelSection   = "section"
	LabelOp        = "op"
)

// unmatchedRoute labels requests that did not hit a registered route
const unmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
