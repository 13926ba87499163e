package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Economy Metrics
var (
	GamesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamesAwarded,
			Help: HelpTextGamesAwarded,
		},
		[]string{LabelCategory},
	)

	GamesPlayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamesPlayed,
			Help: HelpTextGamesPlayed,
		},
		[]string{LabelCategory, LabelOutcome},
	)

	PrizesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePrizesAwarded,
			Help: HelpTextPrizesAwarded,
		},
		[]string{LabelPrizeType},
	)

	PrizePoints = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizePoints,
			Help: HelpTextPrizePoints,
		},
	)

	PoolExhaustions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePoolExhaustions,
			Help: HelpTextPoolExhaustions,
		},
		[]string{LabelPrizeType, LabelScope},
	)

	BoostsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBoostsApplied,
			Help: HelpTextBoostsApplied,
		},
	)

	TokensExchanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTokensExchanged,
			Help: HelpTextTokensExchanged,
		},
		[]string{LabelDirection},
	)

	TokensAutoReversed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTokensAutoReversed,
			Help: HelpTextTokensAutoReversed,
		},
	)

	ConfigUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConfigUpdates,
			Help: HelpTextConfigUpdates,
		},
		[]string{LabelSection},
	)

	MonthlyResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMonthlyResets,
			Help: HelpTextMonthlyResets,
		},
	)

	GamesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGamesExpired,
			Help: HelpTextGamesExpired,
		},
	)
)

// Engine Metrics
var (
	LockTimeouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLockTimeouts,
			Help: HelpTextLockTimeouts,
		},
		[]string{LabelOp},
	)

	ConflictRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConflictRetries,
			Help: HelpTextConflictRetries,
		},
		[]string{LabelOp},
	)
)

// EngineRecorder counts lock timeouts and conflict retries reported by the engine
type EngineRecorder struct{}

func (EngineRecorder) LockTimeout(op string) {
	LockTimeouts.WithLabelValues(op).Inc()
}

func (EngineRecorder) ConflictRetry(op string) {
	ConflictRetries.WithLabelValues(op).Inc()
}
