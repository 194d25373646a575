// Package metrics provides Prometheus metrics for the bingo board service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the board engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Submission log metrics
	submissionsAppended    prometheus.Counter
	submissionsOverwritten prometheus.Counter
	submissionsRejected    prometheus.Counter
	rowsArchived           prometheus.Counter

	// Duplicate handling
	duplicateGroups    prometheus.Gauge
	duplicatesResolved prometheus.Counter

	// Derivation metrics
	boardRebuildDuration  prometheus.Histogram
	replayDuration        prometheus.Histogram
	replayPointsEmitted   prometheus.Histogram
	resolvedStates        prometheus.Gauge
	trackedTeams          prometheus.Gauge

	// Write lock behaviour
	writeLockWait     prometheus.Histogram
	writeLockTimeouts prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	logRows              prometheus.Gauge
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bingo",
		subsystem:        "board",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissionsAppended = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_appended_total",
		Help:      "Submission rows appended to the log",
	})
	m.submissionsOverwritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_overwritten_total",
		Help:      "Submission rows overwritten in place by re-submission",
	})
	m.submissionsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_rejected_total",
		Help:      "Submissions rejected at the write path",
	})
	m.rowsArchived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_archived_total",
		Help:      "Log rows archived by duplicate resolution",
	})

	m.duplicateGroups = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_groups",
		Help:      "Conflict groups awaiting manual resolution",
	})
	m.duplicatesResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_resolved_total",
		Help:      "Conflict groups resolved by admins",
	})

	m.boardRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_rebuild_duration_milliseconds",
		Help:      "Time to derive the full board view from the log",
		Buckets:   m.histogramBuckets,
	})
	m.replayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_duration_milliseconds",
		Help:      "Time to replay the log into the chart series",
		Buckets:   m.histogramBuckets,
	})
	m.replayPointsEmitted = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_points_emitted",
		Help:      "Chart points emitted per replay",
		Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})
	m.resolvedStates = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolved_states",
		Help:      "Resolved (team, tile) states in the latest board view",
	})
	m.trackedTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_teams",
		Help:      "Teams configured on the board",
	})

	m.writeLockWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "write_lock_wait_milliseconds",
		Help:      "Time writers waited for the exclusive log lock",
		Buckets:   m.histogramBuckets,
	})
	m.writeLockTimeouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "write_lock_timeouts_total",
		Help:      "Writes that gave up waiting for the log lock",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration by endpoint, method and status",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.logRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_rows",
		Help:      "Total rows in the submission log, archived included",
	})
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordSubmissionAppended increments the appended-rows counter.
func RecordSubmissionAppended() {
	globalManager.submissionsAppended.Inc()
}

// RecordSubmissionOverwritten increments the overwritten-rows counter.
func RecordSubmissionOverwritten() {
	globalManager.submissionsOverwritten.Inc()
}

// RecordSubmissionRejected increments the rejected-submissions counter.
func RecordSubmissionRejected() {
	globalManager.submissionsRejected.Inc()
}

// RecordRowsArchived adds to the archived-rows counter.
func RecordRowsArchived(n int) {
	globalManager.rowsArchived.Add(float64(n))
}

// UpdateDuplicateGroups sets the outstanding conflict-group gauge.
func UpdateDuplicateGroups(n int) {
	globalManager.duplicateGroups.Set(float64(n))
}

// RecordDuplicateResolved increments the resolved-conflicts counter.
func RecordDuplicateResolved() {
	globalManager.duplicatesResolved.Inc()
}

// RecordBoardRebuildDuration records a board derivation in milliseconds.
func RecordBoardRebuildDuration(ms float64) {
	globalManager.boardRebuildDuration.Observe(ms)
}

// RecordReplayDuration records a replay derivation in milliseconds.
func RecordReplayDuration(ms float64) {
	globalManager.replayDuration.Observe(ms)
}

// RecordReplayPointsEmitted records the chart points emitted by a replay.
func RecordReplayPointsEmitted(n int) {
	globalManager.replayPointsEmitted.Observe(float64(n))
}

// UpdateResolvedStates sets the resolved-state gauge.
func UpdateResolvedStates(n int) {
	globalManager.resolvedStates.Set(float64(n))
}

// UpdateTrackedTeams sets the configured-teams gauge.
func UpdateTrackedTeams(n int) {
	globalManager.trackedTeams.Set(float64(n))
}

// RecordWriteLockWait records how long a writer waited for the log lock.
func RecordWriteLockWait(ms float64) {
	globalManager.writeLockWait.Observe(ms)
}

// RecordWriteLockTimeout increments the lock-timeout counter.
func RecordWriteLockTimeout() {
	globalManager.writeLockTimeouts.Inc()
}

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request duration for an endpoint.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateLogRows sets the submission-log row gauge.
func UpdateLogRows(n int) {
	globalManager.logRows.Set(float64(n))
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime records average GC pause time in milliseconds.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
