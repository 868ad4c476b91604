// Package metrics provides Prometheus metrics for the crew compliance service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Compliance metrics
	recordsEvaluated   prometheus.Counter
	violationsDetected *prometheus.CounterVec
	weeklyShortfalls   prometheus.Counter

	// Certificate alert metrics
	alertsGenerated  *prometheus.CounterVec
	alertsSuppressed prometheus.Counter

	// Crew matching metrics
	matchRequests    prometheus.Counter
	candidatesScored prometheus.Counter
	matchLatency     prometheus.Histogram

	// Batch pool metrics
	batchJobs   prometheus.Counter
	workerCount prometheus.Gauge

	// Store metrics
	storeRecords *prometheus.GaugeVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	endpointErrors      *prometheus.CounterVec

	// System metrics
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crewops",
		subsystem:        "compliance",
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

	m.recordsEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "work_rest_records_evaluated_total",
		Help:      "Total number of work/rest records classified against MLC 2006 daily rules",
	})

	m.violationsDetected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "violations_detected_total",
			Help:      "Total number of daily MLC 2006 violations by violation type",
		},
		[]string{"violation_type"},
	)

	m.weeklyShortfalls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seven_day_shortfalls_total",
		Help:      "Total number of rolling 7-day rest-hour shortfalls detected",
	})

	m.alertsGenerated = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "certificate_alerts_total",
			Help:      "Total number of certificate expiry alerts by severity",
		},
		[]string{"severity"},
	)

	m.alertsSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "certificate_alerts_suppressed_total",
		Help:      "Total number of expiry alerts suppressed as duplicates",
	})

	m.matchRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "crew_match_requests_total",
		Help:      "Total number of crew assignment scoring requests",
	})

	m.candidatesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "crew_match_candidates_scored_total",
		Help:      "Total number of candidates scored across all match requests",
	})

	m.matchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "crew_match_latency_milliseconds",
		Help:      "Histogram of crew match request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchJobs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_jobs_total",
		Help:      "Total number of batch evaluation jobs processed",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_worker_count",
		Help:      "Current number of batch pool workers",
	})

	m.storeRecords = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_records",
			Help:      "Number of records in the store by entity kind",
		},
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.endpointErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average garbage collection pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordEvaluation increments the daily classification counter.
func RecordEvaluation() {
	globalManager.recordsEvaluated.Inc()
}

// RecordViolation increments the violation counter for a violation type.
func RecordViolation(violationType string) {
	globalManager.violationsDetected.WithLabelValues(violationType).Inc()
}

// RecordSevenDayShortfall increments the weekly shortfall counter.
func RecordSevenDayShortfall() {
	globalManager.weeklyShortfalls.Inc()
}

// RecordAlert increments the alert counter for a severity tier.
func RecordAlert(severity string) {
	globalManager.alertsGenerated.WithLabelValues(severity).Inc()
}

// RecordAlertSuppressed increments the suppressed-alert counter.
func RecordAlertSuppressed() {
	globalManager.alertsSuppressed.Inc()
}

// RecordMatchRequest increments the match request counter.
func RecordMatchRequest() {
	globalManager.matchRequests.Inc()
}

// RecordCandidatesScored adds to the scored-candidate counter.
func RecordCandidatesScored(n int) {
	globalManager.candidatesScored.Add(float64(n))
}

// RecordMatchLatency records one match request duration.
func RecordMatchLatency(latencyMs float64) {
	globalManager.matchLatency.Observe(latencyMs)
}

// RecordBatchJob increments the processed batch job counter.
func RecordBatchJob() {
	globalManager.batchJobs.Inc()
}

// UpdateWorkerCount sets the batch pool worker gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateStoreRecords sets the store record gauge for an entity kind.
func UpdateStoreRecords(kind string, count int) {
	globalManager.storeRecords.WithLabelValues(kind).Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordEndpointError increments the HTTP error counter.
func RecordEndpointError(endpoint, method, errorType string) {
	globalManager.endpointErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause duration.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry all service metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
