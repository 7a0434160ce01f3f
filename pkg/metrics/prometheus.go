// Package metrics provides Prometheus metrics for the power rankings service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rankings service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics - ranking refresh cycle
	refreshRuns        prometheus.Counter
	refreshErrors      prometheus.Counter
	refreshDuration    prometheus.Histogram
	refreshLastUnix    prometheus.Gauge
	teamsRanked        prometheus.Gauge
	partialTeams       prometheus.Gauge
	rankingComputeTime prometheus.Histogram

	// Upstream Provider Metrics - NHL API calls
	providerRequests *prometheus.CounterVec
	providerErrors   *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec

	// Game Cache Metrics
	gameCacheHits   prometheus.Counter
	gameCacheMisses prometheus.Counter
	gameCacheSize   prometheus.Gauge

	// Trigger Queue Metrics - refresh coalescing
	triggersAccepted  prometheus.Counter
	triggersCoalesced prometheus.Counter
	triggerQueueSize  prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "puckrank",
		subsystem:        "rankings",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - the refresh cycle is the heartbeat of the service
	m.refreshRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_runs_total",
		Help:      "Total number of completed ranking refresh runs",
	})

	m.refreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_errors_total",
		Help:      "Total number of refresh runs that failed to produce rankings",
	})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_milliseconds",
		Help:      "Histogram of end-to-end refresh duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.refreshLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_last_unix",
		Help:      "Unix timestamp of the last successful refresh",
	})

	m.teamsRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_ranked",
		Help:      "Number of teams in the latest ranking snapshot",
	})

	m.partialTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "partial_teams",
		Help:      "Number of teams scored with incomplete data in the latest snapshot",
	})

	m.rankingComputeTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_duration_milliseconds",
		Help:      "Histogram of pure ranking computation time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Upstream Provider Metrics - NHL API health
	m.providerRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_requests_total",
			Help:      "Total number of NHL API requests by endpoint",
		},
		[]string{"endpoint"},
	)

	m.providerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_errors_total",
			Help:      "Total number of failed NHL API requests by endpoint",
		},
		[]string{"endpoint"},
	)

	m.providerLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_latency_milliseconds",
			Help:      "NHL API request latency in milliseconds by endpoint",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint"},
	)

	// Game Cache Metrics
	m.gameCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "game_cache_hits_total",
		Help:      "Total number of processed-game cache hits",
	})

	m.gameCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "game_cache_misses_total",
		Help:      "Total number of processed-game cache misses",
	})

	m.gameCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "game_cache_size",
		Help:      "Current number of entries in the processed-game cache",
	})

	// Trigger Queue Metrics
	m.triggersAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_triggers_accepted_total",
		Help:      "Total number of refresh triggers accepted into the queue",
	})

	m.triggersCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_triggers_coalesced_total",
		Help:      "Total number of refresh triggers coalesced with one already pending",
	})

	m.triggerQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_trigger_queue_size",
		Help:      "Current number of pending refresh triggers",
	})

	// HTTP Performance Metrics - user experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
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

	// Enhanced Error Metrics - detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and reason",
		},
		[]string{"component", "reason"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of failed operations in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Garbage collection pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordRefreshRun increments the completed refresh counter.
func RecordRefreshRun() { globalManager.refreshRuns.Inc() }

// RecordRefreshError increments the failed refresh counter.
func RecordRefreshError() { globalManager.refreshErrors.Inc() }

// RecordRefreshDuration observes an end-to-end refresh duration.
func RecordRefreshDuration(ms float64) { globalManager.refreshDuration.Observe(ms) }

// UpdateRefreshLastUnix records the time of the last successful refresh.
func UpdateRefreshLastUnix(ts int64) { globalManager.refreshLastUnix.Set(float64(ts)) }

// UpdateTeamsRanked sets the number of teams in the latest snapshot.
func UpdateTeamsRanked(n int) { globalManager.teamsRanked.Set(float64(n)) }

// UpdatePartialTeams sets the number of partially scored teams.
func UpdatePartialTeams(n int) { globalManager.partialTeams.Set(float64(n)) }

// RecordComputeDuration observes a pure ranking computation duration.
func RecordComputeDuration(ms float64) { globalManager.rankingComputeTime.Observe(ms) }

// RecordProviderRequest counts an NHL API request.
func RecordProviderRequest(endpoint string) {
	globalManager.providerRequests.WithLabelValues(endpoint).Inc()
}

// RecordProviderError counts a failed NHL API request.
func RecordProviderError(endpoint string) {
	globalManager.providerErrors.WithLabelValues(endpoint).Inc()
}

// RecordProviderLatency observes NHL API latency for an endpoint.
func RecordProviderLatency(endpoint string, ms float64) {
	globalManager.providerLatency.WithLabelValues(endpoint).Observe(ms)
}

// RecordGameCacheHit counts a processed-game cache hit.
func RecordGameCacheHit() { globalManager.gameCacheHits.Inc() }

// RecordGameCacheMiss counts a processed-game cache miss.
func RecordGameCacheMiss() { globalManager.gameCacheMisses.Inc() }

// UpdateGameCacheSize sets the current game cache size.
func UpdateGameCacheSize(n int64) { globalManager.gameCacheSize.Set(float64(n)) }

// RecordTriggerAccepted counts an accepted refresh trigger.
func RecordTriggerAccepted() { globalManager.triggersAccepted.Inc() }

// RecordTriggerCoalesced counts a coalesced refresh trigger.
func RecordTriggerCoalesced() { globalManager.triggersCoalesced.Inc() }

// UpdateTriggerQueueSize sets the current pending trigger count.
func UpdateTriggerQueueSize(n int) { globalManager.triggerQueueSize.Set(float64(n)) }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByComponent counts an error for a component and reason.
func RecordErrorByComponent(component, reason string) {
	globalManager.errorRateByComponent.WithLabelValues(component, reason).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an error for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency observes the latency of a failed operation.
func RecordErrorLatency(component, errorType string, ms float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(ms)
}

// UpdateSystemMemoryUsage sets the current heap usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime observes a GC pause duration.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Observe(ms)
}
