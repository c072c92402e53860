// Package metrics provides Prometheus metrics for the madness rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	solveBuckets   []float64
	registry       prometheus.Registerer

	// Rating engine
	ratingsComputed *prometheus.CounterVec
	ratingErrors    *prometheus.CounterVec
	solveDuration   *prometheus.HistogramVec
	teamsRated      prometheus.Gauge
	gamesRated      prometheus.Gauge

	// Bracket simulation
	bracketSimulations *prometheus.CounterVec
	bracketErrors      *prometheus.CounterVec

	// Results feed and cache
	feedFetches  *prometheus.CounterVec
	feedErrors   *prometheus.CounterVec
	feedLatency  *prometheus.HistogramVec
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	cacheEntries *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
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
		namespace:      "madness",
		subsystem:      "ratings",
		latencyBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		solveBuckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.ratingsComputed = m.counterVec("computed_total", "Total number of rating tables computed", "algorithm")
	m.ratingErrors = m.counterVec("errors_total", "Total number of failed rating computations", "algorithm", "kind")
	m.solveDuration = m.histogramVec("solve_duration_milliseconds", "Time to build and solve one rating system", m.solveBuckets, "algorithm")
	m.teamsRated = m.gauge("teams", "Number of teams in the last rated season")
	m.gamesRated = m.gauge("games", "Number of games in the last rated season")

	m.bracketSimulations = m.counterVec("bracket_simulations_total", "Total number of bracket simulations", "decider")
	m.bracketErrors = m.counterVec("bracket_errors_total", "Total number of failed bracket simulations", "decider")

	m.feedFetches = m.counterVec("feed_fetches_total", "Total number of results feed fetches", "table")
	m.feedErrors = m.counterVec("feed_errors_total", "Total number of failed results feed fetches", "table")
	m.feedLatency = m.histogramVec("feed_latency_milliseconds", "Results feed fetch latency in milliseconds", m.latencyBuckets, "table")
	m.cacheHits = m.counterVec("cache_hits_total", "Cache lookups served from memory", "cache")
	m.cacheMisses = m.counterVec("cache_misses_total", "Cache lookups that triggered a load", "cache")
	m.cacheEntries = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Entries currently held by a cache",
	}, []string{"cache"})

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets, "endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in an error", m.latencyBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRatingsComputed counts a successful rating computation and its solve time.
func RecordRatingsComputed(algorithm string, durationMs float64, teams, games int) {
	globalManager.ratingsComputed.WithLabelValues(algorithm).Inc()
	globalManager.solveDuration.WithLabelValues(algorithm).Observe(durationMs)
	globalManager.teamsRated.Set(float64(teams))
	globalManager.gamesRated.Set(float64(games))
}

// RecordRatingError counts a failed rating computation. kind is one of
// data_integrity, configuration, solve or unknown.
func RecordRatingError(algorithm, kind string) {
	globalManager.ratingErrors.WithLabelValues(algorithm, kind).Inc()
}

// RecordBracketSimulation counts a bracket simulation.
func RecordBracketSimulation(decider string) {
	globalManager.bracketSimulations.WithLabelValues(decider).Inc()
}

// RecordBracketError counts a failed bracket simulation.
func RecordBracketError(decider string) {
	globalManager.bracketErrors.WithLabelValues(decider).Inc()
}

// RecordFeedFetch records a results feed fetch and its latency.
func RecordFeedFetch(table string, latencyMs float64) {
	globalManager.feedFetches.WithLabelValues(table).Inc()
	globalManager.feedLatency.WithLabelValues(table).Observe(latencyMs)
}

// RecordFeedError counts a failed results feed fetch.
func RecordFeedError(table string) {
	globalManager.feedErrors.WithLabelValues(table).Inc()
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// UpdateCacheEntries sets the number of entries held by a cache.
func UpdateCacheEntries(cache string, n int) {
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
