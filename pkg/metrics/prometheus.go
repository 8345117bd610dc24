// Package metrics provides Prometheus metrics for the daily word service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Allocation outcomes.
const (
	OutcomeFound     = "found"
	OutcomeCommitted = "committed"
	OutcomeLostRace  = "lost_race"
	OutcomeFallback  = "fallback"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Allocation metrics
	allocations  *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	poolSize     *prometheus.GaugeVec
	usageCap     prometheus.Gauge
	allocLatency prometheus.Histogram

	// Local memo metrics
	memoHits   prometheus.Counter
	memoMisses prometheus.Counter
	memoErrors *prometheus.CounterVec

	// Store metrics
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// Clock state
	clockDegraded prometheus.Gauge
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
		namespace:        "dailyword",
		subsystem:        "allocator",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.allocations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("allocations_total"),
		Help:        "Daily word resolutions by terminal outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fallbacks_total"),
		Help:        "Fallback words served, by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.poolSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pool_size"),
		Help:        "Size of the last candidate pool computed, by pool",
		ConstLabels: labels,
	}, []string{"pool"})

	m.usageCap = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("usage_cap"),
		Help:        "Last computed per-word usage cap",
		ConstLabels: labels,
	})

	m.allocLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("resolve_latency_milliseconds"),
		Help:        "Latency of a full allocator run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.memoHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "memo",
		Name:        m.name("hits_total"),
		Help:        "Lookups answered from the local date-keyed memo",
		ConstLabels: labels,
	})

	m.memoMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "memo",
		Name:        m.name("misses_total"),
		Help:        "Lookups that had to run the allocator",
		ConstLabels: labels,
	})

	m.memoErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "memo",
		Name:        m.name("backing_errors_total"),
		Help:        "Errors talking to the durable memo backing, by op",
		ConstLabels: labels,
	}, []string{"op"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        m.name("op_latency_milliseconds"),
		Help:        "Word store round-trip latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"backend", "op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        m.name("errors_total"),
		Help:        "Word store errors (not-found excluded)",
		ConstLabels: labels,
	}, []string{"backend", "op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("errors_by_type_total"),
		Help:        "HTTP errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "HTTP errors by endpoint, method and type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.clockDegraded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "clock",
		Name:        m.name("degraded"),
		Help:        "1 when the configured timezone failed to load and UTC is used",
		ConstLabels: labels,
	})
}

// RecordAllocation counts a resolution by terminal outcome.
func RecordAllocation(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.allocations.WithLabelValues(outcome).Inc()
}

// RecordFallback counts a fallback word served for reason.
func RecordFallback(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.fallbacks.WithLabelValues(reason).Inc()
}

// UpdatePoolSize sets the size of the named candidate pool.
func UpdatePoolSize(pool string, size int) {
	globalManager.poolSize.WithLabelValues(pool).Set(float64(size))
}

// UpdateUsageCap sets the last computed per-word usage cap.
func UpdateUsageCap(limit int) {
	globalManager.usageCap.Set(float64(limit))
}

// RecordResolveLatency records a full allocator run in milliseconds.
func RecordResolveLatency(latencyMs float64) {
	globalManager.allocLatency.Observe(latencyMs)
}

// RecordMemoHit increments the memo hit counter.
func RecordMemoHit() {
	globalManager.memoHits.Inc()
}

// RecordMemoMiss increments the memo miss counter.
func RecordMemoMiss() {
	globalManager.memoMisses.Inc()
}

// RecordMemoBackingError counts a durable memo failure for op.
func RecordMemoBackingError(op string) {
	globalManager.memoErrors.WithLabelValues(op).Inc()
}

// RecordStoreLatency records one store round-trip.
func RecordStoreLatency(backend, op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordStoreError counts a failed store call.
func RecordStoreError(backend, op string) {
	globalManager.storeErrors.WithLabelValues(backend, op).Inc()
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

// UpdateClockDegraded flags whether the clock runs on UTC.
func UpdateClockDegraded(degraded bool) {
	v := 0.0
	if degraded {
		v = 1
	}
	globalManager.clockDegraded.Set(v)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
