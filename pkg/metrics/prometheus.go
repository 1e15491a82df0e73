// Package metrics provides Prometheus metrics for the SnapPulse services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus metric families for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	ingestsAccepted prometheus.Counter
	ingestsRejected prometheus.Counter

	// Collector
	fetches         *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	forwards        *prometheus.CounterVec
	forwardDuration prometheus.Histogram
	queueDepth      prometheus.Gauge
	workerCount     prometheus.Gauge

	// Store
	storeRecords       prometheus.Gauge
	storeUpdateLatency prometheus.Histogram

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Read cache
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Webhook relay
	relayDeliveries *prometheus.CounterVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all families.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "snappulse",
		subsystem:        "pipeline",
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
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
			Buckets:   m.histogramBuckets,
		}
	}

	m.ingestsAccepted = prometheus.NewCounter(factory("ingests_accepted_total", "Records accepted by the metrics store"))
	m.ingestsRejected = prometheus.NewCounter(factory("ingests_rejected_total", "Ingest payloads rejected by validation"))

	m.fetches = prometheus.NewCounterVec(factory("fetches_total", "Catalog fetch attempts by outcome"), []string{"outcome"})
	m.fetchDuration = prometheus.NewHistogram(histOpts("fetch_duration_ms", "Catalog fetch duration in milliseconds"))
	m.forwards = prometheus.NewCounterVec(factory("forwards_total", "Ingest forward attempts by outcome"), []string{"outcome"})
	m.forwardDuration = prometheus.NewHistogram(histOpts("forward_duration_ms", "Ingest forward duration in milliseconds"))
	m.queueDepth = prometheus.NewGauge(gaugeOpts("collector_queue_depth", "Fetch jobs waiting in the collector queue"))
	m.workerCount = prometheus.NewGauge(gaugeOpts("collector_workers", "Collector worker goroutines"))

	m.storeRecords = prometheus.NewGauge(gaugeOpts("store_records", "Keys tracked by the metrics store"))
	m.storeUpdateLatency = prometheus.NewHistogram(histOpts("store_update_latency_ms", "Store ingest latency in milliseconds"))

	m.httpRequests = prometheus.NewCounterVec(factory("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(histOpts("http_request_duration_ms", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status"})

	m.cacheHits = prometheus.NewCounter(factory("cache_hits_total", "Read-cache hits"))
	m.cacheMisses = prometheus.NewCounter(factory("cache_misses_total", "Read-cache misses"))

	m.relayDeliveries = prometheus.NewCounterVec(factory("relay_deliveries_total", "Webhook deliveries by outcome"), []string{"outcome"})

	m.errorsByComponent = prometheus.NewCounterVec(factory("errors_total", "Errors by component and type"), []string{"component", "type"})

	m.registry.MustRegister(
		m.ingestsAccepted, m.ingestsRejected,
		m.fetches, m.fetchDuration, m.forwards, m.forwardDuration,
		m.queueDepth, m.workerCount,
		m.storeRecords, m.storeUpdateLatency,
		m.httpRequests, m.httpRequestDuration,
		m.cacheHits, m.cacheMisses,
		m.relayDeliveries,
		m.errorsByComponent,
	)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordIngestAccepted counts a record accepted by the store.
func RecordIngestAccepted() { globalManager.ingestsAccepted.Inc() }

// RecordIngestRejected counts an ingest payload rejected by validation.
func RecordIngestRejected() { globalManager.ingestsRejected.Inc() }

// RecordFetch counts a catalog fetch attempt; outcome is "success" or "failure".
func RecordFetch(outcome string) { globalManager.fetches.WithLabelValues(outcome).Inc() }

// RecordFetchDuration observes a catalog fetch duration in milliseconds.
func RecordFetchDuration(ms float64) { globalManager.fetchDuration.Observe(ms) }

// RecordForward counts a forward attempt; outcome is "success" or "failure".
func RecordForward(outcome string) { globalManager.forwards.WithLabelValues(outcome).Inc() }

// RecordForwardDuration observes a forward duration in milliseconds.
func RecordForwardDuration(ms float64) { globalManager.forwardDuration.Observe(ms) }

// UpdateQueueDepth sets the collector queue depth gauge.
func UpdateQueueDepth(n int) { globalManager.queueDepth.Set(float64(n)) }

// UpdateWorkerCount sets the collector worker gauge.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// UpdateStoreRecords sets the tracked-key gauge.
func UpdateStoreRecords(n int) { globalManager.storeRecords.Set(float64(n)) }

// RecordStoreUpdateLatency observes a store ingest latency in milliseconds.
func RecordStoreUpdateLatency(ms float64) { globalManager.storeUpdateLatency.Observe(ms) }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordCacheHit counts a read-cache hit.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss counts a read-cache miss.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// RecordRelayDelivery counts a webhook delivery; outcome is
// "forwarded", "duplicate" or "failure".
func RecordRelayDelivery(outcome string) {
	globalManager.relayDeliveries.WithLabelValues(outcome).Inc()
}

// RecordErrorByComponent counts an error for a component.
func RecordErrorByComponent(component, errType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errType).Inc()
}
