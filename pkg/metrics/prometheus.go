package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the offseason service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Contract decisions
	offersEvaluated  *prometheus.CounterVec
	offersAccepted   *prometheus.CounterVec
	offerProbability prometheus.Histogram

	// Draft sessions
	sessionsCreated   *prometheus.CounterVec
	sessionsCompleted prometheus.Counter
	sessionsActive    prometheus.Gauge
	picksMade         *prometheus.CounterVec
	tradesProposed    *prometheus.CounterVec
	rosterAdditions   prometheus.Counter
	rosterDuplicates  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Store
	storeLatency *prometheus.HistogramVec

	// Queue
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueEnqueueError prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Publishing
	eventsPublished *prometheus.CounterVec

	errorsByComponent *prometheus.CounterVec
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
		namespace:        "offseason",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.offersEvaluated = m.counterVec("offers_evaluated_total", "Contract offers evaluated by surface", "surface")
	m.offersAccepted = m.counterVec("offers_accepted_total", "Contract offers accepted by surface", "surface")
	m.offerProbability = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "offer_acceptance_probability",
		Help:      "Distribution of evaluated acceptance probabilities",
		Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
	})

	m.sessionsCreated = m.counterVec("draft_sessions_created_total", "Draft sessions created by mode", "mode")
	m.sessionsCompleted = m.counter("draft_sessions_completed_total", "Draft sessions that reached the last pick")
	m.sessionsActive = m.gauge("draft_sessions_active", "Draft sessions still in progress")
	m.picksMade = m.counterVec("draft_picks_total", "Draft picks made by kind (user or cpu)", "kind")
	m.tradesProposed = m.counterVec("draft_trades_total", "Draft trade proposals by result", "result")
	m.rosterAdditions = m.counter("roster_additions_total", "Drafted players registered to rosters")
	m.rosterDuplicates = m.counter("roster_additions_duplicate_total", "Roster registrations skipped as duplicates")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_operation_latency_milliseconds",
		Help:      "Session and roster store latency by operation",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.queueSize = m.gauge("queue_size", "Current size of the event queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum capacity of the event queue")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization (size/capacity)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Events enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Events dequeued")
	m.queueEnqueueError = m.counter("queue_enqueue_errors_total", "Events rejected by the queue")

	m.workerCount = m.gauge("worker_count", "Configured number of publisher workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently publishing")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Time spent publishing one event",
		Buckets:   m.histogramBuckets,
	})
	m.workerErrors = m.counter("worker_errors_total", "Events the workers failed to publish")

	m.eventsPublished = m.counterVec("events_published_total", "Events handed to a publisher by result",
		"publisher", "result")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type",
		"component", "error_type")
}

// RecordOfferEvaluated counts an evaluation and observes its probability.
func RecordOfferEvaluated(surface string, probability float64) {
	globalManager.offersEvaluated.WithLabelValues(surface).Inc()
	globalManager.offerProbability.Observe(probability)
}

// RecordOfferAccepted counts an accepted offer.
func RecordOfferAccepted(surface string) {
	globalManager.offersAccepted.WithLabelValues(surface).Inc()
}

// RecordSessionCreated counts a new draft session.
func RecordSessionCreated(mode string) {
	globalManager.sessionsCreated.WithLabelValues(mode).Inc()
}

// RecordSessionCompleted counts a finished draft session.
func RecordSessionCompleted() {
	globalManager.sessionsCompleted.Inc()
}

// UpdateActiveSessions sets the number of in-progress sessions.
func UpdateActiveSessions(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordPick counts a draft pick; kind is "user" or "cpu".
func RecordPick(kind string) {
	globalManager.picksMade.WithLabelValues(kind).Inc()
}

// RecordTrade counts a trade proposal by result.
func RecordTrade(result string) {
	globalManager.tradesProposed.WithLabelValues(result).Inc()
}

// RecordRosterAddition counts a registered drafted player.
func RecordRosterAddition() {
	globalManager.rosterAdditions.Inc()
}

// RecordRosterDuplicate counts a skipped duplicate registration.
func RecordRosterDuplicate() {
	globalManager.rosterDuplicates.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordStoreLatency records a store operation latency in milliseconds.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueError.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordEventPublished counts a publish attempt; result is "ok" or "error".
func RecordEventPublished(publisher, result string) {
	globalManager.eventsPublished.WithLabelValues(publisher, result).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
