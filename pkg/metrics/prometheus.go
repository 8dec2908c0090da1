// Package metrics provides Prometheus metrics for the pitchfx converter.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector exported by the converter.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  atomic.Int64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Conversion
	gamesConverted     prometheus.Counter
	gamesFailed        prometheus.Counter
	gamesDuplicate     prometheus.Counter
	pitchesConverted   prometheus.Counter
	atBatsSkipped      *prometheus.CounterVec
	pitchApplications  prometheus.Counter
	conversionLatency  prometheus.Histogram
	pitchesPerGame     prometheus.Histogram
	unknownVocabulary  *prometheus.CounterVec
	fallbackPlayIDUsed prometheus.Counter

	// Repository
	repositoryGames         prometheus.Gauge
	repositoryApplications  prometheus.Gauge
	repositoryShardCount    prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerGamesPerSecond    prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec

	// HTTP (ops endpoints)
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchfx",
		subsystem:        "converter",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	m.refreshInterval.Store(int64(defaultRefreshInterval))
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

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.gamesConverted = m.counter("games_converted_total", "Games converted successfully")
	m.gamesFailed = m.counter("games_failed_total", "Games whose conversion was abandoned")
	m.gamesDuplicate = m.counter("games_duplicate_total", "Game submissions rejected as already seen")
	m.pitchesConverted = m.counter("pitches_converted_total", "Pitch records produced")
	m.atBatsSkipped = m.counterVec("at_bats_skipped_total", "At-bats skipped for missing identity", "reason")
	m.pitchApplications = m.counter("pitch_applications_total", "Pitch applications produced")
	m.conversionLatency = m.histogram("conversion_latency_milliseconds", "Time to convert one game feed", m.histogramBuckets)
	m.pitchesPerGame = m.histogram("pitches_per_game", "Pitch records per converted game",
		[]float64{50, 100, 150, 200, 250, 300, 350, 400, 500})
	m.unknownVocabulary = m.counterVec("unknown_vocabulary_total",
		"Batted-ball descriptors outside the known vocabulary", "field")
	m.fallbackPlayIDUsed = m.counter("fallback_play_ids_total", "Pitches that needed a derived play id")

	m.repositoryGames = m.gauge("repository_games", "Games held by the result store")
	m.repositoryApplications = m.gauge("repository_pitch_applications", "Pitch applications held by the result store")
	m.repositoryShardCount = m.gauge("repository_shard_count", "Result store shards")
	m.repositoryUpdateLatency = m.histogram("repository_update_latency_milliseconds", "Result store write latency", m.histogramBuckets)
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Result store read latency", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size / capacity")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Rejected enqueue attempts")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds", "Enqueue latency", m.histogramBuckets)

	m.workerCount = m.gauge("worker_count", "Configured conversion workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently converting a game")
	m.workerGamesPerSecond = m.gauge("worker_games_per_second", "Conversion throughput")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Job handling latency", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Jobs that ended with an error")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")

	m.httpRequests = m.counterVec("http_requests_total", "Ops HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "Ops HTTP request duration",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordGameConverted counts one successful conversion with its pitch and application totals.
func RecordGameConverted(pitches, applications int, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.gamesConverted.Inc()
	globalManager.pitchesConverted.Add(float64(pitches))
	globalManager.pitchApplications.Add(float64(applications))
	globalManager.pitchesPerGame.Observe(float64(pitches))
	globalManager.conversionLatency.Observe(latencyMs)
}

// RecordGameFailed counts an abandoned conversion.
func RecordGameFailed() {
	if !on() {
		return
	}
	globalManager.gamesFailed.Inc()
}

// RecordGameDuplicate counts a rejected duplicate submission.
func RecordGameDuplicate() {
	if !on() {
		return
	}
	globalManager.gamesDuplicate.Inc()
}

// RecordAtBatSkipped counts an at-bat whose pitches were dropped.
func RecordAtBatSkipped(reason string) {
	if !on() {
		return
	}
	globalManager.atBatsSkipped.WithLabelValues(reason).Inc()
}

// RecordUnknownVocabulary counts a descriptor the classifier could not map.
func RecordUnknownVocabulary(field string) {
	if !on() {
		return
	}
	globalManager.unknownVocabulary.WithLabelValues(field).Inc()
}

// RecordFallbackPlayID counts a pitch whose play id was derived.
func RecordFallbackPlayID() {
	if !on() {
		return
	}
	globalManager.fallbackPlayIDUsed.Inc()
}

// UpdateRepositoryGames sets the number of stored games.
func UpdateRepositoryGames(count int) {
	if !on() {
		return
	}
	globalManager.repositoryGames.Set(float64(count))
}

// UpdateRepositoryApplications sets the number of stored pitch applications.
func UpdateRepositoryApplications(count int) {
	if !on() {
		return
	}
	globalManager.repositoryApplications.Set(float64(count))
}

// UpdateRepositoryShardCount sets the number of store shards.
func UpdateRepositoryShardCount(count int) {
	if !on() {
		return
	}
	globalManager.repositoryShardCount.Set(float64(count))
}

// RecordRepositoryUpdateLatency records a store write latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	if !on() {
		return
	}
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records a store read latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	if !on() {
		return
	}
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if !on() {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	if !on() {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	if !on() {
		return
	}
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() {
	if !on() {
		return
	}
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() {
	if !on() {
		return
	}
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() {
	if !on() {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	if !on() {
		return
	}
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	if !on() {
		return
	}
	globalManager.workerCount.Set(float64(count))
}

// AddWorkerActive adjusts the number of busy workers by delta.
func AddWorkerActive(delta int) {
	if !on() {
		return
	}
	globalManager.workerActiveCount.Add(float64(delta))
}

// UpdateWorkerGamesPerSecond sets conversion throughput.
func UpdateWorkerGamesPerSecond(rate float64) {
	if !on() {
		return
	}
	globalManager.workerGamesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records job handling latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !on() {
		return
	}
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a job that ended in error.
func RecordWorkerError() {
	if !on() {
		return
	}
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent counts an error attributed to a component.
func RecordErrorByComponent(component, errorType string) {
	if !on() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !on() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordHTTPRequest counts an ops HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !on() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an ops HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !on() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !on() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if !on() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !on() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// Enabled reports whether m records anything.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// RefreshInterval is how often callers should refresh sampled gauges.
func (m *Manager) RefreshInterval() time.Duration { return time.Duration(m.refreshInterval.Load()) }

func on() bool { return globalManager.enabled.Load() }

// SetEnabled turns recording on or off for the global manager.
func SetEnabled(enabled bool) { globalManager.enabled.Store(enabled) }

// SetRefreshInterval changes the gauge refresh interval of the global
// manager. Non-positive values are ignored.
func SetRefreshInterval(interval time.Duration) {
	if interval > 0 {
		globalManager.refreshInterval.Store(int64(interval))
	}
}

// RefreshInterval returns the gauge refresh interval of the global manager.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
