package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "epipulse"

// Metrics bundles the Prometheus instruments for the pipeline and the
// dashboard HTTP surface. All instruments live on an explicit registry so
// tests and multiple instances never collide on global registration.
type Metrics struct {
	registry *prometheus.Registry

	rowsLoaded       prometheus.Counter
	rowsDropped      prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	downloadBytes    prometheus.Counter
	pipelineDuration prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with its own registry, including the
// standard Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,

		rowsLoaded: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_rows_loaded_total",
			Help:      "Total number of raw dataset rows parsed from the source file",
		}),
		rowsDropped: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_rows_dropped_total",
			Help:      "Total number of aggregate rows dropped by the cleaning stage",
		}),
		cacheHits: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_cache_hits_total",
			Help:      "Total number of pipeline cache hits",
		}),
		cacheMisses: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_cache_misses_total",
			Help:      "Total number of pipeline cache misses",
		}),
		downloadBytes: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "download_bytes_total",
			Help:      "Total bytes fetched from the remote dataset source",
		}),
		pipelineDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of full pipeline runs (load, clean, aggregate)",
			Buckets:   prometheus.DefBuckets,
		}),

		httpRequests: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by endpoint, method and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		httpRequestDuration: auto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration by endpoint, method and status code",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "method", "status_code"},
		),
	}
}

// Registry exposes the underlying registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AddRowsLoaded records rows parsed by the raw loader.
func (m *Metrics) AddRowsLoaded(n int) {
	m.rowsLoaded.Add(float64(n))
}

// AddRowsDropped records aggregate rows removed by the cleaner.
func (m *Metrics) AddRowsDropped(n int) {
	m.rowsDropped.Add(float64(n))
}

// CacheHit records a pipeline cache hit.
func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

// CacheMiss records a pipeline cache miss.
func (m *Metrics) CacheMiss() {
	m.cacheMisses.Inc()
}

// AddDownloadBytes records bytes written by the downloader.
func (m *Metrics) AddDownloadBytes(n int64) {
	m.downloadBytes.Add(float64(n))
}

// ObservePipelineDuration records the wall time of one pipeline run.
func (m *Metrics) ObservePipelineDuration(d time.Duration) {
	m.pipelineDuration.Observe(d.Seconds())
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(endpoint, method string, statusCode int, d time.Duration) {
	labels := prometheus.Labels{
		"endpoint":    endpoint,
		"method":      method,
		"status_code": strconv.Itoa(statusCode),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(d.Seconds())
}
