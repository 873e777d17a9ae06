package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lifecycle outcome labels.
const (
	OutcomeSuccess = "success"
)

// MetricsService owns the Prometheus registry for HTTP traffic, the registration
// lifecycle, the QR cache and report exports. A nil *MetricsService is a valid no-op.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	lifecycleTotal  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	exportsTotal    *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	lifecycleTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_lifecycle_operations_total",
		Help: "Registration, check-in and feedback attempts by outcome",
	}, []string{"operation", "outcome"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "campus_cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_report_exports_total",
		Help: "Rendered report exports by report and format",
	}, []string{"report", "format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, lifecycleTotal, cacheLookups, cacheLatency, exportsTotal, goroutines,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		lifecycleTotal:  lifecycleTotal,
		cacheLookups:    cacheLookups,
		cacheLatency:    cacheLatency,
		exportsTotal:    exportsTotal,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request duration and count.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordLifecycle counts a workflow attempt. outcome is OutcomeSuccess or an error code.
func (m *MetricsService) RecordLifecycle(operation, outcome string) {
	if m == nil {
		return
	}
	m.lifecycleTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// RecordExport counts a rendered export.
func (m *MetricsService) RecordExport(report, format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(report, format).Inc()
}
