package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API
// and the spreadsheet vendor calls.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sheetDuration   *prometheus.HistogramVec
	sheetErrors     *prometheus.CounterVec
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	cacheHitCount  atomic.Uint64
	cacheMissCount atomic.Uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	sheetDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheet_call_duration_seconds",
		Help:    "Duration of spreadsheet vendor calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	sheetErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_call_errors_total",
		Help: "Total failed spreadsheet vendor calls",
	}, []string{"operation"})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sheetDuration, sheetErrors, cacheHitRatio, cacheHits, cacheMisses, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sheetDuration:   sheetDuration,
		sheetErrors:     sheetErrors,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSheetCall records spreadsheet vendor call timing; it is the
// sink wired into the sheets client observer.
func (m *MetricsService) ObserveSheetCall(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.sheetDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.sheetErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCacheOperation records cache hit/miss metrics and updates the
// hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		m.cacheHitCount.Add(1)
	} else {
		m.cacheMisses.Inc()
		m.cacheMissCount.Add(1)
	}
	hits := m.cacheHitCount.Load()
	total := hits + m.cacheMissCount.Load()
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}
