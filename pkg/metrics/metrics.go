package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec

	// Import metrics
	Imports      *prometheus.CounterVec
	ImportedRows prometheus.Counter
	SkippedRows  prometheus.Counter

	// Cache metrics
	CacheRequests *prometheus.CounterVec
	CacheLatency  *prometheus.HistogramVec
}

// New creates all application metrics and registers them on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of store operations",
		}, []string{"collection", "operation", "status"}),
		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of store operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"collection", "operation"}),

		Imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_imports_total",
			Help:      "Total number of CSV imports by outcome",
		}, []string{"status"}),
		ImportedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_imported_rows_total",
			Help:      "Total number of CSV rows submitted to the store",
		}),
		SkippedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_skipped_rows_total",
			Help:      "Total number of CSV rows dropped for missing mandatory fields",
		}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Total number of snapshot cache lookups",
		}, []string{"backend", "result"}),
		CacheLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_operation_duration_seconds",
			Help:      "Duration of cache operations",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		}, []string{"backend", "operation"}),
	}
}

// ObserveStore records one store call started at start.
func (m *Metrics) ObserveStore(collection, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.StoreOperations.WithLabelValues(collection, operation, status).Inc()
	m.StoreLatency.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
}

// ObserveImport records the outcome of one CSV import.
func (m *Metrics) ObserveImport(imported, skipped int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Imports.WithLabelValues("error").Inc()
		return
	}
	m.Imports.WithLabelValues("success").Inc()
	m.ImportedRows.Add(float64(imported))
	m.SkippedRows.Add(float64(skipped))
}

// ObserveCache records a cache operation; result is hit, miss, set, delete or error.
func (m *Metrics) ObserveCache(backend, operation, result string, start time.Time) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(backend, result).Inc()
	m.CacheLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}
