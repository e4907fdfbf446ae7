// Package metrics exposes Prometheus instrumentation for the recommendation engine,
// the catalog adapters and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	EngineOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "speclens_engine_operation_duration_seconds",
			Help:    "Duration of recommendation engine operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)

	EngineOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speclens_engine_operations_total",
			Help: "Total number of recommendation engine operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	RecommendationsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speclens_recommendations_returned_total",
			Help: "Total number of recommendations returned per relationship kind",
		},
		[]string{"kind"},
	)

	// Attribute cache metrics
	AttributeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "speclens_attribute_cache_hits_total",
			Help: "Total number of extracted-attribute cache hits",
		},
	)

	AttributeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "speclens_attribute_cache_misses_total",
			Help: "Total number of extracted-attribute cache misses",
		},
	)

	// Catalog metrics
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "speclens_catalog_products",
			Help: "Number of products in the current catalog snapshot",
		},
	)

	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speclens_catalog_loads_total",
			Help: "Total number of catalog loads by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speclens_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "speclens_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

// ObserveOperation records the duration and outcome of one engine operation
func ObserveOperation(operation, outcome string, started time.Time) {
	EngineOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	EngineOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCatalogLoad records a catalog load attempt
func RecordCatalogLoad(source string, products int, err error) {
	if err != nil {
		CatalogLoadsTotal.WithLabelValues(source, OutcomeError).Inc()
		return
	}
	CatalogLoadsTotal.WithLabelValues(source, OutcomeSuccess).Inc()
	CatalogProducts.Set(float64(products))
}
