// Package metrics provides Prometheus metrics for semsearch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts operations by name and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "semsearch",
			Name:      "requests_total",
			Help:      "Total number of search, calc and cluster operations",
		},
		[]string{"operation", "status"},
	)

	// OperationDuration measures operation duration.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "semsearch",
			Name:      "operation_duration_seconds",
			Help:      "Duration of operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// EncodeBatchSize observes how many texts go to the encoder per call.
	EncodeBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "semsearch",
			Name:      "encode_batch_size",
			Help:      "Distribution of encoder batch sizes",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"operation"},
	)

	// SearchCacheHits counts result cache lookups.
	SearchCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "semsearch",
			Name:      "search_cache_total",
			Help:      "Search result cache lookups by outcome",
		},
		[]string{"result"},
	)

	// StoreEntries reports the number of entries in the embedding store.
	StoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "semsearch",
			Name:      "store_entries",
			Help:      "Number of corpus entries held in the embedding store",
		},
	)
)

// RecordOperation records a finished operation.
func RecordOperation(operation, status string, duration float64) {
	RequestsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordEncodeBatch records one encoder call.
func RecordEncodeBatch(operation string, size int) {
	EncodeBatchSize.WithLabelValues(operation).Observe(float64(size))
}

// RecordCacheLookup records a search cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		SearchCacheHits.WithLabelValues("hit").Inc()
		return
	}
	SearchCacheHits.WithLabelValues("miss").Inc()
}

// SetStoreEntries sets the store size gauge.
func SetStoreEntries(n int) {
	StoreEntries.Set(float64(n))
}
