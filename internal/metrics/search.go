package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Retrieval and ingest metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end retrieval duration (embed + KNN) in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	SearchHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_hits_total",
			Help:      "Total hits returned by retrieval",
		},
	)

	SearchUnscoredHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_unscored_hits_total",
			Help:      "Hits returned without a resolvable distance",
		},
	)

	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ingest_documents_total",
			Help:      "Documents processed by ingest",
		},
		[]string{"status"}, // "created" / "updated" / "error"
	)
)

var searchOnce sync.Once

// RegisterSearchMetrics registers retrieval metrics with the default registry. Safe to call repeatedly.
func RegisterSearchMetrics() {
	searchOnce.Do(func() {
		prometheus.MustRegister(
			SearchDuration,
			SearchHitsTotal,
			SearchUnscoredHitsTotal,
			IngestDocumentsTotal,
		)
	})
}
