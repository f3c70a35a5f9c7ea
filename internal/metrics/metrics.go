// Package metrics exposes Prometheus collectors for the indexer.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "citenet"

// Indexer Prometheus metrics.
var (
	S2RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "s2_requests_total",
			Help:      "Total Semantic Scholar requests by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)

	S2RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "s2_request_duration_seconds",
			Help:      "Semantic Scholar request duration in seconds, excluding rate-limit waits",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	PapersIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_indexed_total",
			Help:      "Total papers indexed, by metadata source",
		},
		[]string{"source"}, // "s2" / "local"
	)

	ScanCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_cycles_total",
			Help:      "Total scan cycles by outcome",
		},
		[]string{"status"},
	)

	ScanCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_cycle_duration_seconds",
			Help:      "Duration of a full scan, index and rebuild cycle",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	GraphEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of cites edges after the last rebuild",
		},
	)

	LibraryPapers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "library_papers",
			Help:      "Number of records in the index",
		},
	)

	StoreSaveErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_save_errors_total",
			Help:      "Total failed writes of the index file",
		},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			S2RequestsTotal,
			S2RequestDuration,
			PapersIndexedTotal,
			ScanCyclesTotal,
			ScanCycleDuration,
			GraphEdges,
			LibraryPapers,
			StoreSaveErrorsTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
