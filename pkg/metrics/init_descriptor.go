package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDescriptorMetrics() {
	r.SnapshotsDescribed = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supernode_snapshots_described_total",
			Help: "Snapshots whose supernode descriptors were computed",
		},
		[]string{"status"},
	)

	r.CommunitiesDescribed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supernode_communities_described_total",
			Help: "Supernode records produced",
		},
	)

	r.MissingFeatures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supernode_missing_features_total",
			Help: "Supernode fields left undefined (NaN)",
		},
		[]string{"feature"},
	)

	r.DescribeDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "supernode_describe_duration_seconds",
			Help:    "Time to compute all descriptors for one snapshot",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
	)

	r.PageRankIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "supernode_pagerank_iterations",
			Help:    "Power iterations PageRank needed per snapshot",
			Buckets: []float64{5, 10, 20, 50, 100, 200},
		},
	)

	r.PageRankNotConverged = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supernode_pagerank_not_converged_total",
			Help: "Snapshots where PageRank hit the iteration limit",
		},
	)

	r.PartitionsDetected = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supernode_partitions_detected_total",
			Help: "Partitions generated from edge lists",
		},
		[]string{"method"},
	)

	r.DetectedModularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "supernode_detected_modularity",
			Help: "Modularity of the most recently generated partition",
		},
	)
}
