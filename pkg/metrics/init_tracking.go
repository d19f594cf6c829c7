package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTrackingMetrics() {
	r.SnapshotsLoaded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supernode_snapshots_loaded_total",
			Help: "Snapshots loaded and compared by the tracker",
		},
	)

	r.SnapshotsSkipped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supernode_snapshots_skipped_total",
			Help: "Snapshots skipped because their data was missing or empty",
		},
		[]string{"reason"},
	)

	r.PairEvaluations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supernode_pair_evaluations_total",
			Help: "Community pairs scored across adjacent snapshots",
		},
	)

	r.CorrespondencesEmitted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supernode_correspondences_total",
			Help: "Correspondences admitted by the similarity threshold",
		},
	)

	r.DegenerateScores = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supernode_degenerate_scores_total",
			Help: "Similarity scores downgraded to 0 because of degenerate input",
		},
	)

	r.MatchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "supernode_match_duration_seconds",
			Help:    "Time to build one adjacent-pair similarity matrix",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.UniverseSize = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "supernode_universe_size",
			Help: "Universe size used for the most recent comparison",
		},
	)
}
