package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a tracking or description run
type Registry struct {
	// Tracking metrics
	SnapshotsLoaded        prometheus.Counter
	SnapshotsSkipped       *prometheus.CounterVec
	PairEvaluations        prometheus.Counter
	CorrespondencesEmitted prometheus.Counter
	DegenerateScores       prometheus.Counter
	MatchDuration          prometheus.Histogram
	UniverseSize           prometheus.Gauge

	// Descriptor metrics
	SnapshotsDescribed   *prometheus.CounterVec
	CommunitiesDescribed prometheus.Counter
	MissingFeatures      *prometheus.CounterVec
	DescribeDuration     prometheus.Histogram
	PageRankIterations   prometheus.Histogram
	PageRankNotConverged prometheus.Counter

	// Detection metrics
	PartitionsDetected *prometheus.CounterVec
	DetectedModularity prometheus.Gauge

	// System metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)
