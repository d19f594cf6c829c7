package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons recorded on SnapshotsSkipped
const (
	SkipReasonMissing = "missing"
	SkipReasonEmpty   = "empty"
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initTrackingMetrics()
	r.initDescriptorMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordSnapshotLoaded counts a snapshot that took part in tracking
func (r *Registry) RecordSnapshotLoaded() {
	r.SnapshotsLoaded.Inc()
}

// RecordSnapshotSkipped counts a snapshot skipped for the given reason
func (r *Registry) RecordSnapshotSkipped(reason string) {
	r.SnapshotsSkipped.WithLabelValues(reason).Inc()
}

// RecordMatch records one adjacent-pair comparison
func (r *Registry) RecordMatch(evaluations, emitted, degenerate, universe int, duration time.Duration) {
	r.PairEvaluations.Add(float64(evaluations))
	r.CorrespondencesEmitted.Add(float64(emitted))
	r.DegenerateScores.Add(float64(degenerate))
	r.UniverseSize.Set(float64(universe))
	r.MatchDuration.Observe(duration.Seconds())
}

// RecordDescribe records one snapshot's descriptor computation
func (r *Registry) RecordDescribe(status string, communities int, duration time.Duration) {
	r.SnapshotsDescribed.WithLabelValues(status).Inc()
	r.CommunitiesDescribed.Add(float64(communities))
	r.DescribeDuration.Observe(duration.Seconds())
}

// RecordMissingFeature counts a supernode field left as NaN
func (r *Registry) RecordMissingFeature(feature string) {
	r.MissingFeatures.WithLabelValues(feature).Inc()
}

// RecordPageRank records PageRank convergence behaviour
func (r *Registry) RecordPageRank(iterations int, converged bool) {
	r.PageRankIterations.Observe(float64(iterations))
	if !converged {
		r.PageRankNotConverged.Inc()
	}
}

// RecordDetection records one partition generated from an edge list
func (r *Registry) RecordDetection(method string, modularity float64) {
	r.PartitionsDetected.WithLabelValues(method).Inc()
	r.DetectedModularity.Set(modularity)
}

// UpdateSystemMetrics samples goroutine count and heap usage
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// WriteTextfile writes every metric in Prometheus text format to path, for
// pickup by a node_exporter textfile collector after a batch run.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
