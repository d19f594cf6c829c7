package supernode

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-supernode/pkg/algorithms"
	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
	"github.com/dd0wney/cluso-supernode/pkg/metrics"
	"github.com/dd0wney/cluso-supernode/pkg/parallel"
)

// ErrNoPartition is returned when an input carries no partition
var ErrNoPartition = errors.New("snapshot has no partition")

// Options configures descriptor computation
type Options struct {
	RadiusRange  float64
	Epsilon      float64
	EntropyFloor float64
	PageRank     algorithms.PageRankOptions
	Workers      int
}

// DefaultOptions returns the standard descriptor settings
func DefaultOptions() Options {
	return Options{
		RadiusRange:  DefaultRadiusRange,
		Epsilon:      DefaultEpsilon,
		EntropyFloor: algorithms.DefaultEntropyFloor,
		PageRank:     algorithms.DefaultPageRankOptions(),
		Workers:      1,
	}
}

// Engine computes supernode records for snapshots
type Engine struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewEngine creates a descriptor engine. A nil logger discards output and a
// nil registry disables metrics.
func NewEngine(opts Options, logger logging.Logger, reg *metrics.Registry) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.EntropyFloor <= 0 {
		opts.EntropyFloor = algorithms.DefaultEntropyFloor
	}
	if opts.RadiusRange <= 0 {
		opts.RadiusRange = DefaultRadiusRange
	}
	return &Engine{
		opts:    opts,
		logger:  logger.With(logging.Component("supernode")),
		metrics: reg,
	}
}

// Describe returns one record per community of the snapshot in partition
// order. A nil graph leaves every topology feature NaN; PageRank then comes
// only from the covariates.
func (e *Engine) Describe(in Input) ([]Record, error) {
	start := time.Now()
	part := in.Snapshot.Partition
	if part == nil {
		return nil, fmt.Errorf("describe %s: %w", in.Snapshot.Date, ErrNoPartition)
	}

	log := e.logger.With(logging.Date(in.Snapshot.Date))
	ids := part.Communities()
	records := make([]Record, len(ids))
	if len(ids) == 0 {
		e.recordDescribe("empty", 0, start)
		return records, nil
	}

	pagerank := e.pageRank(in, log)
	cone := e.normalizedCone(part, in.Covariates.Cone, log)

	influences := make([]float64, len(ids))
	for i, id := range ids {
		members := part.SortedMembers(id)
		pr := make([]float64, len(members))
		cn := make([]float64, len(members))
		for j, node := range members {
			pr[j] = pagerank[node]
			cn[j] = cone[node]
		}

		influence, wPR, wCone := influenceOf(pr, cn, e.opts.Epsilon)
		influences[i] = influence
		records[i] = Record{
			Date:           in.Snapshot.Date,
			Community:      id,
			Size:           len(members),
			Influence:      influence,
			PageRankWeight: wPR,
			ConeWeight:     wCone,
		}
		e.describeTopology(&records[i], in.Graph, members)
	}

	for i, r := range Radii(influences, e.opts.RadiusRange) {
		records[i].Radius = r
	}

	for _, r := range records {
		for _, feature := range r.MissingFeatures() {
			log.Debug("feature unavailable",
				logging.Community(string(r.Community)),
				logging.String("feature", feature))
			if e.metrics != nil {
				e.metrics.RecordMissingFeature(feature)
			}
		}
	}

	e.recordDescribe("ok", len(records), start)
	log.Info("snapshot described",
		logging.Count(len(records)),
		logging.Latency(time.Since(start)))
	return records, nil
}

// DescribeAll describes independent snapshots concurrently on opts.Workers
// goroutines. Results keep the order of inputs.
func (e *Engine) DescribeAll(inputs []Input) ([][]Record, error) {
	return parallel.Map(e.opts.Workers, len(inputs), func(i int) ([]Record, error) {
		return e.Describe(inputs[i])
	})
}

func (e *Engine) pageRank(in Input, log logging.Logger) map[community.NodeID]float64 {
	if in.Covariates.PageRank != nil {
		return in.Covariates.PageRank
	}
	if in.Graph == nil {
		log.Warn("no graph or pagerank covariate, pagerank treated as 0")
		if e.metrics != nil {
			e.metrics.RecordMissingFeature(FeaturePageRank)
		}
		return map[community.NodeID]float64{}
	}

	result := algorithms.PageRank(in.Graph, e.opts.PageRank)
	if e.metrics != nil {
		e.metrics.RecordPageRank(result.Iterations, result.Converged)
	}
	if !result.Converged {
		log.Warn("pagerank did not converge", logging.Int("iterations", result.Iterations))
	}
	if top := result.TopNodes(1); len(top) > 0 {
		log.Debug("pagerank computed",
			logging.Int("iterations", result.Iterations),
			logging.Uint64("top_node", uint64(top[0].NodeID)),
			logging.Float64("top_score", top[0].Score))
	}
	return result.Scores
}

// normalizedCone log-normalises cone values over every partition member
func (e *Engine) normalizedCone(part *community.Partition, raw map[community.NodeID]float64, log logging.Logger) map[community.NodeID]float64 {
	if raw == nil {
		log.Warn("no cone covariate, cone treated as 0")
		if e.metrics != nil {
			e.metrics.RecordMissingFeature(FeatureCone)
		}
	}

	nodes := part.Nodes()
	values := make([]float64, len(nodes))
	for i, n := range nodes {
		values[i] = raw[n]
	}

	normalized := LogNormalize(values)
	out := make(map[community.NodeID]float64, len(nodes))
	for i, n := range nodes {
		out[n] = normalized[i]
	}
	return out
}

// describeTopology fills the graph-derived features of r from the subgraph
// induced by members
func (e *Engine) describeTopology(r *Record, g *graph.Graph, members []community.NodeID) {
	nan := math.NaN()
	if g == nil {
		r.RichClub, r.KCore, r.Clustering, r.Betweenness, r.StructuralEntropy = nan, nan, nan, nan, nan
		return
	}

	sub := g.Subgraph(members)
	r.RichClub = algorithms.MeanRichClub(algorithms.DirectedRichClub(sub))
	r.StructuralEntropy = algorithms.StructuralEntropy(sub, e.opts.EntropyFloor)

	if sub.NodeCount() == 0 {
		r.KCore, r.Clustering, r.Betweenness = nan, nan, nan
		return
	}

	nodes := sub.Nodes()
	betweenness := algorithms.BetweennessCentrality(sub)
	cores := algorithms.CoreNumber(sub)
	bc := make([]float64, len(nodes))
	kc := make([]float64, len(nodes))
	for i, n := range nodes {
		bc[i] = betweenness[n]
		kc[i] = float64(cores[n])
	}

	r.Betweenness = stat.Mean(bc, nil)
	r.KCore = stat.Mean(kc, nil)
	r.Clustering = algorithms.AverageClusteringCoefficient(sub)
}

func (e *Engine) recordDescribe(status string, communities int, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordDescribe(status, communities, time.Since(start))
	}
}
