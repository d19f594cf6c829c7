// Package tracking links communities across consecutive snapshots by their
// chance-corrected membership overlap.
package tracking

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
	"github.com/dd0wney/cluso-supernode/pkg/metrics"
	"github.com/dd0wney/cluso-supernode/pkg/parallel"
	"github.com/dd0wney/cluso-supernode/pkg/similarity"
)

// ErrNilPartition is returned when a snapshot handed to the matcher has no
// partition
var ErrNilPartition = errors.New("snapshot has no partition")

// Correspondence links a community in one snapshot to a community in the next.
// A community may appear in any number of correspondences on either side.
type Correspondence struct {
	PrevDate      string
	PrevCommunity community.ID
	CurrDate      string
	CurrCommunity community.ID
	Similarity    float64
}

// MatchResult is the outcome of comparing two snapshots
type MatchResult struct {
	Universe    int
	Evaluations int         // always len(prev) * len(curr)
	Degenerate  int         // cells downgraded to 0 on ErrDegenerateInput
	Matrix      [][]float64 // Matrix[i][j] scores prev community i against curr community j
	Records     []Correspondence
}

// MatcherOptions configures a Matcher
type MatcherOptions struct {
	Threshold float64
	Workers   int
	// QuietDegenerate logs degenerate cells at DEBUG instead of WARN
	QuietDegenerate bool
}

// Matcher scores every community pair of two snapshots and keeps those at or
// above the threshold
type Matcher struct {
	opts    MatcherOptions
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewMatcher creates a Matcher. A nil logger discards output and a nil
// registry disables metrics.
func NewMatcher(opts MatcherOptions, logger logging.Logger, reg *metrics.Registry) *Matcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Matcher{
		opts:    opts,
		logger:  logger.With(logging.Component("matcher")),
		metrics: reg,
	}
}

type matchRow struct {
	scores     []float64
	degenerate []error // indexed like scores, nil where the score is regular
}

// Match evaluates the full cross product of prev's and curr's communities.
// Records come out in prev order, then curr order. Degenerate cells score 0
// and are logged and counted; they never fail the match.
func (m *Matcher) Match(prev, curr community.Snapshot, universe int) (*MatchResult, error) {
	if prev.Partition == nil || curr.Partition == nil {
		return nil, fmt.Errorf("match %s -> %s: %w", prev.Date, curr.Date, ErrNilPartition)
	}

	start := time.Now()
	prevIDs := prev.Partition.Communities()
	currIDs := curr.Partition.Communities()

	rows, err := parallel.Map(m.opts.Workers, len(prevIDs), func(i int) (matchRow, error) {
		a := prev.Partition.Members(prevIDs[i])
		row := matchRow{
			scores:     make([]float64, len(currIDs)),
			degenerate: make([]error, len(currIDs)),
		}
		for j, id := range currIDs {
			score, err := similarity.Score(a, curr.Partition.Members(id), universe)
			if err != nil {
				if !errors.Is(err, similarity.ErrDegenerateInput) {
					return matchRow{}, err
				}
				row.degenerate[j] = err
				score = 0
			}
			row.scores[j] = score
		}
		return row, nil
	})
	if err != nil {
		return nil, fmt.Errorf("match %s -> %s: %w", prev.Date, curr.Date, err)
	}

	result := &MatchResult{
		Universe:    universe,
		Evaluations: len(prevIDs) * len(currIDs),
		Matrix:      make([][]float64, len(prevIDs)),
	}

	for i, row := range rows {
		result.Matrix[i] = row.scores
		for j, score := range row.scores {
			if row.degenerate[j] != nil {
				result.Degenerate++
				m.logDegenerate(prev, curr, prevIDs[i], currIDs[j], universe, row.degenerate[j])
			}
			if score >= m.opts.Threshold {
				result.Records = append(result.Records, Correspondence{
					PrevDate:      prev.Date,
					PrevCommunity: prevIDs[i],
					CurrDate:      curr.Date,
					CurrCommunity: currIDs[j],
					Similarity:    score,
				})
			}
		}
	}

	elapsed := time.Since(start)
	if m.metrics != nil {
		m.metrics.RecordMatch(result.Evaluations, len(result.Records), result.Degenerate, universe, elapsed)
	}
	best := 0.0
	for _, r := range result.Records {
		best = max(best, r.Similarity)
	}
	m.logger.Debug("snapshots matched",
		logging.PrevDate(prev.Date),
		logging.Date(curr.Date),
		logging.Universe(universe),
		logging.Int("evaluations", result.Evaluations),
		logging.Int("emitted", len(result.Records)),
		logging.Int("degenerate", result.Degenerate),
		logging.Similarity(best),
		logging.Latency(elapsed))

	return result, nil
}

func (m *Matcher) logDegenerate(prev, curr community.Snapshot, prevID, currID community.ID, universe int, err error) {
	fields := []logging.Field{
		logging.PrevDate(prev.Date),
		logging.PrevCommunity(string(prevID)),
		logging.Date(curr.Date),
		logging.Community(string(currID)),
		logging.Universe(universe),
		logging.Error(err),
	}
	if m.opts.QuietDegenerate {
		m.logger.Debug("degenerate similarity, scored 0", fields...)
		return
	}
	m.logger.Warn("degenerate similarity, scored 0", fields...)
}
