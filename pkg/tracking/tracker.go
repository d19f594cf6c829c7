package tracking

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
	"github.com/dd0wney/cluso-supernode/pkg/metrics"
)

// ErrInvalidOptions is returned by NewTracker for unusable options
var ErrInvalidOptions = errors.New("invalid tracker options")

// Loader supplies the partition of one snapshot. Returning an error wrapping
// community.ErrSnapshotNotFound, or an empty partition, makes the tracker skip
// the date. Any other error ends the run.
type Loader interface {
	Load(date string) (*community.Partition, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(date string) (*community.Partition, error)

// Load calls f(date)
func (f LoaderFunc) Load(date string) (*community.Partition, error) {
	return f(date)
}

// Options configures a Tracker
type Options struct {
	Threshold       float64
	Policy          UniversePolicy
	UniverseSize    int // used by PolicyFixed
	Workers         int
	QuietDegenerate bool
}

// DefaultOptions returns the defaults: threshold 0, per-pair universe, one worker
func DefaultOptions() Options {
	return Options{
		Threshold: 0,
		Policy:    PolicyPerPair,
		Workers:   1,
	}
}

// Result is the outcome of one tracking run
type Result struct {
	RunID       string
	Records     []Correspondence
	Loaded      []string // dates that took part, in order
	Skipped     []string // dates skipped for missing or empty data
	Pairs       []PairSummary
	Evaluations int
	Degenerate  int
}

// PairSummary describes one adjacent-pair comparison of a run
type PairSummary struct {
	PrevDate    string
	CurrDate    string
	Universe    int
	Evaluations int
	Emitted     int
	Degenerate  int
}

// Tracker walks snapshots in date order and matches each loaded snapshot
// against the previous loaded one. Skipped dates do not break the chain: the
// snapshots either side of them are treated as adjacent.
type Tracker struct {
	opts    Options
	matcher *Matcher
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewTracker validates opts and creates a Tracker
func NewTracker(opts Options, logger logging.Logger, reg *metrics.Registry) (*Tracker, error) {
	policy, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	opts.Policy = policy
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidOptions, opts.Threshold)
	}
	if opts.Policy == PolicyFixed && opts.UniverseSize <= 0 {
		return nil, fmt.Errorf("%w: fixed universe policy needs a positive universe size", ErrInvalidOptions)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Tracker{
		opts: opts,
		matcher: NewMatcher(MatcherOptions{
			Threshold:       opts.Threshold,
			Workers:         opts.Workers,
			QuietDegenerate: opts.QuietDegenerate,
		}, logger, reg),
		logger:  logger.With(logging.Component("tracker")),
		metrics: reg,
	}, nil
}

// Track runs correspondence over dates. Dates are processed in ascending order
// whatever order they are given in. At most two partitions are held at a time.
func (t *Tracker) Track(dates []string, loader Loader) (*Result, error) {
	ordered := slices.Clone(dates)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	result := &Result{RunID: uuid.NewString()}
	log := t.logger.With(logging.RunID(result.RunID))
	timer := logging.StartTimer(log, "tracking run",
		logging.Int("dates", len(ordered)),
		logging.String("policy", string(t.opts.Policy)),
		logging.Threshold(t.opts.Threshold))

	u := &universe{policy: t.opts.Policy, fixed: t.opts.UniverseSize}
	if t.opts.Policy == PolicyGlobal {
		total, err := t.countMembers(ordered, loader, log)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		u.total = total
		log.Info("global universe counted", logging.Universe(total))
	}

	var prev *community.Snapshot
	for _, date := range ordered {
		part, ok, err := t.load(date, loader, log)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		if !ok {
			result.Skipped = append(result.Skipped, date)
			continue
		}

		result.Loaded = append(result.Loaded, date)
		u.observe(part)
		curr := &community.Snapshot{Date: date, Partition: part}

		if prev != nil {
			n := u.size(prev.Partition, curr.Partition)
			match, err := t.matcher.Match(*prev, *curr, n)
			if err != nil {
				timer.EndError(err)
				return nil, err
			}
			result.Pairs = append(result.Pairs, PairSummary{
				PrevDate:    prev.Date,
				CurrDate:    date,
				Universe:    n,
				Evaluations: match.Evaluations,
				Emitted:     len(match.Records),
				Degenerate:  match.Degenerate,
			})
			result.Evaluations += match.Evaluations
			result.Degenerate += match.Degenerate
			result.Records = append(result.Records, match.Records...)

			log.Info("pair matched",
				logging.PrevDate(prev.Date),
				logging.Date(date),
				logging.Universe(n),
				logging.Int("emitted", len(match.Records)))
		}
		prev = curr
	}

	if len(result.Loaded) < 2 {
		log.Warn("fewer than two snapshots loaded, no correspondences produced",
			logging.Int("loaded", len(result.Loaded)))
	}

	timer.End(
		logging.Int("loaded", len(result.Loaded)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Int("correspondences", len(result.Records)),
		logging.Int("degenerate", result.Degenerate))
	return result, nil
}

// load fetches one partition. ok is false when the date should be skipped.
func (t *Tracker) load(date string, loader Loader, log logging.Logger) (*community.Partition, bool, error) {
	part, err := loader.Load(date)
	switch {
	case errors.Is(err, community.ErrSnapshotNotFound):
		log.Warn("snapshot missing, skipped", logging.Date(date), logging.Error(err))
		t.recordSkip(metrics.SkipReasonMissing)
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("load snapshot %s: %w", date, err)
	case part == nil || part.Len() == 0:
		log.Warn("snapshot empty, skipped", logging.Date(date))
		t.recordSkip(metrics.SkipReasonEmpty)
		return nil, false, nil
	}

	if t.metrics != nil {
		t.metrics.RecordSnapshotLoaded()
	}
	log.Debug("snapshot loaded",
		logging.Date(date),
		logging.Int("communities", part.Len()),
		logging.Int("nodes", part.NodeCount()))
	return part, true, nil
}

// countMembers sums member counts over every loadable date without keeping
// the partitions
func (t *Tracker) countMembers(dates []string, loader Loader, log logging.Logger) (int, error) {
	total := 0
	for _, date := range dates {
		part, err := loader.Load(date)
		switch {
		case errors.Is(err, community.ErrSnapshotNotFound):
			continue
		case err != nil:
			return 0, fmt.Errorf("count snapshot %s: %w", date, err)
		case part == nil:
			continue
		}
		total += part.NodeCount()
	}
	log.Debug("member count pass finished", logging.Count(total))
	return total, nil
}

func (t *Tracker) recordSkip(reason string) {
	if t.metrics != nil {
		t.metrics.RecordSnapshotSkipped(reason)
	}
}
