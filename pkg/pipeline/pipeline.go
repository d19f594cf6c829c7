// Package pipeline wires configuration, loaders, the tracker, the descriptor
// engine and the result sinks into the batch jobs the CLI exposes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-supernode/pkg/algorithms"
	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/config"
	"github.com/dd0wney/cluso-supernode/pkg/loader"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
	"github.com/dd0wney/cluso-supernode/pkg/metrics"
	"github.com/dd0wney/cluso-supernode/pkg/sink"
	"github.com/dd0wney/cluso-supernode/pkg/supernode"
	"github.com/dd0wney/cluso-supernode/pkg/tracking"
	"github.com/dd0wney/cluso-supernode/pkg/visualization"
)

// Detection methods accepted in config.DetectionConfig
const (
	MethodLabelPropagation = "label-propagation"
	MethodComponents       = "components"
)

// Runner executes tracking and description jobs for one configuration
type Runner struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	loader  *loader.CSVLoader
}

// Described is one snapshot's supernode table
type Described struct {
	Date    string
	Records []supernode.Record
}

// Detected summarises one partition generated from an edge list
type Detected struct {
	Date        string
	Path        string
	Communities int
	Modularity  float64
	Iterations  int
	Converged   bool
}

// Report summarises a full run
type Report struct {
	RunID     string
	Tracking  *tracking.Result
	Described []Described
}

// New creates a Runner. cfg must already be validated. A nil logger falls back
// to the process default; a nil registry disables metrics.
func New(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) *Runner {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	layout := loader.Layout{
		Root:             cfg.Data.Root,
		PartitionPattern: cfg.Data.PartitionPattern,
		EdgesPattern:     cfg.Data.EdgesPattern,
	}
	csvLoader := loader.NewCSVLoader(layout, logger)
	if err := csvLoader.EnableCache(cfg.Data.CacheSize); err != nil {
		logger.Warn("partition cache disabled", logging.Error(err))
	}
	return &Runner{
		cfg:     cfg,
		logger:  logger,
		metrics: reg,
		loader:  csvLoader,
	}
}

// Dates returns the configured dates, or the sub-directories of the data root
// when none are configured
func (r *Runner) Dates() ([]string, error) {
	if len(r.cfg.Data.Dates) > 0 {
		return r.cfg.Data.Dates, nil
	}
	return loader.DiscoverDates(r.cfg.Data.Root)
}

// Track runs correspondence tracking and writes the enabled sinks
func (r *Runner) Track(ctx context.Context) (*tracking.Result, error) {
	dates, err := r.Dates()
	if err != nil {
		return nil, err
	}

	policy, err := tracking.ParsePolicy(r.cfg.Tracking.UniversePolicy)
	if err != nil {
		return nil, err
	}
	tracker, err := tracking.NewTracker(tracking.Options{
		Threshold:       r.cfg.Tracking.Threshold,
		Policy:          policy,
		UniverseSize:    r.cfg.Tracking.UniverseSize,
		Workers:         r.cfg.Workers,
		QuietDegenerate: r.cfg.Tracking.QuietDegenerate,
	}, r.logger, r.metrics)
	if err != nil {
		return nil, err
	}

	result, err := tracker.Track(dates, r.loader)
	if err != nil {
		return nil, err
	}

	if path := r.cfg.Output.CorrespondenceCSV; path != "" {
		if err := sink.WriteCorrespondencesFile(path, result.Records); err != nil {
			return nil, err
		}
		r.logger.Info("correspondences written", logging.Path(path), logging.Count(len(result.Records)))
	}

	if err := r.withStore(func(s *sink.Store) error {
		return s.SaveCorrespondences(ctx, result.RunID, result.Records)
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Describe computes supernode records for every loadable date and writes the
// enabled sinks. An empty runID gets a fresh one.
func (r *Runner) Describe(ctx context.Context, runID string) ([]Described, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	log := r.logger.With(logging.RunID(runID))

	dates, err := r.Dates()
	if err != nil {
		return nil, err
	}

	inputs := make([]supernode.Input, 0, len(dates))
	for _, date := range dates {
		in, ok, err := r.loadInput(date, log)
		if err != nil {
			return nil, err
		}
		if ok {
			inputs = append(inputs, in)
		}
	}

	engine := supernode.NewEngine(r.engineOptions(), log, r.metrics)

	tables, err := engine.DescribeAll(inputs)
	if err != nil {
		return nil, err
	}

	described := make([]Described, len(inputs))
	for i, in := range inputs {
		described[i] = Described{Date: in.Snapshot.Date, Records: tables[i]}
	}

	if err := r.writeDescribed(ctx, runID, described, log); err != nil {
		return nil, err
	}
	return described, nil
}

// Detect writes a partition file for each date from its edge list, using the
// configured method. Dates without an edge list are skipped with a warning.
// Existing partition files are kept unless Detection.Overwrite is set.
func (r *Runner) Detect(ctx context.Context) ([]Detected, error) {
	dates, err := r.Dates()
	if err != nil {
		return nil, err
	}

	method := r.cfg.Detection.Method
	log := r.logger.With(logging.Component("detect"), logging.String("method", method))

	var detected []Detected
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !r.cfg.Detection.Overwrite {
			path := r.loader.Layout().PartitionPath(date)
			if _, err := os.Stat(path); err == nil {
				log.Info("partition exists, not regenerated", logging.Date(date), logging.Path(path))
				continue
			}
		}

		g, err := r.loader.LoadGraph(date)
		if errors.Is(err, community.ErrSnapshotNotFound) {
			log.Warn("edge list missing, no partition generated", logging.Date(date))
			continue
		}
		if err != nil {
			return nil, err
		}

		var result *algorithms.CommunityDetectionResult
		switch method {
		case MethodComponents:
			result = algorithms.ConnectedComponents(g)
		default:
			result = algorithms.LabelPropagation(g, r.cfg.Detection.MaxIterations)
		}

		if !result.Converged {
			log.Warn("label propagation hit the iteration limit, partition may be unstable",
				logging.Date(date),
				logging.Int("max_iterations", r.cfg.Detection.MaxIterations))
		}

		path, err := r.loader.SavePartition(date, result.Partition)
		if err != nil {
			return nil, err
		}
		if r.metrics != nil {
			r.metrics.RecordDetection(method, result.Modularity)
		}

		log.Info("partition generated",
			logging.Date(date),
			logging.Path(path),
			logging.Int("communities", result.Partition.Len()),
			logging.Int("iterations", result.Iterations),
			logging.Float64("modularity", result.Modularity))

		detected = append(detected, Detected{
			Date:        date,
			Path:        path,
			Communities: result.Partition.Len(),
			Modularity:  result.Modularity,
			Iterations:  result.Iterations,
			Converged:   result.Converged,
		})
	}
	return detected, nil
}

// engineOptions maps the descriptor config onto engine options. Epsilon guards
// both the influence entropies and the structural entropy floor.
func (r *Runner) engineOptions() supernode.Options {
	return supernode.Options{
		RadiusRange:  r.cfg.Descriptor.RadiusRange,
		Epsilon:      r.cfg.Descriptor.Epsilon,
		EntropyFloor: r.cfg.Descriptor.Epsilon,
		PageRank:     r.cfg.Descriptor.PageRank,
		Workers:      r.cfg.Workers,
	}
}

// Run tracks and then describes under a single run ID
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	result, err := r.Track(ctx)
	if err != nil {
		return nil, err
	}
	described, err := r.Describe(ctx, result.RunID)
	if err != nil {
		return nil, err
	}
	if r.cfg.Data.CacheSize > 0 {
		hits, misses := r.loader.CacheStats()
		r.logger.Debug("partition cache",
			logging.Uint64("hits", hits),
			logging.Uint64("misses", misses))
	}
	return &Report{RunID: result.RunID, Tracking: result, Described: described}, nil
}

// loadInput reads partition, cone and graph for date. ok is false when the
// partition is missing or empty. A missing edge list only drops topology.
func (r *Runner) loadInput(date string, log logging.Logger) (supernode.Input, bool, error) {
	data, err := r.loader.LoadPartition(date)
	if errors.Is(err, community.ErrSnapshotNotFound) {
		log.Warn("snapshot missing, not described", logging.Date(date))
		return supernode.Input{}, false, nil
	}
	if err != nil {
		return supernode.Input{}, false, err
	}
	if data.Partition.Len() == 0 {
		log.Warn("snapshot empty, not described", logging.Date(date))
		return supernode.Input{}, false, nil
	}

	g, err := r.loader.LoadGraph(date)
	if errors.Is(err, community.ErrSnapshotNotFound) {
		log.Warn("edge list missing, topology unavailable", logging.Date(date))
	} else if err != nil {
		return supernode.Input{}, false, err
	}

	return supernode.Input{
		Snapshot:   community.Snapshot{Date: date, Partition: data.Partition},
		Graph:      g,
		Covariates: supernode.Covariates{Cone: data.Cone},
	}, true, nil
}

func (r *Runner) writeDescribed(ctx context.Context, runID string, described []Described, log logging.Logger) error {
	if err := r.withStore(func(s *sink.Store) error {
		for _, d := range described {
			if err := s.SaveSupernodes(ctx, runID, d.Date, d.Records); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if dir := r.cfg.Output.ArchiveDir; dir != "" {
		archive, err := sink.NewArchive(dir)
		if err != nil {
			return err
		}
		for _, d := range described {
			if err := archive.Write(runID, d.Date, d.Records); err != nil {
				return err
			}
		}
		log.Info("supernodes archived",
			logging.Path(dir),
			logging.Count(len(described)),
			logging.Float64("compression_ratio", archive.CompressionRatio()))
	}

	if dir := r.cfg.Output.PlacementDir; dir != "" {
		if err := r.writePlacements(dir, described); err != nil {
			return err
		}
		log.Info("placements written", logging.Path(dir), logging.Count(len(described)))
	}
	return nil
}

func (r *Runner) writePlacements(dir string, described []Described) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	layout := visualization.NewPolarLayout(&visualization.LayoutConfig{
		Width:     r.cfg.Layout.Width,
		Height:    r.cfg.Layout.Height,
		Padding:   r.cfg.Layout.Padding,
		MaxRadius: r.cfg.Descriptor.RadiusRange,
	})

	for _, d := range described {
		placements, err := layout.ComputeLayout(d.Records)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, "supernodes"+d.Date+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := visualization.WritePlacements(f, placements); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	return nil
}

// withStore runs fn against the configured SQLite store, if any
func (r *Runner) withStore(fn func(*sink.Store) error) error {
	path := r.cfg.Output.SQLitePath
	if path == "" {
		return nil
	}
	store, err := sink.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := fn(store); err != nil {
		return err
	}
	r.logger.Info("results stored", logging.Path(path))
	return nil
}
