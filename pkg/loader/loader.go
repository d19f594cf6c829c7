package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
)

// CSVLoader reads snapshots laid out according to a Layout. It satisfies
// tracking.Loader.
type CSVLoader struct {
	layout Layout
	logger logging.Logger

	cache  *lru.Cache[string, *PartitionData]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCSVLoader creates a loader. A nil logger discards output.
func NewCSVLoader(layout Layout, logger logging.Logger) *CSVLoader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CSVLoader{
		layout: layout,
		logger: logger.With(logging.Component("loader")),
	}
}

// Layout returns the loader's file layout
func (l *CSVLoader) Layout() Layout {
	return l.layout
}

// EnableCache keeps up to size parsed partitions in memory, so a date read by
// both tracking and description is parsed once. size <= 0 disables the cache.
// Cached partitions are shared and must not be modified.
func (l *CSVLoader) EnableCache(size int) error {
	if size <= 0 {
		l.cache = nil
		return nil
	}
	cache, err := lru.New[string, *PartitionData](size)
	if err != nil {
		return fmt.Errorf("partition cache: %w", err)
	}
	l.cache = cache
	return nil
}

// CacheStats returns partition cache hits and misses
func (l *CSVLoader) CacheStats() (hits, misses uint64) {
	return l.hits.Load(), l.misses.Load()
}

// Load returns the partition for date. A missing file yields an error
// wrapping community.ErrSnapshotNotFound.
func (l *CSVLoader) Load(date string) (*community.Partition, error) {
	data, err := l.LoadPartition(date)
	if err != nil {
		return nil, err
	}
	return data.Partition, nil
}

// LoadPartition returns the partition and cone covariate for date
func (l *CSVLoader) LoadPartition(date string) (*PartitionData, error) {
	if l.cache != nil {
		if data, ok := l.cache.Get(date); ok {
			l.hits.Add(1)
			return data, nil
		}
		l.misses.Add(1)
	}

	path := l.layout.PartitionPath(date)
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ReadPartition(f)
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", path, err)
	}

	l.logger.Debug("partition read",
		logging.Date(date),
		logging.Path(path),
		logging.Int("communities", data.Partition.Len()),
		logging.Int("nodes", data.Partition.NodeCount()),
		logging.Bool("cone", data.Cone != nil))

	if l.cache != nil {
		l.cache.Add(date, data)
	}
	return data, nil
}

// LoadGraph returns the snapshot graph for date. A missing file yields an
// error wrapping community.ErrSnapshotNotFound.
func (l *CSVLoader) LoadGraph(date string) (*graph.Graph, error) {
	path := l.layout.EdgesPath(date)
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, stats, err := ReadEdges(f)
	if err != nil {
		return nil, fmt.Errorf("edges %s: %w", path, err)
	}

	fields := []logging.Field{
		logging.Date(date),
		logging.Path(path),
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", stats.Edges),
	}
	if stats.SelfLoops > 0 || stats.Duplicates > 0 {
		l.logger.Warn("edge list had dropped rows", append(fields,
			logging.Int("self_loops", stats.SelfLoops),
			logging.Int("duplicates", stats.Duplicates))...)
	} else {
		l.logger.Debug("edge list read", fields...)
	}
	return g, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, community.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
