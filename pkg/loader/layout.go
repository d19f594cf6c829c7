// Package loader reads per-snapshot partitions, covariates and edge lists from
// a directory tree with one sub-directory per date.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DatePlaceholder is replaced by the snapshot date in path patterns
const DatePlaceholder = "{date}"

// Default path patterns, relative to the data root
const (
	DefaultPartitionPattern = "{date}/handle/rank{date}.csv"
	DefaultEdgesPattern     = "{date}/handle/edges{date}.csv"
)

// Layout locates snapshot files under Root
type Layout struct {
	Root             string
	PartitionPattern string
	EdgesPattern     string
}

// DefaultLayout returns the standard layout rooted at root
func DefaultLayout(root string) Layout {
	return Layout{
		Root:             root,
		PartitionPattern: DefaultPartitionPattern,
		EdgesPattern:     DefaultEdgesPattern,
	}
}

// PartitionPath returns the partition CSV path for date
func (l Layout) PartitionPath(date string) string {
	return l.expand(l.PartitionPattern, date)
}

// EdgesPath returns the edge-list CSV path for date
func (l Layout) EdgesPath(date string) string {
	return l.expand(l.EdgesPattern, date)
}

func (l Layout) expand(pattern, date string) string {
	return filepath.Join(l.Root, filepath.FromSlash(strings.ReplaceAll(pattern, DatePlaceholder, date)))
}

// DiscoverDates lists the sub-directories of root in ascending order. Hidden
// directories are ignored.
func DiscoverDates(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("discover dates in %s: %w", root, err)
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dates = append(dates, e.Name())
	}
	slices.Sort(dates)
	return dates, nil
}
