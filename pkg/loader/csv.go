package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// Column names recognised in partition and edge files
const (
	ColumnID        = "id"
	ColumnCommunity = "community"
	ColumnCone      = "cone"
	ColumnSource    = "source"
	ColumnTarget    = "target"
)

// PartitionData is the content of one partition file
type PartitionData struct {
	Partition *community.Partition
	// Cone holds the cone covariate; nil when the file has no cone column
	Cone map[community.NodeID]float64
}

// ReadPartition parses a CSV with a header naming at least the id and
// community columns. Column order is free and unknown columns are ignored.
// Communities keep the order in which they first appear. Rows with a blank
// cone cell carry no cone value.
func ReadPartition(r io.Reader) (*PartitionData, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &PartitionData{Partition: community.NewPartition()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", community.ErrMalformedPartition, err)
	}

	cols := columnIndex(header)
	idCol, ok := cols[ColumnID]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q column", community.ErrMalformedPartition, ColumnID)
	}
	commCol, ok := cols[ColumnCommunity]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q column", community.ErrMalformedPartition, ColumnCommunity)
	}
	coneCol, hasCone := cols[ColumnCone]

	data := &PartitionData{Partition: community.NewPartition()}
	if hasCone {
		data.Cone = make(map[community.NodeID]float64)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", community.ErrMalformedPartition, line, err)
		}

		id, err := parseNodeID(rec[idCol])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", community.ErrMalformedPartition, line, err)
		}
		comm := strings.TrimSpace(rec[commCol])
		if comm == "" {
			return nil, fmt.Errorf("%w: line %d: node %d has no community", community.ErrMalformedPartition, line, id)
		}
		if err := data.Partition.Add(community.ID(comm), id); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if hasCone {
			raw := strings.TrimSpace(rec[coneCol])
			if raw == "" {
				continue
			}
			cone, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: cone %q: %v", community.ErrMalformedPartition, line, raw, err)
			}
			data.Cone[id] = cone
		}
	}

	return data, nil
}

// EdgeStats reports what ReadEdges kept and dropped
type EdgeStats struct {
	Edges      int
	SelfLoops  int
	Duplicates int
}

// ReadEdges parses a directed edge list with source and target columns.
// Self-loops and repeated edges are dropped and counted.
func ReadEdges(r io.Reader) (*graph.Graph, EdgeStats, error) {
	var stats EdgeStats

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	g := graph.New()
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return g, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read edge header: %w", err)
	}

	cols := columnIndex(header)
	srcCol, ok := cols[ColumnSource]
	if !ok {
		return nil, stats, fmt.Errorf("edge list: missing %q column", ColumnSource)
	}
	dstCol, ok := cols[ColumnTarget]
	if !ok {
		return nil, stats, fmt.Errorf("edge list: missing %q column", ColumnTarget)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("edge list line %d: %w", line, err)
		}

		from, err := parseNodeID(rec[srcCol])
		if err != nil {
			return nil, stats, fmt.Errorf("edge list line %d: %w", line, err)
		}
		to, err := parseNodeID(rec[dstCol])
		if err != nil {
			return nil, stats, fmt.Errorf("edge list line %d: %w", line, err)
		}

		if g.HasEdge(from, to) {
			stats.Duplicates++
			continue
		}
		if err := g.AddEdge(from, to); err != nil {
			if errors.Is(err, graph.ErrSelfLoop) {
				stats.SelfLoops++
				continue
			}
			return nil, stats, fmt.Errorf("edge list line %d: %w", line, err)
		}
		stats.Edges++
	}

	return g, stats, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func parseNodeID(s string) (community.NodeID, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		// integer ids exported through a float column, e.g. "42.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f < 0 || f != float64(uint64(f)) {
			return 0, fmt.Errorf("node id %q: not a non-negative integer", s)
		}
		return community.NodeID(f), nil
	}
	return community.NodeID(id), nil
}
