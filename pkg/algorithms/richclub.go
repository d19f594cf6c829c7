package algorithms

import (
	"math"
	"slices"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// RichClubLevel is the rich-club coefficient at one degree threshold
type RichClubLevel struct {
	Degree int
	Phi    float64
}

// DirectedRichClub computes the rich-club coefficient φ(k) for every distinct
// total degree k present in g. Rich nodes at level k are those whose in-degree
// or out-degree is at least k; φ(k) is the density of the subgraph they induce
// using the directed maximum n(n-1). Fewer than two rich nodes gives φ(k) = 0.
// Graphs with fewer than two nodes have no levels.
func DirectedRichClub(g *graph.Graph) []RichClubLevel {
	nodes := g.Nodes()
	if len(nodes) < 2 {
		return nil
	}

	seen := make(map[int]struct{})
	degrees := make([]int, 0)
	for _, id := range nodes {
		d := g.Degree(id)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			degrees = append(degrees, d)
		}
	}
	slices.Sort(degrees)

	levels := make([]RichClubLevel, 0, len(degrees))
	for _, k := range degrees {
		rich := make([]community.NodeID, 0, len(nodes))
		for _, id := range nodes {
			if g.InDegree(id) >= k || g.OutDegree(id) >= k {
				rich = append(rich, id)
			}
		}

		if len(rich) < 2 {
			levels = append(levels, RichClubLevel{Degree: k, Phi: 0})
			continue
		}

		edges := g.Subgraph(rich).EdgeCount()
		maxEdges := len(rich) * (len(rich) - 1)
		levels = append(levels, RichClubLevel{Degree: k, Phi: float64(edges) / float64(maxEdges)})
	}

	return levels
}

// MeanRichClub averages φ over all levels. No levels yields NaN.
func MeanRichClub(levels []RichClubLevel) float64 {
	if len(levels) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, l := range levels {
		sum += l.Phi
	}
	return sum / float64(len(levels))
}
