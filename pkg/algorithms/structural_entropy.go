package algorithms

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// DefaultEntropyFloor keeps log terms finite for zero-degree nodes
const DefaultEntropyFloor = 1e-10

// StructuralEntropy returns the normalised degree entropy of g in [0,1].
//
// Each node's importance is its share of the total degree, floored at floor.
// The Shannon entropy E of those shares is scaled between E_min = ln(4(N-1))/2
// (star-like) and E_max = ln(N) (perfectly even) and clamped. Graphs with fewer
// than three nodes, no edges, or coinciding bounds score 0.
func StructuralEntropy(g *graph.Graph, floor float64) float64 {
	nodes := g.Nodes()
	n := len(nodes)
	if n < 3 {
		return 0
	}

	total := 0
	for _, id := range nodes {
		total += g.Degree(id)
	}
	if total == 0 {
		return 0
	}

	importance := make([]float64, n)
	for i, id := range nodes {
		importance[i] = math.Max(float64(g.Degree(id))/float64(total), floor)
	}

	e := stat.Entropy(importance)
	eMax := math.Log(float64(n))
	eMin := math.Log(4*float64(n-1)) / 2
	if eMax == eMin {
		return 0
	}

	normalized := (e - eMin) / (eMax - eMin)
	return math.Max(0, math.Min(1, normalized))
}
