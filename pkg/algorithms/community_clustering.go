package algorithms

import (
	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// ClusteringCoefficient computes the directed local clustering coefficient of
// every node (Fagiolo 2007): directed triangles through the node over the
// number of triangles its total and reciprocated degree allow.
func ClusteringCoefficient(g *graph.Graph) map[community.NodeID]float64 {
	nodes := g.Nodes()
	coefficients := make(map[community.NodeID]float64, len(nodes))

	// Pre-build predecessor and successor sets once
	preds := make(map[community.NodeID]map[community.NodeID]bool, len(nodes))
	succs := make(map[community.NodeID]map[community.NodeID]bool, len(nodes))
	for _, id := range nodes {
		preds[id] = toSet(g.Predecessors(id))
		succs[id] = toSet(g.Successors(id))
	}

	for _, i := range nodes {
		ipreds, isuccs := preds[i], succs[i]

		// Every neighbour j contributes the common neighbours of i and j,
		// counted once per direction combination.
		triangles := 0
		visit := func(j community.NodeID) {
			jpreds, jsuccs := preds[j], succs[j]
			triangles += intersectionCount(ipreds, jpreds)
			triangles += intersectionCount(ipreds, jsuccs)
			triangles += intersectionCount(isuccs, jpreds)
			triangles += intersectionCount(isuccs, jsuccs)
		}
		for j := range ipreds {
			visit(j)
		}
		for j := range isuccs {
			visit(j)
		}

		total := len(ipreds) + len(isuccs)
		bidirectional := intersectionCount(ipreds, isuccs)

		possible := (total*(total-1) - 2*bidirectional) * 2
		if triangles == 0 || possible == 0 {
			coefficients[i] = 0.0
			continue
		}
		coefficients[i] = float64(triangles) / float64(possible)
	}

	return coefficients
}

// AverageClusteringCoefficient computes the mean clustering coefficient over
// all nodes, zeros included. An empty graph yields 0.
func AverageClusteringCoefficient(g *graph.Graph) float64 {
	coefficients := ClusteringCoefficient(g)
	if len(coefficients) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, coef := range coefficients {
		sum += coef
	}
	return sum / float64(len(coefficients))
}

func toSet(ids []community.NodeID) map[community.NodeID]bool {
	set := make(map[community.NodeID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func intersectionCount(a, b map[community.NodeID]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if b[id] {
			n++
		}
	}
	return n
}
