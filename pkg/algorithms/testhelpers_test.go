package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// buildTestGraph creates a directed graph from an edge list
func buildTestGraph(t *testing.T, edges ...[2]community.NodeID) *graph.Graph {
	t.Helper()

	g := graph.New()
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("Failed to add edge %v: %v", e, err)
		}
	}
	return g
}

// completeDigraph creates a graph with every ordered pair of n nodes connected
func completeDigraph(t *testing.T, n int) *graph.Graph {
	t.Helper()

	edges := make([][2]community.NodeID, 0, n*(n-1))
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if i != j {
				edges = append(edges, [2]community.NodeID{community.NodeID(i), community.NodeID(j)})
			}
		}
	}
	return buildTestGraph(t, edges...)
}

func e(from, to community.NodeID) [2]community.NodeID {
	return [2]community.NodeID{from, to}
}
