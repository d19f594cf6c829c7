package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

func TestClusteringCoefficient_CompleteDigraph(t *testing.T) {
	g := completeDigraph(t, 4)

	for id, c := range ClusteringCoefficient(g) {
		if math.Abs(c-1) > 1e-12 {
			t.Errorf("Node %d: expected clustering 1, got %f", id, c)
		}
	}
}

func TestClusteringCoefficient_DirectedCycle(t *testing.T) {
	g := buildTestGraph(t, e(1, 2), e(2, 3), e(3, 1))

	for id, c := range ClusteringCoefficient(g) {
		if math.Abs(c-0.5) > 1e-12 {
			t.Errorf("Node %d: expected clustering 0.5, got %f", id, c)
		}
	}
}

func TestClusteringCoefficient_Path(t *testing.T) {
	g := buildTestGraph(t, e(1, 2), e(2, 3))

	if avg := AverageClusteringCoefficient(g); avg != 0 {
		t.Errorf("Expected 0 clustering on a path, got %f", avg)
	}
}

func TestAverageClusteringCoefficient_Empty(t *testing.T) {
	if avg := AverageClusteringCoefficient(graph.New()); avg != 0 {
		t.Errorf("Expected 0 for empty graph, got %f", avg)
	}
}

func TestAverageClusteringCoefficient_Mixed(t *testing.T) {
	// Reciprocated triangle 1,2,3 plus pendant 4 hanging off 3
	g := buildTestGraph(t,
		e(1, 2), e(2, 1), e(2, 3), e(3, 2), e(1, 3), e(3, 1),
		e(3, 4),
	)

	cc := ClusteringCoefficient(g)
	if math.Abs(cc[1]-1) > 1e-12 || math.Abs(cc[2]-1) > 1e-12 {
		t.Errorf("Expected 1 for nodes 1 and 2, got %f and %f", cc[1], cc[2])
	}
	// Node 3: 16 directed triangles over (5*4 - 2*2)*2 = 32
	if math.Abs(cc[3]-0.5) > 1e-12 {
		t.Errorf("Expected 0.5 for node 3, got %f", cc[3])
	}
	if cc[4] != 0 {
		t.Errorf("Expected 0 for pendant node, got %f", cc[4])
	}

	if avg := AverageClusteringCoefficient(g); math.Abs(avg-0.625) > 1e-12 {
		t.Errorf("Expected average 0.625, got %f", avg)
	}
}
