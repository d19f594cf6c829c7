package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

func TestBetweennessCentrality_Path(t *testing.T) {
	g := buildTestGraph(t, e(1, 2), e(2, 3))

	bc := BetweennessCentrality(g)

	if bc[1] != 0 || bc[3] != 0 {
		t.Errorf("Expected endpoints to have 0 betweenness, got %f and %f", bc[1], bc[3])
	}
	// One path (1->3) through node 2, normalised by (n-1)(n-2) = 2
	if math.Abs(bc[2]-0.5) > 1e-12 {
		t.Errorf("Expected middle node betweenness 0.5, got %f", bc[2])
	}
}

func TestBetweennessCentrality_SplitPaths(t *testing.T) {
	// Two equal shortest paths 1->2->4 and 1->3->4
	g := buildTestGraph(t, e(1, 2), e(1, 3), e(2, 4), e(3, 4))

	bc := BetweennessCentrality(g)

	// Each middle node carries half of one pair, normalised by 3*2
	want := 0.5 / 6.0
	if math.Abs(bc[2]-want) > 1e-12 || math.Abs(bc[3]-want) > 1e-12 {
		t.Errorf("Expected %f for nodes 2 and 3, got %f and %f", want, bc[2], bc[3])
	}
}

func TestBetweennessCentrality_Small(t *testing.T) {
	bc := BetweennessCentrality(graph.New())
	if len(bc) != 0 {
		t.Errorf("Expected empty result, got %d entries", len(bc))
	}

	bc = BetweennessCentrality(buildTestGraph(t, e(1, 2)))
	if bc[1] != 0 || bc[2] != 0 {
		t.Errorf("Expected zeros for a single edge, got %v", bc)
	}
}
