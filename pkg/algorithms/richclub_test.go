package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

func nodeID(id uint64) community.NodeID {
	return community.NodeID(id)
}

func TestDirectedRichClub_TooSmall(t *testing.T) {
	g := graph.New()
	g.AddNode(1)

	levels := DirectedRichClub(g)
	if len(levels) != 0 {
		t.Errorf("Expected no levels for a single node, got %v", levels)
	}
	if !math.IsNaN(MeanRichClub(levels)) {
		t.Error("Expected NaN mean for no levels")
	}
}

func TestDirectedRichClub_SingleEdge(t *testing.T) {
	g := buildTestGraph(t, e(1, 2))

	levels := DirectedRichClub(g)
	if len(levels) != 1 || levels[0].Degree != 1 {
		t.Fatalf("Expected one level at k=1, got %v", levels)
	}
	if math.Abs(levels[0].Phi-0.5) > 1e-12 {
		t.Errorf("Expected phi 0.5, got %f", levels[0].Phi)
	}
}

func TestDirectedRichClub_Levels(t *testing.T) {
	// Degrees: 1 -> 3, 2 -> 2, 3 -> 3
	g := buildTestGraph(t, e(1, 2), e(1, 3), e(2, 3), e(3, 1))

	levels := DirectedRichClub(g)
	if len(levels) != 2 {
		t.Fatalf("Expected 2 levels, got %v", levels)
	}

	// k=2: nodes 1 (out 2) and 3 (in 2), edges 1->3 and 3->1
	if levels[0].Degree != 2 || math.Abs(levels[0].Phi-1) > 1e-12 {
		t.Errorf("Expected phi(2)=1, got %+v", levels[0])
	}
	// k=3: no node reaches in- or out-degree 3
	if levels[1].Degree != 3 || levels[1].Phi != 0 {
		t.Errorf("Expected phi(3)=0, got %+v", levels[1])
	}

	if mean := MeanRichClub(levels); math.Abs(mean-0.5) > 1e-12 {
		t.Errorf("Expected mean 0.5, got %f", mean)
	}
}

func TestDirectedRichClub_IsolatedNodesIncludeZeroDegree(t *testing.T) {
	g := graph.New()
	g.AddNode(1)
	g.AddNode(2)

	levels := DirectedRichClub(g)
	if len(levels) != 1 || levels[0].Degree != 0 {
		t.Fatalf("Expected a single k=0 level, got %v", levels)
	}
	if levels[0].Phi != 0 {
		t.Errorf("Expected phi 0 with no edges, got %f", levels[0].Phi)
	}
}
