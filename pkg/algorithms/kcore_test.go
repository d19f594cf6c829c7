package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

func TestCoreNumber_Empty(t *testing.T) {
	if core := CoreNumber(graph.New()); len(core) != 0 {
		t.Errorf("Expected empty result, got %v", core)
	}
}

func TestCoreNumber_OutStar(t *testing.T) {
	g := buildTestGraph(t, e(1, 2), e(1, 3), e(1, 4))

	for id, k := range CoreNumber(g) {
		if k != 1 {
			t.Errorf("Node %d: expected core 1, got %d", id, k)
		}
	}
}

func TestCoreNumber_ReciprocatedTriangle(t *testing.T) {
	// Total degree 4 per node; reciprocated adjacency counts twice
	g := completeDigraph(t, 3)

	for id, k := range CoreNumber(g) {
		if k != 4 {
			t.Errorf("Node %d: expected core 4, got %d", id, k)
		}
	}
}

func TestCoreNumber_TriangleWithTail(t *testing.T) {
	// One-way triangle 1->2->3->1 with a tail 3->4->5
	g := buildTestGraph(t, e(1, 2), e(2, 3), e(3, 1), e(3, 4), e(4, 5))

	core := CoreNumber(g)
	want := map[uint64]int{1: 2, 2: 2, 3: 2, 4: 1, 5: 1}
	for id, k := range want {
		if got := core[nodeID(id)]; got != k {
			t.Errorf("Node %d: expected core %d, got %d", id, k, got)
		}
	}
}

func TestCoreNumber_IsolatedNode(t *testing.T) {
	g := buildTestGraph(t, e(1, 2))
	g.AddNode(3)

	core := CoreNumber(g)
	if core[3] != 0 {
		t.Errorf("Expected isolated node core 0, got %d", core[3])
	}
	if core[1] != 1 || core[2] != 1 {
		t.Errorf("Expected core 1 for edge endpoints, got %d and %d", core[1], core[2])
	}
}
