package graph

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-supernode/pkg/community"
)

// buildGraph creates a graph from an edge list
func buildGraph(t *testing.T, edges [][2]community.NodeID) *Graph {
	t.Helper()

	g := New()
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("Failed to add edge %v: %v", e, err)
		}
	}
	return g
}

func TestGraph_Degrees(t *testing.T) {
	g := buildGraph(t, [][2]community.NodeID{{1, 2}, {2, 1}, {1, 3}})

	if got := g.OutDegree(1); got != 2 {
		t.Errorf("Expected out-degree 2, got %d", got)
	}
	if got := g.InDegree(1); got != 1 {
		t.Errorf("Expected in-degree 1, got %d", got)
	}
	if got := g.Degree(1); got != 3 {
		t.Errorf("Expected degree 3, got %d", got)
	}
	if got := len(g.Neighbors(1)); got != 2 {
		t.Errorf("Expected 2 distinct neighbors, got %d", got)
	}
	if g.EdgeCount() != 3 {
		t.Errorf("Expected 3 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_DuplicateEdgeIgnored(t *testing.T) {
	g := buildGraph(t, [][2]community.NodeID{{1, 2}, {1, 2}})

	if g.EdgeCount() != 1 {
		t.Errorf("Expected duplicate edge to be ignored, got %d edges", g.EdgeCount())
	}
	if g.OutDegree(1) != 1 {
		t.Errorf("Expected out-degree 1, got %d", g.OutDegree(1))
	}
}

func TestGraph_SelfLoopRejected(t *testing.T) {
	g := New()
	err := g.AddEdge(1, 1)
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Expected ErrSelfLoop, got %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("Expected rejected edge to add no nodes, got %d", g.NodeCount())
	}
}

func TestGraph_InsertionOrder(t *testing.T) {
	g := New()
	g.AddNode(5)
	g.AddNode(1)
	g.AddNode(5)
	if err := g.AddEdge(3, 1); err != nil {
		t.Fatal(err)
	}

	want := []community.NodeID{5, 1, 3}
	got := g.Nodes()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Nodes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGraph_Subgraph(t *testing.T) {
	g := buildGraph(t, [][2]community.NodeID{{1, 2}, {2, 3}, {3, 1}, {3, 4}, {4, 5}})

	sub := g.Subgraph([]community.NodeID{1, 2, 3, 99})

	if sub.NodeCount() != 3 {
		t.Errorf("Expected 3 nodes (99 is absent), got %d", sub.NodeCount())
	}
	if sub.EdgeCount() != 3 {
		t.Errorf("Expected 3 induced edges, got %d", sub.EdgeCount())
	}
	if sub.HasEdge(3, 4) {
		t.Error("Edge to a node outside the subgraph must be dropped")
	}
	if !sub.HasEdge(3, 1) {
		t.Error("Expected induced edge 3->1")
	}
	if g.EdgeCount() != 5 {
		t.Error("Subgraph must not modify the parent graph")
	}
}
