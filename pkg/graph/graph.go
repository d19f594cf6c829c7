// Package graph provides the in-memory directed graph each snapshot's
// descriptors are computed over.
package graph

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-supernode/pkg/community"
)

// ErrSelfLoop is returned by AddEdge for an edge from a node to itself
var ErrSelfLoop = errors.New("self-loop not allowed")

// Graph is a simple directed graph: no self-loops, no parallel edges. Nodes are
// iterated in insertion order and neighbour lists in edge insertion order, so
// every traversal over the same input is reproducible.
//
// A Graph is not safe for concurrent mutation. Concurrent reads are fine once
// construction is finished.
type Graph struct {
	order    []community.NodeID
	index    map[community.NodeID]int
	outgoing map[community.NodeID][]community.NodeID
	incoming map[community.NodeID][]community.NodeID
	edges    map[[2]community.NodeID]struct{}
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		index:    make(map[community.NodeID]int),
		outgoing: make(map[community.NodeID][]community.NodeID),
		incoming: make(map[community.NodeID][]community.NodeID),
		edges:    make(map[[2]community.NodeID]struct{}),
	}
}

// AddNode adds a node if it is not already present
func (g *Graph) AddNode(id community.NodeID) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge adds a directed edge from -> to, creating missing endpoints.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to community.NodeID) error {
	if from == to {
		return fmt.Errorf("edge %d->%d: %w", from, to, ErrSelfLoop)
	}
	key := [2]community.NodeID{from, to}
	if _, ok := g.edges[key]; ok {
		return nil
	}

	g.AddNode(from)
	g.AddNode(to)
	g.edges[key] = struct{}{}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// HasNode reports whether id is in the graph
func (g *Graph) HasNode(id community.NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether the directed edge from -> to exists
func (g *Graph) HasEdge(from, to community.NodeID) bool {
	_, ok := g.edges[[2]community.NodeID{from, to}]
	return ok
}

// Nodes returns node IDs in insertion order
func (g *Graph) Nodes() []community.NodeID {
	out := make([]community.NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of directed edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Successors returns the targets of id's outgoing edges. The slice must not be
// modified.
func (g *Graph) Successors(id community.NodeID) []community.NodeID {
	return g.outgoing[id]
}

// Predecessors returns the sources of id's incoming edges. The slice must not
// be modified.
func (g *Graph) Predecessors(id community.NodeID) []community.NodeID {
	return g.incoming[id]
}

// OutDegree returns the number of outgoing edges
func (g *Graph) OutDegree(id community.NodeID) int {
	return len(g.outgoing[id])
}

// InDegree returns the number of incoming edges
func (g *Graph) InDegree(id community.NodeID) int {
	return len(g.incoming[id])
}

// Degree returns in-degree plus out-degree. A reciprocated pair counts twice.
func (g *Graph) Degree(id community.NodeID) int {
	return len(g.outgoing[id]) + len(g.incoming[id])
}

// Neighbors returns the distinct nodes adjacent to id in either direction,
// successors first.
func (g *Graph) Neighbors(id community.NodeID) []community.NodeID {
	out := make([]community.NodeID, 0, len(g.outgoing[id])+len(g.incoming[id]))
	seen := make(map[community.NodeID]struct{}, cap(out))
	for _, n := range g.outgoing[id] {
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for _, n := range g.incoming[id] {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Subgraph returns the subgraph induced by nodes. Nodes absent from g are
// skipped; the result keeps g's node order.
func (g *Graph) Subgraph(nodes []community.NodeID) *Graph {
	keep := make(map[community.NodeID]struct{}, len(nodes))
	for _, n := range nodes {
		if g.HasNode(n) {
			keep[n] = struct{}{}
		}
	}

	sub := New()
	for _, n := range g.order {
		if _, ok := keep[n]; ok {
			sub.AddNode(n)
		}
	}
	for _, from := range sub.order {
		for _, to := range g.outgoing[from] {
			if _, ok := keep[to]; ok {
				// Endpoints are distinct and already present.
				_ = sub.AddEdge(from, to)
			}
		}
	}
	return sub
}
