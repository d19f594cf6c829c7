package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// CoreNumber computes the k-core number of every node using the
// Batagelj-Zaversnik bucket algorithm in O(V+E).
//
// Degrees are total degrees (in + out) and neighbours are all adjacencies in
// either direction, so a reciprocated pair contributes twice.
func CoreNumber(g *graph.Graph) map[community.NodeID]int {
	nodes := g.Nodes()
	n := len(nodes)
	core := make(map[community.NodeID]int, n)
	if n == 0 {
		return core
	}

	neighbors := make(map[community.NodeID][]community.NodeID, n)
	for _, id := range nodes {
		core[id] = g.Degree(id)
		adj := make([]community.NodeID, 0, core[id])
		adj = append(adj, g.Predecessors(id)...)
		adj = append(adj, g.Successors(id)...)
		neighbors[id] = adj
	}

	// Nodes sorted by degree; binStart[d] is the first position of degree d
	order := make([]community.NodeID, n)
	copy(order, nodes)
	sort.SliceStable(order, func(i, j int) bool { return core[order[i]] < core[order[j]] })

	maxDegree := core[order[n-1]]
	binStart := make([]int, maxDegree+1)
	current := 0
	for i, id := range order {
		for core[id] > current {
			current++
			binStart[current] = i
		}
	}

	position := make(map[community.NodeID]int, n)
	for i, id := range order {
		position[id] = i
	}

	for i := 0; i < n; i++ {
		v := order[i]
		for _, u := range neighbors[v] {
			if core[u] <= core[v] {
				continue
			}
			// Move u to the front of its bin, then shrink the bin
			pu := position[u]
			start := binStart[core[u]]
			w := order[start]
			if u != w {
				order[pu], order[start] = w, u
				position[u], position[w] = start, pu
			}
			binStart[core[u]]++
			core[u]--
		}
	}

	return core
}
