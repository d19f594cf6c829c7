package algorithms

import (
	"strconv"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Partition  *community.Partition
	Modularity float64 // Quality measure of the partitioning
	Iterations int
	Converged  bool // false when the iteration limit stopped the run
}

// ConnectedComponents groups nodes into weakly connected components. Community
// IDs are "0", "1", ... in the order the components are first reached.
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	nodes := g.Nodes()
	visited := make(map[community.NodeID]bool, len(nodes))
	labels := make(map[community.NodeID]int, len(nodes))
	next := 0

	// BFS to find each component
	for _, start := range nodes {
		if visited[start] {
			continue
		}

		queue := []community.NodeID{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			labels[id] = next

			for _, n := range g.Neighbors(id) {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		next++
	}

	p := partitionFromLabels(g, labels)
	return &CommunityDetectionResult{
		Partition:  p,
		Modularity: Modularity(g, p),
		Iterations: 1,
		Converged:  true,
	}
}

// LabelPropagation performs label propagation for community detection, treating
// edges as undirected. Updates are synchronous: every node takes the most
// frequent label among itself and its neighbours from the previous round,
// ties going to the smallest label, so results are deterministic. Counting the
// node's own label keeps bipartite parts (stars, paths, trees) from flipping
// between two states. Stops when no label changes or after maxIterations
// rounds; Converged reports which.
func LabelPropagation(g *graph.Graph, maxIterations int) *CommunityDetectionResult {
	nodes := g.Nodes()

	// Initialize: each node in its own community
	labels := make(map[community.NodeID]int, len(nodes))
	for i, id := range nodes {
		labels[id] = i
	}

	iterations := 0
	converged := len(nodes) == 0
	for !converged && iterations < maxIterations {
		iterations++
		changed := false
		next := make(map[community.NodeID]int, len(nodes))

		for _, id := range nodes {
			own := labels[id]
			neighbors := g.Neighbors(id)

			counts := make(map[int]int, len(neighbors)+1)
			counts[own]++
			for _, n := range neighbors {
				counts[labels[n]]++
			}

			best, bestCount := own, 0
			for label, count := range counts {
				if count > bestCount || (count == bestCount && label < best) {
					best, bestCount = label, count
				}
			}

			next[id] = best
			if best != own {
				changed = true
			}
		}

		labels = next
		converged = !changed
	}

	p := partitionFromLabels(g, labels)
	return &CommunityDetectionResult{
		Partition:  p,
		Modularity: Modularity(g, p),
		Iterations: iterations,
		Converged:  converged,
	}
}

// Modularity computes the directed modularity of p on g:
//
//	Q = Σ_c [ e_c/m - (out_c · in_c)/m² ]
//
// where e_c counts edges inside community c, out_c and in_c sum the out- and
// in-degrees of its members, and m is the edge count. Nodes of g missing from
// p are ignored. A graph without edges scores 0.
func Modularity(g *graph.Graph, p *community.Partition) float64 {
	m := float64(g.EdgeCount())
	if m == 0 {
		return 0
	}

	q := 0.0
	for _, id := range p.Communities() {
		members := p.Members(id)
		inside, out, in := 0, 0, 0
		for node := range members {
			if !g.HasNode(node) {
				continue
			}
			out += g.OutDegree(node)
			in += g.InDegree(node)
			for _, to := range g.Successors(node) {
				if members.Contains(to) {
					inside++
				}
			}
		}
		q += float64(inside)/m - float64(out)*float64(in)/(m*m)
	}
	return q
}

// partitionFromLabels renumbers labels 0..k-1 in graph order
func partitionFromLabels(g *graph.Graph, labels map[community.NodeID]int) *community.Partition {
	p := community.NewPartition()
	renumber := make(map[int]community.ID)
	for _, id := range g.Nodes() {
		label := labels[id]
		cid, ok := renumber[label]
		if !ok {
			cid = community.ID(strconv.Itoa(len(renumber)))
			renumber[label] = cid
		}
		// Each node is assigned exactly once.
		_ = p.Add(cid, id)
	}
	return p
}
