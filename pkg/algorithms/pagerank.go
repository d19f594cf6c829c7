package algorithms

import (
	"container/heap"
	"math"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// PageRankOptions configures PageRank algorithm
type PageRankOptions struct {
	DampingFactor float64 `yaml:"damping_factor" validate:"gt=0,lt=1"` // Usually 0.85
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1"`
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0"` // Per-node convergence threshold
}

// DefaultPageRankOptions returns default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult contains PageRank scores for all nodes
type PageRankResult struct {
	Scores     map[community.NodeID]float64 // Node ID -> PageRank score
	Iterations int                          // Number of iterations performed
	Converged  bool                         // Whether algorithm converged
}

// RankedNode represents a node with its rank
type RankedNode struct {
	NodeID community.NodeID
	Score  float64
}

// PageRank computes the stationary distribution of a random walk with
// teleportation. Mass sitting on nodes without outgoing edges is spread
// uniformly over every node each iteration, so scores always sum to 1.
// Convergence is declared when the L1 change drops below n*Tolerance.
func PageRank(g *graph.Graph, opts PageRankOptions) *PageRankResult {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return &PageRankResult{
			Scores:    make(map[community.NodeID]float64),
			Converged: true,
		}
	}

	index := make(map[community.NodeID]int, n)
	for i, id := range nodes {
		index[id] = i
	}

	scores := make([]float64, n)
	newScores := make([]float64, n)
	initialScore := 1.0 / float64(n)
	for i := range scores {
		scores[i] = initialScore
	}

	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		danglingMass := 0.0
		for i, id := range nodes {
			if g.OutDegree(id) == 0 {
				danglingMass += scores[i]
			}
		}

		base := (1.0-opts.DampingFactor)/float64(n) + opts.DampingFactor*danglingMass/float64(n)
		for i := range newScores {
			newScores[i] = base
		}

		// Push each node's score along its outgoing edges
		for i, id := range nodes {
			succ := g.Successors(id)
			if len(succ) == 0 {
				continue
			}
			share := opts.DampingFactor * scores[i] / float64(len(succ))
			for _, to := range succ {
				newScores[index[to]] += share
			}
		}

		diff := 0.0
		for i := range scores {
			diff += math.Abs(newScores[i] - scores[i])
		}

		scores, newScores = newScores, scores

		if diff < float64(n)*opts.Tolerance {
			converged = true
			break
		}
	}

	result := make(map[community.NodeID]float64, n)
	for i, id := range nodes {
		result[id] = scores[i]
	}

	return &PageRankResult{
		Scores:     result,
		Iterations: iterations,
		Converged:  converged,
	}
}

// rankedNodeHeap implements a min-heap for RankedNode by score.
// Keeping at most N elements with the minimum at the root finds the top N in
// O(n log N).
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int           { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool { return less(h[i], h[j]) }
func (h rankedNodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopNodes returns the n highest-scoring nodes, best first. Ties are broken by
// ascending node ID.
func (pr *PageRankResult) TopNodes(n int) []RankedNode {
	if n <= 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for nodeID, score := range pr.Scores {
		rn := RankedNode{NodeID: nodeID, Score: score}
		if h.Len() < n {
			heap.Push(&h, rn)
		} else if less(h[0], rn) {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}
	return result
}

// less orders nodes worst first: lower score, then higher node ID
func less(a, b RankedNode) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.NodeID > b.NodeID
}
