package algorithms

import (
	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// brandesBetweenness runs a single O(VE) Brandes pass over the directed graph
// and returns raw (unnormalised) node betweenness indexed like nodes.
func brandesBetweenness(g *graph.Graph, nodes []community.NodeID) []float64 {
	n := len(nodes)
	index := make(map[community.NodeID]int, n)
	for i, id := range nodes {
		index[id] = i
	}

	betweenness := make([]float64, n)

	stack := make([]int, 0, n)
	queue := make([]int, 0, n)
	predecessors := make([][]int, n)
	sigma := make([]float64, n)
	distance := make([]int, n)
	delta := make([]float64, n)

	for source := 0; source < n; source++ {
		stack = stack[:0]
		queue = queue[:0]
		for i := 0; i < n; i++ {
			predecessors[i] = predecessors[i][:0]
			sigma[i] = 0
			distance[i] = -1
			delta[i] = 0
		}

		sigma[source] = 1
		distance[source] = 0
		queue = append(queue, source)

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)

			for _, to := range g.Successors(nodes[v]) {
				w := index[to]
				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation of dependencies
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness
}

// BetweennessCentrality computes directed betweenness centrality for all nodes,
// normalised by 1/((n-1)(n-2)) when n > 2.
// Measures how often a node appears on shortest paths between other nodes.
func BetweennessCentrality(g *graph.Graph) map[community.NodeID]float64 {
	nodes := g.Nodes()
	raw := brandesBetweenness(g, nodes)

	n := len(nodes)
	normFactor := 1.0
	if n > 2 {
		normFactor = 1.0 / float64((n-1)*(n-2))
	}

	result := make(map[community.NodeID]float64, n)
	for i, id := range nodes {
		result[id] = raw[i] * normFactor
	}
	return result
}
