package distance

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// Graph returns the undirected graph over all Dim() samples whose edges are the
// stored pairs with distance ≤ t, weighted by distance. Node IDs are sample
// indices. Samples with no qualifying pair are present as isolated nodes.
func (m *Matrix) Graph(t float64) (*simple.WeightedUndirectedGraph, error) {
	edges, err := m.Edges(t)
	if err != nil {
		return nil, err
	}

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < m.n; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(e.I), simple.Node(e.J), e.D))
	}

	return g, nil
}

// GraphEdges lists the weighted edges of g as pairs with I < J, in row-major
// order.
func GraphEdges(g *simple.WeightedUndirectedGraph) []Edge {
	var out []Edge
	it := g.Edges()
	for it.Next() {
		e := it.Edge()
		i, j := e.From().ID(), e.To().ID()
		if i > j {
			i, j = j, i
		}
		out = append(out, Edge{I: int(i), J: int(j), D: g.WeightedEdge(i, j).Weight()})
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})

	return out
}
