package graph

import (
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// FromGonum copies src into a Graph with n nodes. Node ids of src must lie
// in [0, n); self-loops are dropped. When directed is false, arcs of a
// directed src collapse onto undirected edges.
func FromGonum(src gonum.Graph, n int, directed bool) (*Graph, error) {
	b := NewBuilder(n, directed)
	nodes := src.Nodes()
	for nodes.Next() {
		u := nodes.Node().ID()
		to := src.From(u)
		for to.Next() {
			if _, err := b.AddEdge(int(u), int(to.Node().ID())); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

// Undirected projects g onto an unweighted gonum graph. Node ids are kept;
// arc direction is dropped.
func (g *Graph) Undirected() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := 0; i < g.n; i++ {
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.ToUndirected().edges {
		ug.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}
	return ug
}

// WeightedUndirected projects g onto a weighted gonum graph. Unweighted
// graphs use [DefaultWeight] for every edge.
func (g *Graph) WeightedUndirected() *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < g.n; i++ {
		wg.AddNode(simple.Node(i))
	}
	ug := g.ToUndirected()
	for _, e := range ug.edges {
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(e.U),
			T: simple.Node(e.V),
			W: ug.weightOf(e),
		})
	}
	return wg
}
