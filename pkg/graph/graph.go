package graph

import (
	"cmp"
	"errors"
	"slices"
)

var (
	// ErrNodeOutOfRange is returned by [Builder.AddEdge] when an endpoint is
	// outside [0, N).
	ErrNodeOutOfRange = errors.New("node id out of range")

	// ErrWeightCount is returned by [Graph.WithWeights] when the number of
	// weights differs from the number of edges.
	ErrWeightCount = errors.New("weight count does not match edge count")
)

// DefaultWeight is the implicit weight of an edge in an unweighted graph.
const DefaultWeight = 1.0

// Edge connects U to V. For undirected graphs U < V always holds.
type Edge struct {
	U      int     `json:"source"`
	V      int     `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// Graph is an immutable graph over nodes [0, N).
type Graph struct {
	n        int
	directed bool
	weighted bool
	edges    []Edge
	index    map[[2]int]int
	out      [][]int
	in       [][]int
}

// N returns the number of nodes.
func (g *Graph) N() int { return g.n }

// Directed reports whether edges are ordered arcs.
func (g *Graph) Directed() bool { return g.directed }

// Weighted reports whether edge weights carry meaning.
func (g *Graph) Weighted() bool { return g.weighted }

// EdgeCount returns the number of stored edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the node ids in ascending order.
func (g *Graph) Nodes() []int {
	ids := make([]int, g.n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Edges returns a copy of the edges sorted by (U, V).
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Weights returns the per-edge weights in edge order. Unweighted graphs
// report [DefaultWeight] for every edge.
func (g *Graph) Weights() []float64 {
	ws := make([]float64, len(g.edges))
	for i, e := range g.edges {
		ws[i] = g.weightOf(e)
	}
	return ws
}

// Weight returns the weight of the edge between u and v and whether it
// exists. For undirected graphs the endpoint order does not matter.
func (g *Graph) Weight(u, v int) (float64, bool) {
	i, ok := g.index[g.key(u, v)]
	if !ok {
		return 0, false
	}
	return g.weightOf(g.edges[i]), true
}

// HasEdge reports whether u and v are connected (u → v when directed).
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.index[g.key(u, v)]
	return ok
}

// Successors returns the out-neighbors of u in ascending order. For
// undirected graphs this is the full neighborhood.
func (g *Graph) Successors(u int) []int {
	return slices.Clone(g.out[u])
}

// Neighbors returns the neighbors of u in the undirected projection, in
// ascending order and without duplicates.
func (g *Graph) Neighbors(u int) []int {
	if !g.directed {
		return slices.Clone(g.out[u])
	}
	merged := append(slices.Clone(g.out[u]), g.in[u]...)
	slices.Sort(merged)
	return slices.Compact(merged)
}

// Degree returns the number of edges incident to u. For directed graphs this
// is in-degree plus out-degree.
func (g *Graph) Degree(u int) int {
	if !g.directed {
		return len(g.out[u])
	}
	return len(g.out[u]) + len(g.in[u])
}

// WithWeights returns a weighted copy of g with ws assigned in edge order.
func (g *Graph) WithWeights(ws []float64) (*Graph, error) {
	if len(ws) != len(g.edges) {
		return nil, ErrWeightCount
	}
	edges := slices.Clone(g.edges)
	for i := range edges {
		edges[i].Weight = ws[i]
	}
	return assemble(g.n, g.directed, true, edges), nil
}

// ToDirected returns a directed copy of g. Each undirected edge becomes two
// arcs carrying the same weight. Directed graphs are returned as is.
func (g *Graph) ToDirected() *Graph {
	if g.directed {
		return g
	}
	edges := make([]Edge, 0, 2*len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e, Edge{U: e.V, V: e.U, Weight: e.Weight})
	}
	return assemble(g.n, true, g.weighted, edges)
}

// ToUndirected returns the undirected projection of g. When both u → v and
// v → u exist, the weight of the arc leaving the smaller id is kept.
// Undirected graphs are returned as is.
func (g *Graph) ToUndirected() *Graph {
	if !g.directed {
		return g
	}
	seen := make(map[[2]int]bool, len(g.edges))
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		u, v := minmax(e.U, e.V)
		if seen[[2]int{u, v}] {
			continue
		}
		seen[[2]int{u, v}] = true
		edges = append(edges, Edge{U: u, V: v, Weight: e.Weight})
	}
	return assemble(g.n, false, g.weighted, edges)
}

func (g *Graph) weightOf(e Edge) float64 {
	if !g.weighted {
		return DefaultWeight
	}
	return e.Weight
}

func (g *Graph) key(u, v int) [2]int {
	if !g.directed {
		u, v = minmax(u, v)
	}
	return [2]int{u, v}
}

// assemble sorts edges and builds the adjacency indexes. Edges must already
// be canonical and free of duplicates.
func assemble(n int, directed, weighted bool, edges []Edge) *Graph {
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.U, b.U); c != 0 {
			return c
		}
		return cmp.Compare(a.V, b.V)
	})
	g := &Graph{
		n:        n,
		directed: directed,
		weighted: weighted,
		edges:    edges,
		index:    make(map[[2]int]int, len(edges)),
		out:      make([][]int, n),
	}
	if directed {
		g.in = make([][]int, n)
	}
	for i, e := range edges {
		g.index[[2]int{e.U, e.V}] = i
		g.out[e.U] = append(g.out[e.U], e.V)
		if directed {
			g.in[e.V] = append(g.in[e.V], e.U)
		} else {
			g.out[e.V] = append(g.out[e.V], e.U)
		}
	}
	for u := range g.out {
		slices.Sort(g.out[u])
		if directed {
			slices.Sort(g.in[u])
		}
	}
	return g
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
