package models

import (
	"math"

	"gonum.org/v1/gonum/graph/graphs/gen"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// =============================================================================
// Deterministic Families
// =============================================================================

func complete(n int) (*graph.Graph, error) {
	dst := simple.NewUndirectedGraph()
	gen.Complete(dst, gen.IDRange{First: 0, Last: int64(n - 1)})
	return graph.FromGonum(dst, n, false)
}

// star has hub 0 and leaves 1..n-1.
func star(n int) (*graph.Graph, error) {
	dst := simple.NewUndirectedGraph()
	gen.Star(dst, 0, leaves(n))
	return graph.FromGonum(dst, n, false)
}

// wheel has hub 0 joined to a cycle over 1..n-1. With fewer than three rim
// nodes the rim degenerates to a path.
func wheel(n int) (*graph.Graph, error) {
	dst := simple.NewUndirectedGraph()
	gen.Wheel(dst, 0, leaves(n))
	return graph.FromGonum(dst, n, false)
}

// leaves is the id range 1..n-1; empty when n is 1.
func leaves(n int) gen.IDRange {
	return gen.IDRange{First: 1, Last: int64(n - 1)}
}

// grid is the s×s lattice with s = ⌊√n⌋; cell (r, c) is node r·s+c.
func grid(n int) *graph.Graph {
	s := int(math.Floor(math.Sqrt(float64(n))))
	for (s+1)*(s+1) <= n {
		s++
	}
	b := graph.NewBuilder(s*s, false)
	for r := 0; r < s; r++ {
		for c := 0; c < s; c++ {
			id := r*s + c
			if c+1 < s {
				b.MustAddEdge(id, id+1)
			}
			if r+1 < s {
				b.MustAddEdge(id, id+s)
			}
		}
	}
	return b.Build()
}

// bipartite joins every node of the left part [0, ⌈n/2⌉) to every node of
// the right part.
func bipartite(n int) *graph.Graph {
	left := (n + 1) / 2
	b := graph.NewBuilder(n, false)
	for u := 0; u < left; u++ {
		for v := left; v < n; v++ {
			b.MustAddEdge(u, v)
		}
	}
	return b.Build()
}
