package models

import (
	"math"
	"math/rand/v2"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/graphs/gen"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// erdosRenyi includes each pair independently with probability p. Directed
// graphs draw each ordered pair.
func erdosRenyi(n int, p float64, directed bool, rng *rand.Rand) (*graph.Graph, error) {
	var dst interface {
		gonum.Graph
		gonum.Builder
	}
	if directed {
		dst = simple.NewDirectedGraph()
	} else {
		dst = simple.NewUndirectedGraph()
	}
	if err := gen.Gnp(dst, n, p, rng); err != nil {
		return nil, err
	}
	return graph.FromGonum(dst, n, directed)
}

// geometric places nodes uniformly in the unit square and joins pairs whose
// Euclidean distance is at most radius.
func geometric(n int, radius float64, rng *rand.Rand) *graph.Graph {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = rng.Float64()
		ys[i] = rng.Float64()
	}
	b := graph.NewBuilder(n, false)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if math.Hypot(xs[u]-xs[v], ys[u]-ys[v]) <= radius {
				b.MustAddEdge(u, v)
			}
		}
	}
	return b.Build()
}

// randomTree decodes a uniformly random Prüfer sequence.
func randomTree(n int, rng *rand.Rand) *graph.Graph {
	b := graph.NewBuilder(n, false)
	if n < 2 {
		return b.Build()
	}
	if n == 2 {
		b.MustAddEdge(0, 1)
		return b.Build()
	}

	seq := make([]int, n-2)
	degree := make([]int, n)
	for i := range degree {
		degree[i] = 1
	}
	for i := range seq {
		seq[i] = rng.IntN(n)
		degree[seq[i]]++
	}

	for _, v := range seq {
		for leaf := 0; leaf < n; leaf++ {
			if degree[leaf] == 1 {
				b.MustAddEdge(leaf, v)
				degree[leaf]--
				degree[v]--
				break
			}
		}
	}

	u, w := -1, -1
	for i := 0; i < n; i++ {
		if degree[i] == 1 {
			if u < 0 {
				u = i
			} else {
				w = i
			}
		}
	}
	b.MustAddEdge(u, w)
	return b.Build()
}
