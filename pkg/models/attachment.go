package models

import (
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph/graphs/gen"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// =============================================================================
// Preferential Attachment Family
// =============================================================================

// Bollobás scale-free process probabilities.
const (
	scaleFreeAlpha   = 0.41 // new node → existing node
	scaleFreeBeta    = 0.54 // existing node → existing node
	scaleFreeDeltaIn = 0.2  // in-degree bias
)

// barabasiAlbert grows from m isolated nodes; each new node attaches to m
// distinct existing nodes chosen proportionally to degree.
func barabasiAlbert(n, m int, rng *rand.Rand) (*graph.Graph, error) {
	if n <= m {
		return graph.NewBuilder(n, false).Build(), nil
	}
	dst := simple.NewUndirectedGraph()
	if err := gen.PreferentialAttachment(dst, n, m, rng); err != nil {
		return nil, err
	}
	return graph.FromGonum(dst, n, false)
}

// powerlawCluster is the Holme–Kim model: preferential attachment where each
// further edge of a new node closes a triangle with probability p. Every new
// node gets exactly m edges.
//
// gen.TunableClusteringScaleFree is not used: its triad step walks neighbors
// in map order, so a fixed seed does not fix the graph.
func powerlawCluster(n, m int, p float64, rng *rand.Rand) *graph.Graph {
	b := graph.NewBuilder(n, false)
	repeated := make([]int, 0, 2*n*m)
	for v := 0; v < min(m, n); v++ {
		repeated = append(repeated, v)
	}

	for src := m; src < n; src++ {
		candidates := randomSubset(repeated, m, rng)

		// next pops a pre-drawn candidate not yet adjacent to src, then falls
		// back to fresh degree-proportional draws. All earlier nodes are in
		// repeated and src has fewer than m ≤ src neighbors, so a draw exists.
		next := func() int {
			for len(candidates) > 0 {
				t := candidates[len(candidates)-1]
				candidates = candidates[:len(candidates)-1]
				if !b.HasEdge(src, t) {
					return t
				}
			}
			for {
				if t := repeated[rng.IntN(len(repeated))]; !b.HasEdge(src, t) {
					return t
				}
			}
		}

		target := next()
		b.MustAddEdge(src, target)
		repeated = append(repeated, target)

		for count := 1; count < m; count++ {
			if rng.Float64() < p {
				var hood []int
				for _, nb := range b.Neighbors(target) {
					if nb != src && !b.HasEdge(src, nb) {
						hood = append(hood, nb)
					}
				}
				if len(hood) > 0 {
					nb := hood[rng.IntN(len(hood))]
					b.MustAddEdge(src, nb)
					repeated = append(repeated, nb)
					continue
				}
			}
			target = next()
			b.MustAddEdge(src, target)
			repeated = append(repeated, target)
		}
		for range m {
			repeated = append(repeated, src)
		}
	}
	return b.Build()
}

// scaleFree runs the directed Bollobás process from a 3-cycle until n nodes
// exist. Parallel arcs and self-loops drawn by the process are collapsed.
func scaleFree(n int, rng *rand.Rand) *graph.Graph {
	b := graph.NewBuilder(n, true)
	switch n {
	case 1:
		return b.Build()
	case 2:
		b.MustAddEdge(0, 1)
		return b.Build()
	}

	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 2)
	b.MustAddEdge(2, 0)
	sources := []int{0, 1, 2}
	sinks := []int{1, 2, 0}
	nodes := 3

	choose := func(candidates []int, delta float64) int {
		if delta > 0 {
			bias := float64(nodes) * delta
			if rng.Float64() < bias/(bias+float64(len(candidates))) {
				return rng.IntN(nodes)
			}
		}
		return candidates[rng.IntN(len(candidates))]
	}

	for nodes < n {
		var v, w int
		switch r := rng.Float64(); {
		case r < scaleFreeAlpha:
			v = nodes
			nodes++
			w = choose(sinks, scaleFreeDeltaIn)
		case r < scaleFreeAlpha+scaleFreeBeta:
			v = choose(sources, 0)
			w = choose(sinks, scaleFreeDeltaIn)
		default:
			v = choose(sources, 0)
			w = nodes
			nodes++
		}
		b.MustAddEdge(v, w)
		sources = append(sources, v)
		sinks = append(sinks, w)
	}
	return b.Build()
}

// randomSubset draws from seq until m distinct values are collected. The
// result keeps draw order.
func randomSubset(seq []int, m int, rng *rand.Rand) []int {
	out := make([]int, 0, m)
	for len(out) < m {
		x := seq[rng.IntN(len(seq))]
		if !slices.Contains(out, x) {
			out = append(out, x)
		}
	}
	return out
}
