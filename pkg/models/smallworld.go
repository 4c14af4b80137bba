package models

import (
	"math/rand/v2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// wattsStrogatz builds a ring where each node links to its k/2 nearest
// neighbors on each side, then rewires every lattice edge with probability p
// to a uniformly chosen node. k ≥ n yields the complete graph.
func wattsStrogatz(n, k int, p float64, rng *rand.Rand) (*graph.Graph, error) {
	if k >= n {
		return complete(n)
	}
	b := graph.NewBuilder(n, false)
	half := k / 2
	for j := 1; j <= half; j++ {
		for u := 0; u < n; u++ {
			b.MustAddEdge(u, (u+j)%n)
		}
	}

	for j := 1; j <= half; j++ {
		for u := 0; u < n; u++ {
			if rng.Float64() >= p {
				continue
			}
			w := rng.IntN(n)
			saturated := false
			for w == u || b.HasEdge(u, w) {
				w = rng.IntN(n)
				if b.Degree(u) >= n-1 {
					saturated = true
					break
				}
			}
			if saturated {
				continue
			}
			b.RemoveEdge(u, (u+j)%n)
			b.MustAddEdge(u, w)
		}
	}
	return b.Build(), nil
}
