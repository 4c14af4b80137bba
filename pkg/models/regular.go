package models

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

const (
	methodRandomRegular = "random_regular"

	// maxPairingAttempts bounds full restarts of the pairing process.
	maxPairingAttempts = 1000
)

// randomRegular builds a simple d-regular graph by pairing stubs: each round
// shuffles the open stubs and keeps every pair that forms a new simple edge;
// rejected stubs carry into the next round. A round that leaves no suitable
// pair restarts the attempt.
func randomRegular(n, d int, rng *rand.Rand) (*graph.Graph, error) {
	if d >= n {
		return nil, fmt.Errorf("%s: degree=%d nodes=%d: %w", methodRandomRegular, d, n, ErrDegreeTooLarge)
	}
	if (n*d)%2 != 0 {
		return nil, fmt.Errorf("%s: degree=%d nodes=%d: %w", methodRandomRegular, d, n, ErrDegreeParity)
	}

	for attempt := 0; attempt < maxPairingAttempts; attempt++ {
		if b, ok := tryPairing(n, d, rng); ok {
			return b.Build(), nil
		}
	}
	return nil, fmt.Errorf("%s: degree=%d nodes=%d after %d attempts: %w",
		methodRandomRegular, d, n, maxPairingAttempts, ErrRetriesExhausted)
}

func tryPairing(n, d int, rng *rand.Rand) (*graph.Builder, bool) {
	b := graph.NewBuilder(n, false)
	stubs := make([]int, 0, n*d)
	for v := 0; v < n; v++ {
		for range d {
			stubs = append(stubs, v)
		}
	}

	for len(stubs) > 0 {
		open := make([]int, n)
		rng.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
		for i := 0; i+1 < len(stubs); i += 2 {
			u, v := stubs[i], stubs[i+1]
			if u != v && !b.HasEdge(u, v) {
				b.MustAddEdge(u, v)
				continue
			}
			open[u]++
			open[v]++
		}
		if !suitable(b, open) {
			return nil, false
		}
		stubs = stubs[:0]
		for v, c := range open {
			for range c {
				stubs = append(stubs, v)
			}
		}
	}
	return b, true
}

// suitable reports whether some pair of nodes with open stubs can still be
// joined by a new edge.
func suitable(b *graph.Builder, open []int) bool {
	var pending []int
	for v, c := range open {
		if c > 0 {
			pending = append(pending, v)
		}
	}
	if len(pending) == 0 {
		return true
	}
	for i, u := range pending {
		for _, v := range pending[i+1:] {
			if !b.HasEdge(u, v) {
				return true
			}
		}
	}
	return false
}
