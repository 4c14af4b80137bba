package models

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// Kind selects a graph model.
type Kind int

const (
	Random Kind = iota
	Preferential
	SmallWorld
	Complete
	Star
	Wheel
	Grid
	RandomRegular
	RandomTree
	Bipartite
	ScaleFree
	Geometric
	PowerlawCluster
)

// Fixed model constants.
const (
	// RewireProbability is the Watts–Strogatz rewiring probability.
	RewireProbability = 0.1

	// TriadProbability is the Holme–Kim triangle formation probability.
	TriadProbability = 0.1
)

var kindNames = [...]string{
	Random:          "random",
	Preferential:    "preferential",
	SmallWorld:      "small_world",
	Complete:        "complete",
	Star:            "star",
	Wheel:           "wheel",
	Grid:            "grid",
	RandomRegular:   "random_regular",
	RandomTree:      "random_tree",
	Bipartite:       "bipartite",
	ScaleFree:       "scale_free",
	Geometric:       "geometric",
	PowerlawCluster: "powerlaw_cluster",
}

var kindDescriptions = [...]string{
	Random:          "Erdős–Rényi: each pair connected with probability density",
	Preferential:    "Barabási–Albert: new nodes attach to max(1, density·N/2) nodes by degree",
	SmallWorld:      "Watts–Strogatz: ring lattice of degree density·N, 10% rewired",
	Complete:        "every pair of nodes connected",
	Star:            "one hub connected to N-1 leaves",
	Wheel:           "cycle of N-1 nodes plus a hub",
	Grid:            "largest square lattice fitting in N nodes",
	RandomRegular:   "every node has degree density·N; fails on impossible degree",
	RandomTree:      "uniformly random labeled spanning tree",
	Bipartite:       "complete bipartite graph on halves of N",
	ScaleFree:       "directed preferential attachment with in/out degree bias",
	Geometric:       "points in the unit square joined within radius density",
	PowerlawCluster: "Holme–Kim: preferential attachment with 10% triangle closure",
}

// String returns the selector name used in configs and flags.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Description returns a one-line summary of the model.
func (k Kind) Description() string {
	if k < 0 || int(k) >= len(kindDescriptions) {
		return ""
	}
	return kindDescriptions[k]
}

// Valid reports whether k is one of the thirteen models.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// Kinds returns every model in display order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Names returns the selector names of every model.
func Names() []string {
	return slices.Clone(kindNames[:])
}

// ParseKind resolves a selector name. Matching ignores case and accepts
// hyphens in place of underscores.
func ParseKind(name string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range kindNames {
		if n == norm {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownKind)
}

// Params configures a single generation.
type Params struct {
	Kind     Kind
	Nodes    int
	Density  float64
	Directed bool
}

// Generate builds a graph for p, drawing randomness only from rng.
func Generate(p Params, rng *rand.Rand) (*graph.Graph, error) {
	if p.Nodes < 1 {
		return nil, fmt.Errorf("%s: nodes=%d: %w", p.Kind, p.Nodes, ErrTooFewNodes)
	}
	density := clamp01(p.Density)
	n := p.Nodes

	switch p.Kind {
	case Random:
		return erdosRenyi(n, density, p.Directed, rng)
	case Preferential:
		return barabasiAlbert(n, attachmentCount(n, density), rng)
	case SmallWorld:
		return wattsStrogatz(n, lattice(n, density), RewireProbability, rng)
	case Complete:
		return complete(n)
	case Star:
		return star(n)
	case Wheel:
		return wheel(n)
	case Grid:
		return grid(n), nil
	case RandomRegular:
		return randomRegular(n, lattice(n, density), rng)
	case RandomTree:
		return randomTree(n, rng), nil
	case Bipartite:
		return bipartite(n), nil
	case ScaleFree:
		g := scaleFree(n, rng)
		if !p.Directed {
			g = g.ToUndirected()
		}
		return g, nil
	case Geometric:
		return geometric(n, density, rng), nil
	case PowerlawCluster:
		return powerlawCluster(n, attachmentCount(n, density), TriadProbability, rng), nil
	}
	return nil, fmt.Errorf("%s: %w", p.Kind, ErrUnknownKind)
}

// attachmentCount is m = max(1, ⌊density·N/2⌋), capped at N-1.
func attachmentCount(n int, density float64) int {
	m := max(1, int(math.Floor(density*float64(n)/2)))
	return min(m, max(1, n-1))
}

// lattice is k = max(2, round(density·N)), the degree for small-world and
// random regular graphs.
func lattice(n int, density float64) int {
	return max(2, int(math.Round(density*float64(n))))
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
