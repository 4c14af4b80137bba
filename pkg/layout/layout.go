package layout

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

var (
	// ErrUnknownAlgorithm is returned for a selector outside the nine
	// supported layouts.
	ErrUnknownAlgorithm = errors.New("unknown layout algorithm")

	// ErrNotPlanar is returned by the planar strategy for graphs that have
	// no planar embedding.
	ErrNotPlanar = errors.New("graph is not planar")

	// ErrNoConvergence is returned by the spectral strategy when the
	// Laplacian eigendecomposition fails.
	ErrNoConvergence = errors.New("eigendecomposition did not converge")
)

// Algorithm selects a layout strategy.
type Algorithm int

const (
	Spring Algorithm = iota
	Circular
	Shell
	Spiral
	Random
	KamadaKawai
	FruchtermanReingold
	Spectral
	Planar
)

var algorithmNames = [...]string{
	Spring:              "spring",
	Circular:            "circular",
	Shell:               "shell",
	Spiral:              "spiral",
	Random:              "random",
	KamadaKawai:         "kamada_kawai",
	FruchtermanReingold: "fruchterman_reingold",
	Spectral:            "spectral",
	Planar:              "planar",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Algorithms returns every layout in display order.
func Algorithms() []Algorithm {
	as := make([]Algorithm, len(algorithmNames))
	for i := range as {
		as[i] = Algorithm(i)
	}
	return as
}

// Names returns the selector names of every layout.
func Names() []string {
	return slices.Clone(algorithmNames[:])
}

// ParseAlgorithm resolves a selector name. Matching ignores case and accepts
// hyphens in place of underscores.
func ParseAlgorithm(name string) (Algorithm, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range algorithmNames {
		if n == norm {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
}

// Positions holds the coordinate of node i at index i.
type Positions []r2.Vec

// Clone returns a copy of p.
func (p Positions) Clone() Positions { return slices.Clone(p) }

// Strategy computes raw, unnormalized positions.
type Strategy interface {
	Compute(g *graph.Graph, rng *rand.Rand) (Positions, error)
}

// StrategyFor returns the strategy implementing a.
func StrategyFor(a Algorithm) (Strategy, error) {
	switch a {
	case Spring:
		return forceDirected{iterations: springIterations, weighted: true}, nil
	case Circular:
		return circular{}, nil
	case Shell:
		return shell{}, nil
	case Spiral:
		return spiral{resolution: spiralResolution}, nil
	case Random:
		return uniform{}, nil
	case KamadaKawai:
		return kamadaKawai{iterations: stressIterations}, nil
	case FruchtermanReingold:
		return forceDirected{iterations: frIterations}, nil
	case Spectral:
		return spectral{}, nil
	case Planar:
		return planar{}, nil
	}
	return nil, fmt.Errorf("%s: %w", a, ErrUnknownAlgorithm)
}

// Result is a normalized layout.
type Result struct {
	Positions Positions `json:"positions"`
	Requested Algorithm `json:"requested"`
	Used      Algorithm `json:"used"`
	Fallback  bool      `json:"fallback"`
	Reason    string    `json:"reason,omitempty"`
	Viewport  Viewport  `json:"viewport"`
}

// Compute lays out g with algorithm a and normalizes into vp. A failing
// strategy (a non-planar graph, a spectral decomposition that does not
// converge) falls back to Spring and is recorded on the result; only an
// unknown algorithm is returned as an error.
func Compute(g *graph.Graph, a Algorithm, vp Viewport, rng *rand.Rand) (Result, error) {
	s, err := StrategyFor(a)
	if err != nil {
		return Result{}, err
	}
	return run(g, a, s, vp, rng)
}

func run(g *graph.Graph, a Algorithm, s Strategy, vp Viewport, rng *rand.Rand) (Result, error) {
	res := Result{Requested: a, Used: a, Viewport: vp}

	raw, err := s.Compute(g, rng)
	if err != nil {
		res.Used = Spring
		res.Fallback = true
		res.Reason = fmt.Sprintf("%s layout: %v", a, err)
		fallback, _ := StrategyFor(Spring)
		if raw, err = fallback.Compute(g, rng); err != nil {
			return Result{}, fmt.Errorf("spring fallback: %w", err)
		}
	}
	res.Positions = Normalize(raw, vp)
	return res, nil
}

// adjacency returns sorted undirected neighbor lists of g.
func adjacency(g *graph.Graph) [][]int {
	adj := make([][]int, g.N())
	for u := range adj {
		adj[u] = g.Neighbors(u)
	}
	return adj
}

func origin(n int) Positions {
	return make(Positions, n)
}
