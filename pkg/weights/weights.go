// Package weights assigns statistically distributed edge weights.
//
// One value is drawn per edge, in edge order, from the configured
// distribution and then clamped into [Min, Max]. Clamping happens after the
// draw, so mass beyond the range piles up on the bounds; this bias is part of
// the contract.
package weights

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

var (
	// ErrUnknownDistribution is returned for a selector outside the five
	// supported distributions.
	ErrUnknownDistribution = errors.New("unknown weight distribution")

	// ErrInvalidRange is returned when Min is not strictly below Max.
	ErrInvalidRange = errors.New("weight range requires min < max")
)

// Distribution selects the law weights are drawn from.
type Distribution int

const (
	Uniform Distribution = iota
	Normal
	Exponential
	LogNormal
	PowerLaw
)

// paretoShape is the Pareto α used by PowerLaw.
const paretoShape = 2.0

var distributionNames = [...]string{
	Uniform:     "uniform",
	Normal:      "normal",
	Exponential: "exponential",
	LogNormal:   "lognormal",
	PowerLaw:    "powerlaw",
}

func (d Distribution) String() string {
	if d < 0 || int(d) >= len(distributionNames) {
		return fmt.Sprintf("Distribution(%d)", int(d))
	}
	return distributionNames[d]
}

// Distributions returns every distribution in display order.
func Distributions() []Distribution {
	ds := make([]Distribution, len(distributionNames))
	for i := range ds {
		ds[i] = Distribution(i)
	}
	return ds
}

// Names returns the selector names of every distribution.
func Names() []string {
	return slices.Clone(distributionNames[:])
}

// ParseDistribution resolves a selector name, ignoring case.
func ParseDistribution(name string) (Distribution, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for i, n := range distributionNames {
		if n == norm {
			return Distribution(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownDistribution)
}

// Spec configures weight assignment.
type Spec struct {
	Distribution Distribution
	Min          float64
	Max          float64
}

// Validate checks the distribution selector and range.
func (s Spec) Validate() error {
	if s.Distribution < 0 || int(s.Distribution) >= len(distributionNames) {
		return fmt.Errorf("%s: %w", s.Distribution, ErrUnknownDistribution)
	}
	if !(s.Min < s.Max) {
		return fmt.Errorf("min=%g max=%g: %w", s.Min, s.Max, ErrInvalidRange)
	}
	return nil
}

// Assign returns a weighted copy of g with one draw per edge.
func Assign(g *graph.Graph, spec Spec, rng *rand.Rand) (*graph.Graph, error) {
	ws, err := Draw(spec, g.EdgeCount(), rng)
	if err != nil {
		return nil, err
	}
	return g.WithWeights(ws)
}

// Draw samples n clamped weights.
func Draw(spec Spec, n int, rng *rand.Rand) ([]float64, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	sample := sampler(spec, rng)
	ws := make([]float64, n)
	for i := range ws {
		ws[i] = clamp(sample(), spec.Min, spec.Max)
	}
	return ws, nil
}

// sampler returns the raw draw for spec before clamping.
func sampler(spec Spec, rng *rand.Rand) func() float64 {
	lo, hi := spec.Min, spec.Max
	mean := (lo + hi) / 2
	std := (hi - lo) / 4

	switch spec.Distribution {
	case Normal:
		return distuv.Normal{Mu: mean, Sigma: std, Src: rng}.Rand
	case Exponential:
		d := distuv.Exponential{Rate: 1 / std, Src: rng}
		return func() float64 { return lo + d.Rand() }
	case LogNormal:
		// The normal parameters are reused as the log-space parameters.
		return distuv.LogNormal{Mu: mean, Sigma: std, Src: rng}.Rand
	case PowerLaw:
		d := distuv.Pareto{Xm: 1, Alpha: paretoShape, Src: rng}
		return func() float64 { return lo + (d.Rand()-1)*(hi-lo)/9 }
	default:
		return distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
