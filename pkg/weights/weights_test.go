package weights

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func TestDrawWithinRange(t *testing.T) {
	ranges := [][2]float64{{1, 10}, {0, 0.5}, {-3, 3}, {100, 101}}
	for _, d := range Distributions() {
		for _, r := range ranges {
			spec := Spec{Distribution: d, Min: r[0], Max: r[1]}
			ws, err := Draw(spec, 2000, newRand(3))
			if err != nil {
				t.Fatalf("Draw(%v): %v", spec, err)
			}
			for _, w := range ws {
				if w < spec.Min || w > spec.Max {
					t.Errorf("%s %v: weight %v outside range", d, r, w)
					break
				}
			}
		}
	}
}

func TestDrawDeterministic(t *testing.T) {
	spec := Spec{Distribution: Normal, Min: 1, Max: 10}
	a, _ := Draw(spec, 50, newRand(21))
	b, _ := Draw(spec, 50, newRand(21))
	if !slices.Equal(a, b) {
		t.Error("same seed produced different weights")
	}
}

func TestLogNormalSaturatesUpperBound(t *testing.T) {
	// exp(N(5.5, 2.25)) is far above 10 for almost every draw.
	ws, err := Draw(Spec{Distribution: LogNormal, Min: 1, Max: 10}, 500, newRand(2))
	if err != nil {
		t.Fatal(err)
	}
	atMax := 0
	for _, w := range ws {
		if w == 10 {
			atMax++
		}
	}
	if atMax < 400 {
		t.Errorf("only %d/500 lognormal weights clamped to max, want most", atMax)
	}
}

func TestPowerLawStartsAtMin(t *testing.T) {
	ws, _ := Draw(Spec{Distribution: PowerLaw, Min: 2, Max: 20}, 1000, newRand(5))
	below := 0
	for _, w := range ws {
		if w < 5 {
			below++
		}
	}
	if below < 500 {
		t.Errorf("%d/1000 powerlaw weights below 5, want heavy mass near min", below)
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"valid", Spec{Distribution: Uniform, Min: 1, Max: 2}, nil},
		{"equal bounds", Spec{Distribution: Uniform, Min: 2, Max: 2}, ErrInvalidRange},
		{"inverted", Spec{Distribution: Normal, Min: 5, Max: 1}, ErrInvalidRange},
		{"unknown", Spec{Distribution: Distribution(9), Min: 1, Max: 2}, ErrUnknownDistribution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDistribution(t *testing.T) {
	for _, d := range Distributions() {
		got, err := ParseDistribution(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDistribution(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDistribution("cauchy"); !errors.Is(err, ErrUnknownDistribution) {
		t.Errorf("ParseDistribution(cauchy) error = %v", err)
	}
}

func TestAssign(t *testing.T) {
	b := graph.NewBuilder(4, false)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 2)
	b.MustAddEdge(2, 3)
	g := b.Build()

	wg, err := Assign(g, Spec{Distribution: Exponential, Min: 1, Max: 10}, newRand(1))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if !wg.Weighted() {
		t.Error("Assign result is not weighted")
	}
	if g.Weighted() {
		t.Error("Assign mutated its input")
	}
	if len(wg.Weights()) != 3 {
		t.Errorf("weights = %d, want 3", len(wg.Weights()))
	}
}
