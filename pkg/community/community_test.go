package community

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// twoCliques joins two 5-cliques with a single bridge edge (4, 5).
func twoCliques() *graph.Graph {
	b := graph.NewBuilder(10, false)
	for _, base := range []int{0, 5} {
		for u := base; u < base+5; u++ {
			for v := u + 1; v < base+5; v++ {
				b.MustAddEdge(u, v)
			}
		}
	}
	b.MustAddEdge(4, 5)
	return b.Build()
}

func TestPartitionFindsCliques(t *testing.T) {
	a := Partition(twoCliques(), 3, newRand(1))

	if a.Fallback {
		t.Fatalf("unexpected fallback: %s", a.Reason)
	}
	if a.Count != 2 {
		t.Fatalf("Count = %d, want 2", a.Count)
	}
	for u := 1; u < 5; u++ {
		if a.Labels[u] != a.Labels[0] {
			t.Errorf("node %d label %d, want same as node 0", u, a.Labels[u])
		}
	}
	if a.Labels[5] == a.Labels[0] {
		t.Error("cliques share a label")
	}
	if a.Modularity < 0.3 {
		t.Errorf("Modularity = %v, want > 0.3", a.Modularity)
	}
}

func TestPartitionLabelsAreDense(t *testing.T) {
	a := Partition(twoCliques(), 2, newRand(4))
	if a.Labels[0] != 0 {
		t.Errorf("node 0 label = %d, want 0", a.Labels[0])
	}
	for _, l := range a.Labels {
		if l < 0 || l >= a.Count {
			t.Errorf("label %d outside [0, %d)", l, a.Count)
		}
	}
}

func TestPartitionDeterministic(t *testing.T) {
	g := twoCliques()
	a := Partition(g, 3, newRand(9))
	b := Partition(g, 3, newRand(9))
	if !slices.Equal(a.Labels, b.Labels) {
		t.Errorf("labels differ for same seed: %v vs %v", a.Labels, b.Labels)
	}
}

func TestPartitionFallbackOnEdgelessGraph(t *testing.T) {
	g := graph.NewBuilder(7, false).Build()
	a := Partition(g, 3, newRand(1))

	if !a.Fallback {
		t.Fatal("expected round-robin fallback for edgeless graph")
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	if !slices.Equal(a.Labels, want) {
		t.Errorf("Labels = %v, want %v", a.Labels, want)
	}
	if a.Reason == "" {
		t.Error("fallback without reason")
	}
}

func TestRoundRobin(t *testing.T) {
	tests := []struct {
		n, k      int
		wantCount int
	}{
		{6, 3, 3},
		{2, 5, 2},
		{4, 0, 1},
	}
	for _, tt := range tests {
		a := RoundRobin(tt.n, tt.k)
		if a.Count != tt.wantCount {
			t.Errorf("RoundRobin(%d, %d).Count = %d, want %d", tt.n, tt.k, a.Count, tt.wantCount)
		}
		sizes := a.Sizes()
		total := 0
		for _, s := range sizes {
			total += s
		}
		if total != tt.n {
			t.Errorf("RoundRobin(%d, %d) sizes sum to %d", tt.n, tt.k, total)
		}
	}
}

func TestReinforceWeighted(t *testing.T) {
	g := twoCliques()
	ws := make([]float64, g.EdgeCount())
	for i := range ws {
		ws[i] = 1.5 + float64(i%3)
	}
	g, _ = g.WithWeights(ws)
	a := Partition(g, 2, newRand(2))

	r, err := Reinforce(g, a)
	if err != nil {
		t.Fatalf("Reinforce: %v", err)
	}
	before, after := g.Weights(), r.Weights()
	for i, e := range g.Edges() {
		intra := a.Labels[e.U] == a.Labels[e.V]
		switch {
		case intra && after[i] != 2*before[i]:
			t.Errorf("intra edge %v: %v, want %v", e, after[i], 2*before[i])
		case intra && after[i] < before[i]:
			t.Errorf("intra edge %v decreased", e)
		case !intra && after[i] != before[i]:
			t.Errorf("inter edge %v changed: %v -> %v", e, before[i], after[i])
		}
	}
}

func TestReinforceUnweighted(t *testing.T) {
	g := twoCliques()
	a := Partition(g, 2, newRand(2))

	r, err := Reinforce(g, a)
	if err != nil {
		t.Fatalf("Reinforce: %v", err)
	}
	if !r.Weighted() {
		t.Fatal("reinforced graph should be weighted")
	}
	for i, e := range r.Edges() {
		w := r.Weights()[i]
		if a.Labels[e.U] == a.Labels[e.V] && w != ReinforcedWeight {
			t.Errorf("intra edge %v weight %v, want %v", e, w, ReinforcedWeight)
		}
		if a.Labels[e.U] != a.Labels[e.V] && w != graph.DefaultWeight {
			t.Errorf("inter edge %v weight %v, want %v", e, w, graph.DefaultWeight)
		}
	}
}

func TestReinforceLabelMismatch(t *testing.T) {
	if _, err := Reinforce(twoCliques(), RoundRobin(3, 2)); err == nil {
		t.Error("expected error for label count mismatch")
	}
}
