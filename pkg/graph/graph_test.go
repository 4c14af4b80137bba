package graph

import (
	"errors"
	"slices"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func path(n int, directed bool) *Graph {
	b := NewBuilder(n, directed)
	for i := 0; i+1 < n; i++ {
		b.MustAddEdge(i, i+1)
	}
	return b.Build()
}

func TestBuilderCanonicalEdges(t *testing.T) {
	b := NewBuilder(4, false)
	b.MustAddEdge(3, 1)
	b.MustAddEdge(0, 2)

	if added := b.MustAddEdge(1, 3); added {
		t.Error("duplicate edge (1, 3) should be ignored")
	}
	if added := b.MustAddEdge(2, 2); added {
		t.Error("self-loop should be ignored")
	}

	g := b.Build()
	want := []Edge{{U: 0, V: 2}, {U: 1, V: 3}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if !g.HasEdge(3, 1) {
		t.Error("HasEdge(3, 1) = false, want true for undirected graph")
	}
}

func TestBuilderOutOfRange(t *testing.T) {
	b := NewBuilder(2, false)
	_, err := b.AddEdge(0, 2)
	if !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("AddEdge(0, 2) error = %v, want ErrNodeOutOfRange", err)
	}
}

func TestBuilderRemoveEdge(t *testing.T) {
	b := NewBuilder(3, false)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 2)
	b.RemoveEdge(1, 0)

	if b.HasEdge(0, 1) {
		t.Error("edge (0, 1) still present after removal")
	}
	if got := b.Neighbors(1); !slices.Equal(got, []int{2}) {
		t.Errorf("Neighbors(1) = %v, want [2]", got)
	}
	if b.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", b.EdgeCount())
	}
}

func TestDirectedBuilderKeepsReverseAdjacency(t *testing.T) {
	b := NewBuilder(2, true)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 0)
	b.RemoveEdge(0, 1)

	if got := b.Neighbors(0); !slices.Equal(got, []int{1}) {
		t.Errorf("Neighbors(0) = %v, want [1] while 1 -> 0 remains", got)
	}
}

func TestDegreeAndNeighbors(t *testing.T) {
	g := path(4, true)

	if got := g.Degree(1); got != 2 {
		t.Errorf("Degree(1) = %d, want 2", got)
	}
	if got := g.Successors(1); !slices.Equal(got, []int{2}) {
		t.Errorf("Successors(1) = %v, want [2]", got)
	}
	if got := g.Neighbors(1); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Neighbors(1) = %v, want [0 2]", got)
	}
	if g.HasEdge(2, 1) {
		t.Error("HasEdge(2, 1) = true on directed path")
	}
}

func TestWithWeights(t *testing.T) {
	g := path(3, false)

	if _, err := g.WithWeights([]float64{1}); !errors.Is(err, ErrWeightCount) {
		t.Errorf("WithWeights short slice error = %v, want ErrWeightCount", err)
	}

	w, err := g.WithWeights([]float64{2.5, 4})
	if err != nil {
		t.Fatalf("WithWeights: %v", err)
	}
	if !w.Weighted() {
		t.Error("Weighted() = false after WithWeights")
	}
	if g.Weighted() {
		t.Error("original graph mutated by WithWeights")
	}
	if got, _ := w.Weight(2, 1); got != 4 {
		t.Errorf("Weight(2, 1) = %v, want 4", got)
	}
	if got := g.Weights(); !slices.Equal(got, []float64{DefaultWeight, DefaultWeight}) {
		t.Errorf("unweighted Weights() = %v, want defaults", got)
	}
}

func TestEdgesReturnsCopy(t *testing.T) {
	g := path(3, false)
	edges := g.Edges()
	edges[0].U = 2

	if g.Edges()[0].U != 0 {
		t.Error("mutating Edges() result changed the graph")
	}
}

func TestOrientationRoundTrip(t *testing.T) {
	g, _ := path(3, false).WithWeights([]float64{3, 5})

	d := g.ToDirected()
	if !d.Directed() || d.EdgeCount() != 4 {
		t.Fatalf("ToDirected: directed=%v edges=%d, want true and 4", d.Directed(), d.EdgeCount())
	}
	if w, ok := d.Weight(2, 1); !ok || w != 5 {
		t.Errorf("arc 2 -> 1 weight = %v (%v), want 5", w, ok)
	}

	u := d.ToUndirected()
	if u.Directed() || u.EdgeCount() != 2 {
		t.Fatalf("ToUndirected: directed=%v edges=%d, want false and 2", u.Directed(), u.EdgeCount())
	}
	if !slices.Equal(u.Weights(), []float64{3, 5}) {
		t.Errorf("weights after round trip = %v, want [3 5]", u.Weights())
	}
}

func TestGonumProjections(t *testing.T) {
	b := NewBuilder(4, true)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 0)
	b.MustAddEdge(1, 2)
	g := b.Build()

	ug := g.Undirected()
	if got := ug.Nodes().Len(); got != 4 {
		t.Errorf("Undirected nodes = %d, want 4 (isolated node kept)", got)
	}
	if got := ug.Edges().Len(); got != 2 {
		t.Errorf("Undirected edges = %d, want 2", got)
	}

	wg := g.WeightedUndirected()
	if w, ok := wg.Weight(0, 1); !ok || w != DefaultWeight {
		t.Errorf("WeightedUndirected weight(0, 1) = %v (%v), want %v", w, ok, DefaultWeight)
	}
}

func TestFromGonum(t *testing.T) {
	dg := simple.NewDirectedGraph()
	for i := range 4 {
		dg.AddNode(simple.Node(i))
	}
	dg.SetEdge(simple.Edge{F: simple.Node(0), T: simple.Node(1)})
	dg.SetEdge(simple.Edge{F: simple.Node(1), T: simple.Node(0)})
	dg.SetEdge(simple.Edge{F: simple.Node(3), T: simple.Node(2)})

	tests := []struct {
		name     string
		directed bool
		want     []Edge
	}{
		{"directed", true, []Edge{{U: 0, V: 1}, {U: 1, V: 0}, {U: 3, V: 2}}},
		{"collapsed", false, []Edge{{U: 0, V: 1}, {U: 2, V: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromGonum(dg, 4, tt.directed)
			if err != nil {
				t.Fatalf("FromGonum: %v", err)
			}
			if g.N() != 4 || g.Directed() != tt.directed {
				t.Errorf("nodes=%d directed=%v", g.N(), g.Directed())
			}
			if !slices.Equal(g.Edges(), tt.want) {
				t.Errorf("edges = %v, want %v", g.Edges(), tt.want)
			}
		})
	}

	if _, err := FromGonum(dg, 3, true); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("node 3 with n=3: error = %v, want ErrNodeOutOfRange", err)
	}
}
