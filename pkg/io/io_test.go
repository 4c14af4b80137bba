package io

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/graphsynth/pkg/analysis"
	"github.com/matzehuels/graphsynth/pkg/graph"
	"github.com/matzehuels/graphsynth/pkg/layout"
)

func square(directed bool) *graph.Graph {
	b := graph.NewBuilder(4, directed)
	b.MustAddEdge(0, 1)
	b.MustAddEdge(1, 2)
	b.MustAddEdge(2, 3)
	b.MustAddEdge(3, 0)
	return b.Build()
}

func TestWriteGEXF(t *testing.T) {
	g, err := square(false).WithWeights([]float64{1.5, 2, 0, 4})
	if err != nil {
		t.Fatal(err)
	}
	opts := GEXFOptions{
		Positions: layout.Positions{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}},
		Labels:    []int{0, 0, 1, 1},
		Creator:   "graphsynth",
		Modified:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := WriteGEXF(&buf, g, opts); err != nil {
		t.Fatalf("WriteGEXF: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns="http://gexf.net/1.2"`,
		`lastmodifieddate="2024-03-01"`,
		`<creator>graphsynth</creator>`,
		`defaultedgetype="undirected"`,
		`<attribute id="0" title="community" type="integer"></attribute>`,
		`<attvalue for="0" value="1"></attvalue>`,
		`<viz:position x="7" y="8" z="0"></viz:position>`,
		`weight="0"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GEXF missing %q:\n%s", want, out)
		}
	}
}

func TestWriteGEXFUnweighted(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGEXF(&buf, square(true), GEXFOptions{}); err != nil {
		t.Fatalf("WriteGEXF: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "weight=") {
		t.Error("unweighted graph should not carry weights")
	}
	if strings.Contains(out, "viz:position") || strings.Contains(out, "attvalue") {
		t.Error("node data written without options")
	}
	if !strings.Contains(out, `defaultedgetype="directed"`) {
		t.Error("directed graph should declare directed edges")
	}
}

func TestGEXFRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		directed bool
		weights  []float64
	}{
		{"undirected", false, nil},
		{"directed", true, nil},
		{"weighted", false, []float64{3, 1, 4, 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := square(tt.directed)
			if tt.weights != nil {
				var err error
				if g, err = g.WithWeights(tt.weights); err != nil {
					t.Fatal(err)
				}
			}
			pos := layout.Positions{{X: 10, Y: 20}, {X: 30, Y: 40}, {X: 50, Y: 60}, {X: 70, Y: 80.5}}
			labels := []int{1, 0, 1, 0}

			path := filepath.Join(t.TempDir(), "g.gexf")
			if err := ExportGEXF(g, GEXFOptions{Positions: pos, Labels: labels}, path); err != nil {
				t.Fatalf("ExportGEXF: %v", err)
			}
			got, err := ImportGEXF(path)
			if err != nil {
				t.Fatalf("ImportGEXF: %v", err)
			}

			if got.Graph.N() != g.N() || got.Graph.EdgeCount() != g.EdgeCount() {
				t.Fatalf("got %d nodes %d edges, want %d %d",
					got.Graph.N(), got.Graph.EdgeCount(), g.N(), g.EdgeCount())
			}
			if got.Graph.Directed() != tt.directed {
				t.Errorf("Directed() = %v", got.Graph.Directed())
			}
			if got.Graph.Weighted() != (tt.weights != nil) {
				t.Errorf("Weighted() = %v", got.Graph.Weighted())
			}
			for _, e := range g.Edges() {
				w, ok := got.Graph.Weight(e.U, e.V)
				want, _ := g.Weight(e.U, e.V)
				if !ok || w != want {
					t.Errorf("edge %d-%d weight = %v, %v; want %v", e.U, e.V, w, ok, want)
				}
			}
			for i := range pos {
				if got.Positions[i] != pos[i] {
					t.Errorf("position %d = %v, want %v", i, got.Positions[i], pos[i])
				}
				if got.Labels[i] != labels[i] {
					t.Errorf("label %d = %d, want %d", i, got.Labels[i], labels[i])
				}
			}
		})
	}
}

func TestReadGEXFErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `<gexf><graph>`},
		{"bad id", `<gexf><graph><nodes><node id="a"/></nodes></graph></gexf>`},
		{"id out of range", `<gexf><graph><nodes><node id="0"/><node id="5"/></nodes></graph></gexf>`},
		{"duplicate id", `<gexf><graph><nodes><node id="0"/><node id="0"/></nodes></graph></gexf>`},
		{"unknown endpoint", `<gexf><graph><nodes><node id="0"/></nodes><edges><edge source="0" target="1"/></edges></graph></gexf>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGEXF(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadGEXFWithoutNodeData(t *testing.T) {
	doc := `<gexf xmlns="http://gexf.net/1.2"><graph defaultedgetype="undirected">
<nodes><node id="0"/><node id="1"/></nodes>
<edges><edge source="1" target="0"/></edges></graph></gexf>`
	got, err := ReadGEXF(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadGEXF: %v", err)
	}
	if got.Positions != nil || got.Labels != nil {
		t.Errorf("expected no node data, got %v %v", got.Positions, got.Labels)
	}
	if !got.Graph.HasEdge(0, 1) || got.Graph.Weighted() {
		t.Errorf("unexpected graph: edges=%v weighted=%v", got.Graph.Edges(), got.Graph.Weighted())
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	m := analysis.Metrics{
		Nodes:         5,
		Edges:         3,
		Density:       0.3,
		Assortativity: analysis.None(analysis.ReasonNotApplicable),
		Diameter:      analysis.None(analysis.ReasonNotConnected),
		Weights:       &analysis.WeightStats{Min: 1, Max: 3, Mean: 2, Total: 6},
	}

	path := filepath.Join(t.TempDir(), "m.json")
	if err := ExportMetrics(m, path); err != nil {
		t.Fatalf("ExportMetrics: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteMetrics(&buf, m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"diameter": "not connected"`) {
		t.Errorf("undefined diameter should be its reason:\n%s", buf.String())
	}

	got, err := ReadMetrics(&buf)
	if err != nil {
		t.Fatalf("ReadMetrics: %v", err)
	}
	if got.Nodes != 5 || got.Diameter.Valid || got.Diameter.Reason != analysis.ReasonNotConnected {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Weights == nil || math.Abs(got.Weights.Mean-2) > 1e-12 {
		t.Errorf("weights = %+v", got.Weights)
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		kind, ext, want string
	}{
		{"small_world", "svg", "graph_small_world_20240102_150405.svg"},
		{"random", ".gexf", "graph_random_20240102_150405.gexf"},
	}
	for _, tt := range tests {
		if got := ExportFilename(tt.kind, tt.ext, ts); got != tt.want {
			t.Errorf("ExportFilename(%q, %q) = %q, want %q", tt.kind, tt.ext, got, tt.want)
		}
	}
}
