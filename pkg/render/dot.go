package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/graphsynth/pkg/graph"
	"github.com/matzehuels/graphsynth/pkg/layout"
)

// Palette colors communities in label order; labels beyond its length wrap.
var Palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// DefaultNodeColor fills nodes when no labels are given.
const DefaultNodeColor = "#4e79a7"

const (
	minPenWidth = 0.5
	maxPenWidth = 3.0
)

// Options configures DOT emission.
type Options struct {
	// Width and Height are the viewport positions were normalized into.
	Width, Height float64

	// Labels prints node ids inside the nodes.
	Labels bool

	// EdgeLabels prints each weight, to two decimals, beside its edge.
	// Unweighted graphs are unaffected.
	EdgeLabels bool
}

// ToDOT converts a laid-out graph to Graphviz DOT with pinned positions.
// labels may be nil; otherwise labels[i] selects the Palette color of node i.
func ToDOT(g *graph.Graph, pos layout.Positions, labels []int, opts Options) string {
	var buf bytes.Buffer
	kind, arrow := "graph", "--"
	if g.Directed() {
		kind, arrow = "digraph", "->"
	}

	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(opts.Width), num(opts.Height))
	if opts.Labels {
		buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.3, fontsize=9, fontcolor=white, penwidth=0];\n")
	} else {
		buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.15, label=\"\", penwidth=0];\n")
	}
	if opts.EdgeLabels && g.Weighted() {
		buf.WriteString("  edge [color=\"#00000066\", arrowsize=0.5, fontsize=8, fontcolor=\"#555555\"];\n\n")
	} else {
		buf.WriteString("  edge [color=\"#00000066\", arrowsize=0.5];\n\n")
	}

	for u := range g.N() {
		p := pos[u]
		attrs := fmt.Sprintf("pos=\"%s,%s!\", fillcolor=%q", num(p.X), num(opts.Height-p.Y), nodeColor(labels, u))
		if opts.Labels {
			attrs += fmt.Sprintf(", label=\"%d\"", u)
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", u, attrs)
	}

	buf.WriteString("\n")
	widths, ws := penWidths(g), g.Weights()
	for i, e := range g.Edges() {
		if widths == nil {
			fmt.Fprintf(&buf, "  %d %s %d;\n", e.U, arrow, e.V)
			continue
		}
		attrs := "penwidth=" + num(widths[i])
		if opts.EdgeLabels {
			attrs += fmt.Sprintf(", label=\"%.2f\"", ws[i])
		}
		fmt.Fprintf(&buf, "  %d %s %d [%s];\n", e.U, arrow, e.V, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeColor(labels []int, u int) string {
	if u >= len(labels) || labels[u] < 0 {
		return DefaultNodeColor
	}
	return Palette[labels[u]%len(Palette)]
}

// penWidths maps weights linearly onto [minPenWidth, maxPenWidth]. It
// returns nil for unweighted graphs.
func penWidths(g *graph.Graph) []float64 {
	if !g.Weighted() || g.EdgeCount() == 0 {
		return nil
	}
	ws := g.Weights()
	lo, hi := ws[0], ws[0]
	for _, w := range ws[1:] {
		lo, hi = min(lo, w), max(hi, w)
	}
	out := make([]float64, len(ws))
	for i, w := range ws {
		t := 0.5
		if hi > lo {
			t = (w - lo) / (hi - lo)
		}
		out[i] = minPenWidth + t*(maxPenWidth-minPenWidth)
	}
	return out
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
