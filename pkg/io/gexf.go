package io

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/matzehuels/graphsynth/pkg/graph"
	"github.com/matzehuels/graphsynth/pkg/layout"
)

const (
	gexfNS    = "http://gexf.net/1.2"
	gexfVizNS = "http://gexf.net/1.2/viz"

	communityAttr = "community"
	communityID   = "0"
)

// GEXFOptions adds optional node data to a GEXF document.
type GEXFOptions struct {
	// Positions are written as viz:position elements when len == N.
	Positions layout.Positions

	// Labels are written as the integer "community" attribute when len == N.
	Labels []int

	Creator     string
	Description string

	// Modified is the lastmodifieddate; zero means now.
	Modified time.Time
}

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	VizNS   string    `xml:"xmlns:viz,attr"`
	Version string    `xml:"version,attr"`
	Meta    gexfMeta  `xml:"meta"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfMeta struct {
	Modified    string `xml:"lastmodifieddate,attr"`
	Creator     string `xml:"creator,omitempty"`
	Description string `xml:"description,omitempty"`
}

type gexfGraph struct {
	EdgeType   string          `xml:"defaultedgetype,attr"`
	Mode       string          `xml:"mode,attr"`
	Attributes *gexfAttributes `xml:"attributes,omitempty"`
	Nodes      []gexfNode      `xml:"nodes>node"`
	Edges      []gexfEdge      `xml:"edges>edge"`
}

type gexfAttributes struct {
	Class string          `xml:"class,attr"`
	Attrs []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNode struct {
	ID       string        `xml:"id,attr"`
	Label    string        `xml:"label,attr"`
	Values   []gexfValue   `xml:"attvalues>attvalue,omitempty"`
	Position *gexfPosition `xml:"viz:position,omitempty"`
}

type gexfValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfPosition struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type gexfEdge struct {
	ID     string   `xml:"id,attr"`
	Source string   `xml:"source,attr"`
	Target string   `xml:"target,attr"`
	Weight *float64 `xml:"weight,attr,omitempty"`
}

// WriteGEXF encodes g as a GEXF 1.2 document and writes it to w.
// Edge weights are written only for weighted graphs.
func WriteGEXF(w io.Writer, g *graph.Graph, opts GEXFOptions) error {
	modified := opts.Modified
	if modified.IsZero() {
		modified = time.Now()
	}

	doc := gexfDoc{
		XMLNS:   gexfNS,
		VizNS:   gexfVizNS,
		Version: "1.2",
		Meta: gexfMeta{
			Modified:    modified.Format(time.DateOnly),
			Creator:     opts.Creator,
			Description: opts.Description,
		},
		Graph: gexfGraph{
			EdgeType: "undirected",
			Mode:     "static",
			Nodes:    make([]gexfNode, g.N()),
			Edges:    make([]gexfEdge, g.EdgeCount()),
		},
	}
	if g.Directed() {
		doc.Graph.EdgeType = "directed"
	}

	withPos := len(opts.Positions) == g.N()
	withLabels := len(opts.Labels) == g.N()
	if withLabels {
		doc.Graph.Attributes = &gexfAttributes{
			Class: "node",
			Attrs: []gexfAttribute{{ID: communityID, Title: communityAttr, Type: "integer"}},
		}
	}

	for u := range g.N() {
		id := strconv.Itoa(u)
		n := gexfNode{ID: id, Label: id}
		if withLabels {
			n.Values = []gexfValue{{For: communityID, Value: strconv.Itoa(opts.Labels[u])}}
		}
		if withPos {
			n.Position = &gexfPosition{X: opts.Positions[u].X, Y: opts.Positions[u].Y}
		}
		doc.Graph.Nodes[u] = n
	}
	for i, e := range g.Edges() {
		ge := gexfEdge{ID: strconv.Itoa(i), Source: strconv.Itoa(e.U), Target: strconv.Itoa(e.V)}
		if g.Weighted() {
			w := e.Weight
			ge.Weight = &w
		}
		doc.Graph.Edges[i] = ge
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportGEXF writes g to a GEXF file at path.
func ExportGEXF(g *graph.Graph, opts GEXFOptions, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGEXF(f, g, opts)
}

// Decoding uses separate types because encoding/xml resolves the viz prefix
// to its namespace URL on read.
type gexfInput struct {
	Graph struct {
		EdgeType string `xml:"defaultedgetype,attr"`
		Nodes    []struct {
			ID       string        `xml:"id,attr"`
			Values   []gexfValue   `xml:"attvalues>attvalue"`
			Position *gexfPosition `xml:"http://gexf.net/1.2/viz position"`
		} `xml:"nodes>node"`
		Edges []gexfEdge `xml:"edges>edge"`
	} `xml:"graph"`
}

// Imported is a graph read back from GEXF together with its node data.
type Imported struct {
	Graph     *graph.Graph
	Positions layout.Positions
	Labels    []int
}

// ReadGEXF decodes a GEXF document written by [WriteGEXF].
//
// Node ids must be the integers 0..N-1. The graph is weighted when any edge
// carries a weight attribute; edges without one get [graph.DefaultWeight].
// Positions and Labels are nil unless every node carries them.
func ReadGEXF(r io.Reader) (*Imported, error) {
	var in gexfInput
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	n := len(in.Graph.Nodes)
	out := &Imported{
		Positions: make(layout.Positions, n),
		Labels:    make([]int, n),
	}
	seen := make([]bool, n)
	hasPos, hasLabels := n > 0, n > 0

	for _, nd := range in.Graph.Nodes {
		u, err := nodeIndex(nd.ID, n)
		if err != nil {
			return nil, err
		}
		if seen[u] {
			return nil, fmt.Errorf("duplicate node id %q", nd.ID)
		}
		seen[u] = true

		if nd.Position != nil {
			out.Positions[u].X, out.Positions[u].Y = nd.Position.X, nd.Position.Y
		} else {
			hasPos = false
		}
		label, ok := communityValue(nd.Values)
		if !ok {
			hasLabels = false
		}
		out.Labels[u] = label
	}
	if !hasPos {
		out.Positions = nil
	}
	if !hasLabels {
		out.Labels = nil
	}

	directed := in.Graph.EdgeType == "directed"
	b := graph.NewBuilder(n, directed)
	weights := make(map[[2]int]float64, len(in.Graph.Edges))
	weighted := false
	for _, e := range in.Graph.Edges {
		u, err := nodeIndex(e.Source, n)
		if err != nil {
			return nil, err
		}
		v, err := nodeIndex(e.Target, n)
		if err != nil {
			return nil, err
		}
		added, err := b.AddEdge(u, v)
		if err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e.Source, e.Target, err)
		}
		if !added {
			continue
		}
		if !directed && u > v {
			u, v = v, u
		}
		w := graph.DefaultWeight
		if e.Weight != nil {
			w, weighted = *e.Weight, true
		}
		weights[[2]int{u, v}] = w
	}

	g := b.Build()
	if weighted {
		ws := make([]float64, g.EdgeCount())
		for i, e := range g.Edges() {
			ws[i] = weights[[2]int{e.U, e.V}]
		}
		var err error
		if g, err = g.WithWeights(ws); err != nil {
			return nil, err
		}
	}
	out.Graph = g
	return out, nil
}

// ImportGEXF reads a GEXF file from path.
func ImportGEXF(path string) (*Imported, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGEXF(f)
}

func nodeIndex(id string, n int) (int, error) {
	u, err := strconv.Atoi(id)
	if err != nil || u < 0 || u >= n {
		return 0, fmt.Errorf("node id %q is not in [0, %d)", id, n)
	}
	return u, nil
}

func communityValue(vals []gexfValue) (int, bool) {
	for _, v := range vals {
		if v.For != communityID {
			continue
		}
		label, err := strconv.Atoi(v.Value)
		return label, err == nil
	}
	return 0, false
}
