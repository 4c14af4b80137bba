// Package analysis derives descriptive statistics from a finished graph.
//
// [Analyze] is a pure function of its input. Structural measures that depend
// on undirected neighborhoods (connectivity, clustering, transitivity,
// diameter) are computed on the undirected projection. Measures that are
// undefined for a graph are reported as an [Optional] carrying a reason
// instead of a number.
package analysis

import (
	"encoding/json"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// Reasons attached to undefined metrics.
const (
	ReasonNotConnected  = "not connected"
	ReasonNotApplicable = "N/A"
)

// Optional is a metric that is either a number or a reason it is undefined.
type Optional struct {
	Value  float64
	Valid  bool
	Reason string
}

// Some returns a defined metric.
func Some(v float64) Optional { return Optional{Value: v, Valid: true} }

// None returns an undefined metric with the given reason.
func None(reason string) Optional { return Optional{Reason: reason} }

func (o Optional) String() string {
	if !o.Valid {
		return o.Reason
	}
	return strconv.FormatFloat(o.Value, 'f', 4, 64)
}

// MarshalJSON encodes a defined metric as a number and an undefined one as
// its reason string.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return json.Marshal(o.Reason)
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts either form written by MarshalJSON.
func (o *Optional) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*o = Some(v)
		return nil
	}
	var reason string
	if err := json.Unmarshal(data, &reason); err != nil {
		return err
	}
	*o = None(reason)
	return nil
}

// WeightStats summarizes edge weights.
type WeightStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Total float64 `json:"total"`
}

// Metrics is the result of Analyze.
type Metrics struct {
	Nodes             int          `json:"nodes"`
	Edges             int          `json:"edges"`
	Directed          bool         `json:"directed"`
	Weighted          bool         `json:"weighted"`
	Density           float64      `json:"density"`
	AverageDegree     float64      `json:"average_degree"`
	Assortativity     Optional     `json:"assortativity"`
	Connected         bool         `json:"connected"`
	Components        int          `json:"components"`
	AverageClustering float64      `json:"average_clustering"`
	Transitivity      float64      `json:"transitivity"`
	Diameter          Optional     `json:"diameter"`
	Weights           *WeightStats `json:"weights,omitempty"`
}

// Analyze computes Metrics for g.
func Analyze(g *graph.Graph) Metrics {
	n, e := g.N(), g.EdgeCount()
	m := Metrics{
		Nodes:    n,
		Edges:    e,
		Directed: g.Directed(),
		Weighted: g.Weighted(),
		Density:  density(n, e, g.Directed()),
	}
	if n > 0 {
		m.AverageDegree = 2 * float64(e) / float64(n)
	}
	m.Assortativity = assortativity(g)

	u := g.ToUndirected()
	m.Components = len(topo.ConnectedComponents(u.Undirected()))
	m.Connected = n > 0 && m.Components == 1
	m.AverageClustering, m.Transitivity = clustering(u)
	if m.Connected {
		m.Diameter = Some(diameter(u))
	} else {
		m.Diameter = None(ReasonNotConnected)
	}

	if g.Weighted() && e > 0 {
		ws := g.Weights()
		total := floats.Sum(ws)
		m.Weights = &WeightStats{
			Min:   floats.Min(ws),
			Max:   floats.Max(ws),
			Mean:  total / float64(len(ws)),
			Total: total,
		}
	}
	return m
}

// density is E / N(N−1), doubled for undirected graphs.
func density(n, e int, directed bool) float64 {
	if n <= 1 {
		return 0
	}
	d := float64(e) / float64(n*(n-1))
	if !directed {
		d *= 2
	}
	return d
}

// assortativity is the Pearson correlation of endpoint degrees over both
// orientations of every edge.
func assortativity(g *graph.Graph) Optional {
	if g.Directed() || g.EdgeCount() == 0 {
		return None(ReasonNotApplicable)
	}
	edges := g.Edges()
	x := make([]float64, 0, 2*len(edges))
	y := make([]float64, 0, 2*len(edges))
	for _, e := range edges {
		du, dv := float64(g.Degree(e.U)), float64(g.Degree(e.V))
		x = append(x, du, dv)
		y = append(y, dv, du)
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return None(ReasonNotApplicable)
	}
	return Some(r)
}

// clustering returns the mean local clustering coefficient (nodes of degree
// below two count as 0) and the global transitivity of undirected g.
func clustering(g *graph.Graph) (avg, transitivity float64) {
	n := g.N()
	if n == 0 {
		return 0, 0
	}
	var sum, closed, triples float64
	for u := range n {
		nbrs := g.Neighbors(u)
		k := len(nbrs)
		if k < 2 {
			continue
		}
		links := 0
		for i, a := range nbrs {
			for _, b := range nbrs[i+1:] {
				if g.HasEdge(a, b) {
					links++
				}
			}
		}
		pairs := float64(k*(k-1)) / 2
		sum += float64(links) / pairs
		closed += float64(links)
		triples += pairs
	}
	avg = sum / float64(n)
	if triples > 0 {
		transitivity = closed / triples
	}
	return avg, transitivity
}

// diameter is the longest shortest path in hops of connected, undirected g.
func diameter(g *graph.Graph) float64 {
	if g.N() < 2 {
		return 0
	}
	paths := path.DijkstraAllPaths(g.Undirected())
	longest := 0.0
	for u := range g.N() {
		for v := u + 1; v < g.N(); v++ {
			longest = math.Max(longest, paths.Weight(int64(u), int64(v)))
		}
	}
	return longest
}
