// Package community partitions graph nodes into communities by modularity
// optimization and reinforces intra-community edges.
//
// [Partition] runs Louvain (greedy local moving with aggregation) on the
// weighted undirected projection. When the optimizer cannot run, the
// partition falls back to round-robin labels; the fallback is reported on the
// result rather than returned as an error. [Reinforce] is a separate step
// that doubles intra-community weights.
package community

import (
	"fmt"
	"math"
	"math/rand/v2"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"

	"github.com/matzehuels/graphsynth/pkg/graph"
)

// Resolution is the modularity resolution used by Partition.
const Resolution = 1.0

// ReinforcedWeight is assigned to intra-community edges of unweighted graphs.
const ReinforcedWeight = 2.0

// Assignment maps each node to a community label in [0, Count).
type Assignment struct {
	// Labels holds the label of node i at index i.
	Labels []int `json:"labels"`

	// Count is the number of distinct labels.
	Count int `json:"count"`

	// Modularity is Q of Labels on the undirected projection.
	Modularity float64 `json:"modularity"`

	// Fallback is set when round-robin labels replaced the optimizer result.
	Fallback bool `json:"fallback"`

	// Reason describes why the fallback was taken.
	Reason string `json:"reason,omitempty"`
}

// Clone returns a deep copy of a.
func (a Assignment) Clone() Assignment {
	c := a
	c.Labels = append([]int(nil), a.Labels...)
	return c
}

// Sizes returns the number of nodes per label.
func (a Assignment) Sizes() []int {
	sizes := make([]int, a.Count)
	for _, l := range a.Labels {
		sizes[l]++
	}
	return sizes
}

// Partition labels the nodes of g. The requested target only shapes the
// round-robin fallback; the optimizer chooses its own community count.
// A target below 1 is treated as 1.
func Partition(g *graph.Graph, target int, rng *rand.Rand) Assignment {
	target = max(1, target)
	if g.N() < 2 || g.EdgeCount() == 0 {
		return fallback(g, target, "graph has no edges to optimize")
	}
	a, err := louvain(g, rng)
	if err != nil {
		return fallback(g, target, err.Error())
	}
	return a
}

// RoundRobin labels node i with i mod k.
func RoundRobin(n, k int) Assignment {
	k = max(1, k)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i % k
	}
	return Assignment{Labels: labels, Count: min(n, k)}
}

// Reinforce returns a weighted copy of g where every edge inside a community
// carries twice its weight, or [ReinforcedWeight] when g is unweighted.
// Edges between communities keep their weight (graph.DefaultWeight when g is
// unweighted).
func Reinforce(g *graph.Graph, a Assignment) (*graph.Graph, error) {
	if len(a.Labels) != g.N() {
		return nil, fmt.Errorf("reinforce: %d labels for %d nodes", len(a.Labels), g.N())
	}
	ws := g.Weights()
	for i, e := range g.Edges() {
		if a.Labels[e.U] != a.Labels[e.V] {
			continue
		}
		if g.Weighted() {
			ws[i] *= 2
		} else {
			ws[i] = ReinforcedWeight
		}
	}
	return g.WithWeights(ws)
}

func louvain(g *graph.Graph, rng *rand.Rand) (a Assignment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("modularity optimization: %v", r)
		}
	}()

	wg := g.WeightedUndirected()
	reduced := community.Modularize(wg, Resolution, rng)
	labels, count := relabel(g.N(), reduced.Communities())
	if count == 0 {
		return Assignment{}, fmt.Errorf("modularity optimization returned no communities")
	}
	return Assignment{
		Labels:     labels,
		Count:      count,
		Modularity: modularity(g, labels, count),
	}, nil
}

func fallback(g *graph.Graph, target int, reason string) Assignment {
	a := RoundRobin(g.N(), target)
	a.Fallback = true
	a.Reason = reason
	a.Modularity = modularity(g, a.Labels, a.Count)
	return a
}

// relabel numbers communities densely in order of their smallest node id.
func relabel(n int, comms [][]gonumgraph.Node) ([]int, int) {
	raw := make([]int, n)
	for i := range raw {
		raw[i] = -1
	}
	for c, members := range comms {
		for _, node := range members {
			if id := int(node.ID()); id >= 0 && id < n {
				raw[id] = c
			}
		}
	}

	next := 0
	seen := make(map[int]int)
	labels := make([]int, n)
	for i, c := range raw {
		if c < 0 {
			// A node missing from the reduction forms its own community.
			labels[i] = next
			next++
			continue
		}
		l, ok := seen[c]
		if !ok {
			l = next
			seen[c] = l
			next++
		}
		labels[i] = l
	}
	return labels, next
}

// modularity scores labels with gonum's Q. Graphs without edges score 0.
func modularity(g *graph.Graph, labels []int, count int) float64 {
	if g.EdgeCount() == 0 || count == 0 {
		return 0
	}
	wg := g.WeightedUndirected()
	comms := make([][]gonumgraph.Node, count)
	for id, l := range labels {
		comms[l] = append(comms[l], wg.Node(int64(id)))
	}
	q := community.Q(wg, comms, Resolution)
	if math.IsNaN(q) {
		return 0
	}
	return q
}
