package pipeline

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphsynth/pkg/analysis"
	"github.com/matzehuels/graphsynth/pkg/community"
	"github.com/matzehuels/graphsynth/pkg/graph"
	"github.com/matzehuels/graphsynth/pkg/layout"
)

// RenderedGraph is the immutable result of one generation run. Accessors
// return copies, so callers cannot alter a result other readers share.
type RenderedGraph struct {
	id          uuid.UUID
	seed        uint64
	config      Config
	graph       *graph.Graph
	assignment  *community.Assignment
	layout      layout.Result
	metrics     analysis.Metrics
	timings     Timings
	generatedAt time.Time
}

// Timings records the wall time spent in each stage.
type Timings struct {
	Generate  time.Duration `json:"generate"`
	Weights   time.Duration `json:"weights"`
	Partition time.Duration `json:"partition"`
	Layout    time.Duration `json:"layout"`
	Analyze   time.Duration `json:"analyze"`
}

// Total is the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Generate + t.Weights + t.Partition + t.Layout + t.Analyze
}

// ID returns the run id.
func (r *RenderedGraph) ID() string { return r.id.String() }

// Seed returns the seed the run used, drawn or configured.
func (r *RenderedGraph) Seed() uint64 { return r.seed }

// Config returns the configuration of the run with the seed fixed, so that
// generating it again reproduces this result.
func (r *RenderedGraph) Config() Config {
	return r.config.WithSeed(r.seed)
}

// Graph returns the final graph. Graphs are immutable.
func (r *RenderedGraph) Graph() *graph.Graph { return r.graph }

// Weights returns the edge weights in edge order.
func (r *RenderedGraph) Weights() []float64 { return r.graph.Weights() }

// Communities returns the community assignment, if partitioning ran.
func (r *RenderedGraph) Communities() (community.Assignment, bool) {
	if r.assignment == nil {
		return community.Assignment{}, false
	}
	return r.assignment.Clone(), true
}

// Labels returns the community label per node, or nil when partitioning
// did not run.
func (r *RenderedGraph) Labels() []int {
	if r.assignment == nil {
		return nil
	}
	return slices.Clone(r.assignment.Labels)
}

// Layout returns the normalized layout.
func (r *RenderedGraph) Layout() layout.Result {
	res := r.layout
	res.Positions = r.layout.Positions.Clone()
	return res
}

// Positions returns the normalized node positions.
func (r *RenderedGraph) Positions() layout.Positions {
	return r.layout.Positions.Clone()
}

// Metrics returns the computed metrics.
func (r *RenderedGraph) Metrics() analysis.Metrics {
	m := r.metrics
	if m.Weights != nil {
		ws := *m.Weights
		m.Weights = &ws
	}
	return m
}

// Timings returns per-stage durations.
func (r *RenderedGraph) Timings() Timings { return r.timings }

// GeneratedAt returns when the run finished.
func (r *RenderedGraph) GeneratedAt() time.Time { return r.generatedAt }

// Summary is a JSON-friendly view of a RenderedGraph without positions or
// edges.
type Summary struct {
	ID          string                `json:"id"`
	Seed        uint64                `json:"seed"`
	Config      Config                `json:"config"`
	Metrics     analysis.Metrics      `json:"metrics"`
	Layout      LayoutSummary         `json:"layout"`
	Communities *community.Assignment `json:"communities,omitempty"`
	Timings     Timings               `json:"timings"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// LayoutSummary reports which layout produced the positions.
type LayoutSummary struct {
	Requested string `json:"requested"`
	Used      string `json:"used"`
	Fallback  bool   `json:"fallback"`
	Reason    string `json:"reason,omitempty"`
}

// Summary returns the JSON-friendly view of r.
func (r *RenderedGraph) Summary() Summary {
	s := Summary{
		ID:      r.ID(),
		Seed:    r.seed,
		Config:  r.Config(),
		Metrics: r.Metrics(),
		Layout: LayoutSummary{
			Requested: r.layout.Requested.String(),
			Used:      r.layout.Used.String(),
			Fallback:  r.layout.Fallback,
			Reason:    r.layout.Reason,
		},
		Timings:     r.timings,
		GeneratedAt: r.generatedAt,
	}
	if a, ok := r.Communities(); ok {
		s.Communities = &a
	}
	return s
}
