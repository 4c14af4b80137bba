// Package pipeline orchestrates graph synthesis for graphsynth.
//
// A [Pipeline] turns a [Config] into an immutable [RenderedGraph] by running
// the stages in a fixed order:
//
//  1. Validate the config (CONFIG_ERROR on failure)
//  2. Seed the run's random source, drawing a seed when none is configured
//  3. Generate a graph from the selected model (GENERATION_ERROR on failure)
//  4. Assign edge weights, if enabled
//  5. Partition into communities and reinforce, if enabled
//  6. Orient the graph according to the directed flag
//  7. Lay out and normalize into the viewport
//  8. Analyze
//
// Partitioning and planar layout failures are recovered by fallbacks that
// are recorded on the result and never surface as errors.
//
// # State
//
// A Pipeline holds one "current" result and a state machine
// Idle → Generating → {Ready, Failed}. A failed run discards the previous
// result; there are no partial results.
//
// # Usage
//
//	p := pipeline.New()
//	cfg := pipeline.DefaultConfig()
//	cfg.Model = "small_world"
//	rg, err := p.Generate(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rg.Metrics().Diameter)
//
// The [Runner] wraps a Pipeline for the CLI and the server and renders
// artifacts (SVG, PNG, DOT, GEXF, JSON) with caching.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/graphsynth/pkg/analysis"
	"github.com/matzehuels/graphsynth/pkg/community"
	"github.com/matzehuels/graphsynth/pkg/errors"
	"github.com/matzehuels/graphsynth/pkg/graph"
	"github.com/matzehuels/graphsynth/pkg/layout"
	"github.com/matzehuels/graphsynth/pkg/models"
	"github.com/matzehuels/graphsynth/pkg/observability"
	"github.com/matzehuels/graphsynth/pkg/weights"
)

var tracer = otel.Tracer("github.com/matzehuels/graphsynth/pkg/pipeline")

// State is the lifecycle state of a Pipeline.
type State int

const (
	Idle State = iota
	Generating
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Pipeline runs generations and holds the most recent result.
// It is safe for concurrent use; Generate calls are serialized.
type Pipeline struct {
	run sync.Mutex

	mu      sync.RWMutex
	state   State
	current *RenderedGraph
	lastErr error
}

// New returns an idle pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Current returns the result of the last successful run, or nil.
func (p *Pipeline) Current() *RenderedGraph {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Err returns the error of the last run when the pipeline is Failed.
func (p *Pipeline) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Generate runs every stage for cfg and installs the result as current.
// On error the pipeline moves to Failed and the previous result is dropped.
// The context carries tracing only; a run is never cancelled midway.
func (p *Pipeline) Generate(ctx context.Context, cfg Config) (*RenderedGraph, error) {
	p.run.Lock()
	defer p.run.Unlock()

	p.transition(Generating, nil, nil)
	rg, err := Synthesize(ctx, cfg)
	if err != nil {
		p.transition(Failed, nil, err)
		return nil, err
	}
	p.transition(Ready, rg, nil)
	return rg, nil
}

func (p *Pipeline) transition(s State, rg *RenderedGraph, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
	p.lastErr = err
	if s != Generating {
		p.current = rg
	}
}

// Synthesize runs the stages without touching any pipeline state.
func Synthesize(ctx context.Context, cfg Config) (*RenderedGraph, error) {
	cfg.Normalize()
	ctx, span := tracer.Start(ctx, "pipeline.Generate",
		trace.WithAttributes(
			attribute.String("graph.model", cfg.Model),
			attribute.Int("graph.nodes", cfg.Nodes),
			attribute.String("graph.layout", cfg.Layout),
		))
	defer span.End()

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, cfg.Model, cfg.Nodes)
	start := time.Now()

	rg, err := synthesize(ctx, cfg)

	edges := 0
	if rg != nil {
		edges = rg.graph.EdgeCount()
	}
	hooks.OnGenerateComplete(ctx, cfg.Model, cfg.Nodes, edges, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.UserMessage(err))
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("graph.seed", int64(rg.seed)),
		attribute.Int("graph.edges", edges),
	)
	return rg, nil
}

func synthesize(ctx context.Context, cfg Config) (*RenderedGraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, alg, wspec, err := cfg.params()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "invalid configuration")
	}

	seed := drawSeed(cfg.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	rg := &RenderedGraph{id: uuid.New(), seed: seed, config: cfg}

	var g *graph.Graph
	err = stage(ctx, "generate", &rg.timings.Generate, func() error {
		var err error
		g, err = models.Generate(params, rng)
		if err != nil {
			return generationError(cfg, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cfg.Weights.Enabled {
		err = stage(ctx, "weights", &rg.timings.Weights, func() error {
			var err error
			g, err = weights.Assign(g, wspec, rng)
			if err != nil {
				return errors.Wrap(errors.ErrCodeConfig, err, "weights")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Communities.Enabled && cfg.Communities.Count >= 2 {
		err = stage(ctx, "partition", &rg.timings.Partition, func() error {
			a := community.Partition(g, cfg.Communities.Count, rng)
			if a.Fallback {
				observability.Pipeline().OnFallback(ctx, "partition", a.Reason)
			}
			if cfg.Communities.Reinforce {
				var err error
				if g, err = community.Reinforce(g, a); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "reinforce communities")
				}
			}
			rg.assignment = &a
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Directed {
		g = g.ToDirected()
	} else {
		g = g.ToUndirected()
	}
	rg.graph = g

	err = stage(ctx, "layout", &rg.timings.Layout, func() error {
		res, err := layout.Compute(g, alg, cfg.viewport(), rng)
		if err != nil {
			code := errors.ErrCodeLayout
			if stderrors.Is(err, layout.ErrUnknownAlgorithm) {
				code = errors.ErrCodeConfig
			}
			return errors.Wrap(code, err, "%s layout", cfg.Layout)
		}
		if res.Fallback {
			observability.Pipeline().OnFallback(ctx, "layout", res.Reason)
		}
		rg.layout = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, "analyze", &rg.timings.Analyze, func() error {
		rg.metrics = analysis.Analyze(g)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rg.generatedAt = time.Now()
	return rg, nil
}

// stage runs fn inside a child span and records its duration. A panic in
// fn is returned as an INTERNAL_ERROR naming the stage.
func stage(ctx context.Context, name string, elapsed *time.Duration, fn func() error) (err error) {
	_, span := tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = errors.New(errors.ErrCodeInternal, "%s stage panicked: %v", name, r)
			}
		}()
		err = fn()
	}()
	*elapsed = time.Since(start)
	observability.Pipeline().OnStage(ctx, name, *elapsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func generationError(cfg Config, err error) error {
	if stderrors.Is(err, models.ErrUnknownKind) || stderrors.Is(err, models.ErrTooFewNodes) {
		return errors.Wrap(errors.ErrCodeConfig, err, "model %s", cfg.Model)
	}
	return errors.Wrap(errors.ErrCodeGeneration, err, "%s on %d nodes", cfg.Model, cfg.Nodes)
}

func drawSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return rand.Uint64() & MaxSeed
}
