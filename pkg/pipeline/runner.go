package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphsynth/pkg/cache"
	"github.com/matzehuels/graphsynth/pkg/errors"
	gsio "github.com/matzehuels/graphsynth/pkg/io"
	"github.com/matzehuels/graphsynth/pkg/observability"
	"github.com/matzehuels/graphsynth/pkg/render"
)

// =============================================================================
// Output Formats
// =============================================================================

const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatGEXF = "gexf"
	FormatJSON = "json"
)

// Formats lists the artifact formats in render order.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatGEXF, FormatJSON}

// ValidFormats is the set of accepted formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatGEXF: true,
	FormatJSON: true,
}

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatSVG}

// =============================================================================
// Options and Result
// =============================================================================

// Options configures one Runner.Execute call.
type Options struct {
	Config Config `json:"config"`

	// Formats selects artifacts; see Formats.
	Formats []string `json:"formats"`

	// Labels prints node ids in SVG, PNG and DOT output.
	Labels bool `json:"labels"`

	// EdgeLabels prints edge weights in SVG, PNG and DOT output.
	EdgeLabels bool `json:"edge_labels"`

	// Refresh skips cache reads; fresh artifacts are still written.
	Refresh bool `json:"-"`
}

// ValidateAndSetDefaults lowercases and deduplicates Formats, applies
// DefaultFormats and rejects unknown formats with INVALID_FORMAT.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "formats: unsupported value %q (want one of %s)",
				f, strings.Join(Formats, ", "))
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	return nil
}

// Result is the output of Runner.Execute.
type Result struct {
	Graph     *RenderedGraph
	Artifacts map[string][]byte

	// ConfigHash identifies the effective config; empty for unseeded runs.
	ConfigHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records execution metrics.
type Stats struct {
	GenerateTime time.Duration
	RenderTime   time.Duration
	NodeCount    int
	EdgeCount    int
}

// CacheInfo reports how the cache was used.
type CacheInfo struct {
	// Cacheable is false for unseeded runs, which never touch the cache.
	Cacheable bool

	// RenderHit is true when every artifact came from the cache.
	RenderHit bool
}

// =============================================================================
// Runner
// =============================================================================

// Runner generates graphs and renders their artifacts with caching.
// Both the CLI and the HTTP server use it.
//
// Artifacts are cached only when the config carries a seed, because only
// then does the config determine the output. Runs always regenerate the
// graph; rendering is what the cache saves.
//
// A Runner is safe for concurrent use unless Pipeline is set, in which case
// runs are serialized through it.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Pipeline, when set, holds the state of the latest run.
	Pipeline *Pipeline
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute generates a graph for opts.Config and renders opts.Formats.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cfg := opts.Config
	cfg.Normalize()

	result := &Result{}

	genStart := time.Now()
	rg, err := r.generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.Graph = rg
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.NodeCount = rg.Graph().N()
	result.Stats.EdgeCount = rg.Graph().EdgeCount()

	r.Logger.Info("generated graph",
		"model", cfg.Model,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"seed", rg.Seed(),
		"duration", result.Stats.GenerateTime)
	if l := rg.Layout(); l.Fallback {
		r.Logger.Warn("layout fell back", "requested", l.Requested, "used", l.Used, "reason", l.Reason)
	}
	if a, ok := rg.Communities(); ok && a.Fallback {
		r.Logger.Warn("partition fell back", "reason", a.Reason)
	}

	if cfg.Seed != nil {
		hash, err := cache.HashJSON(cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash config")
		}
		result.ConfigHash = hash
		result.CacheInfo.Cacheable = true
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, rg, result.ConfigHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) generate(ctx context.Context, cfg Config) (*RenderedGraph, error) {
	if r.Pipeline != nil {
		return r.Pipeline.Generate(ctx, cfg)
	}
	return Synthesize(ctx, cfg)
}

// RenderWithCacheInfo renders the requested formats for rg, reading and
// writing the cache when configHash is non-empty. It reports whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rg *RenderedGraph, configHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()
	key := func(format string) string {
		return r.Keyer.ArtifactKey(configHash, cache.ArtifactKeyOpts{
			Format:     format,
			Labels:     opts.Labels,
			EdgeLabels: opts.EdgeLabels,
		})
	}

	if configHash != "" && !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, key(format))
			if err != nil {
				r.Logger.Debug("cache read failed", "format", format, "error", err)
			}
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	artifacts, err := Render(ctx, rg, opts)
	if err != nil {
		return nil, false, err
	}

	if configHash != "" {
		for format, data := range artifacts {
			if err := r.Cache.Set(ctx, key(format), data, cache.DefaultTTL); err != nil {
				r.Logger.Debug("cache write failed", "format", format, "error", err)
				continue
			}
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Rendering
// =============================================================================

// Render produces the artifacts for rg without caching. opts.Formats must
// already be validated.
func Render(ctx context.Context, rg *RenderedGraph, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	ctx, span := tracer.Start(ctx, "pipeline.render")
	defer span.End()

	cfg := rg.Config()
	g := rg.Graph()
	dot := render.ToDOT(g, rg.Positions(), rg.Labels(), render.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Labels:     opts.Labels,
		EdgeLabels: opts.EdgeLabels,
	})

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatSVG:
			data, err = render.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = render.RenderPNG(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatGEXF:
			var buf bytes.Buffer
			err = gsio.WriteGEXF(&buf, g, gsio.GEXFOptions{
				Positions:   rg.Positions(),
				Labels:      rg.Labels(),
				Creator:     "graphsynth",
				Description: fmt.Sprintf("%s graph, seed %d", cfg.Model, rg.Seed()),
				Modified:    rg.GeneratedAt(),
			})
			data = buf.Bytes()
		case FormatJSON:
			var buf bytes.Buffer
			err = gsio.WriteMetrics(&buf, rg.Metrics())
			data = buf.Bytes()
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
