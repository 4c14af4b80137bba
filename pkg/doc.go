// Package pkg provides the core libraries for graphsynth graph synthesis.
//
// # Overview
//
// graphsynth builds graphs from classic random and deterministic models,
// decorates them with edge weights and community labels, places them in a
// rectangular viewport and reports structural metrics. The pkg directory
// holds one package per pipeline stage plus the shared infrastructure that
// the CLI and HTTP server build on.
//
// # Architecture
//
// The data flow of a single run:
//
//	Config
//	   ↓
//	[models] (generate the topology)
//	   ↓
//	[weights] (optional edge weights)
//	   ↓
//	[community] (optional partition and reinforcement)
//	   ↓
//	[layout] (positions inside the viewport)
//	   ↓
//	[analysis] (metrics)
//	   ↓
//	[render] / [io] (SVG, PNG, DOT, GEXF, JSON)
//
// # Quick Start
//
//	cfg := pipeline.DefaultConfig().WithSeed(42)
//	cfg.Model = "small_world"
//	cfg.Communities.Enabled = true
//
//	rg, err := pipeline.Synthesize(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rg.Metrics().AverageClustering)
//
// # Main Packages
//
// ## Pipeline Stages
//
// [graph] - Immutable graph value with contiguous integer node ids, plus a
// Builder used while a model wires edges.
//
// [models] - The thirteen generators, selected by name.
//
// [weights] - Edge weight distributions clamped to a configured range.
//
// [community] - Louvain partitioning via gonum with a round-robin fallback,
// and intra-community weight reinforcement.
//
// [layout] - Nine layout algorithms and viewport normalization.
//
// [analysis] - Density, degree, clustering, connectivity and diameter.
//
// ## Orchestration
//
// [pipeline] - Config validation, the Idle → Generating → Ready/Failed state
// machine, the cached Runner shared by CLI and server, and named presets.
//
// ## Output
//
// [render] - DOT generation and Graphviz rendering to SVG and PNG.
//
// [io] - GEXF import and export, metrics JSON and export file naming.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches behind one interface, with scoped
// key namespaces.
//
// [errors] - Coded errors and struct validation.
//
// [observability] - Hook points for metrics and OpenTelemetry tracing.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/graph
// [models]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/models
// [weights]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/weights
// [community]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/community
// [layout]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/layout
// [analysis]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/analysis
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphsynth/pkg/buildinfo
package pkg
