// Package cli implements the graphsynth command-line interface.
//
// # Commands
//
//   - generate: synthesize a graph and write SVG, PNG, DOT, GEXF or JSON
//   - models: list graph models, layouts and weight distributions
//   - tune: adjust parameters interactively and watch the result change
//   - serve: run the HTTP API
//   - preset: manage named configurations
//   - cache: manage the artifact cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands log to stderr through charmbracelet/log. --verbose switches
// to debug level and --trace writes OpenTelemetry spans to stderr.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphsynth/pkg/buildinfo"
	"github.com/matzehuels/graphsynth/pkg/cache"
	"github.com/matzehuels/graphsynth/pkg/observability"
	"github.com/matzehuels/graphsynth/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphsynth"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output; Err receives logs and traces.
	Out io.Writer
	Err io.Writer

	verbose  bool
	trace    bool
	shutdown observability.ShutdownFunc
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "graphsynth generates, lays out and analyzes synthetic graphs",
		Long:         `graphsynth builds graphs from classic random models, weights and partitions them, lays them out in a viewport, and reports structural metrics.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if !c.trace {
				return nil
			}
			shutdown, err := observability.InitTracing(c.Err, appName, buildinfo.Version)
			if err != nil {
				return err
			}
			c.shutdown = shutdown
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&c.trace, "trace", false, "write pipeline trace spans to stderr")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.modelsCommand())
	root.AddCommand(c.tuneCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Close flushes tracing, if enabled. It is safe to call more than once.
func (c *CLI) Close(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	shutdown := c.shutdown
	c.shutdown = nil
	if ctx == nil {
		ctx = context.Background()
	}
	return shutdown(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/graphsynth/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
