package cli

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphsynth/internal/server"
	"github.com/matzehuels/graphsynth/pkg/cache"
	"github.com/matzehuels/graphsynth/pkg/pipeline"
)

// RedisURLEnv selects a shared Redis cache for serve.
const RedisURLEnv = "GRAPHSYNTH_REDIS_URL"

// serveKeyPrefix keeps server entries apart from CLI entries in a shared cache.
const serveKeyPrefix = "serve:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the generation API over HTTP.

Endpoints:
  POST /v1/generate   generate a graph and return its artifacts
  GET  /v1/models     list models, layouts, distributions and formats
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

Artifacts are cached on disk, or in Redis when ` + RedisURLEnv + ` is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var store cache.Cache
			switch url := os.Getenv(RedisURLEnv); {
			case noCache:
				store = cache.NewNullCache()
			case url != "":
				rc, err := cache.NewRedisCache(ctx, url)
				if err != nil {
					return err
				}
				c.Logger.Info("using redis cache")
				store = rc
			default:
				fc, err := newCache(false)
				if err != nil {
					return err
				}
				store = fc
			}

			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, serveKeyPrefix), c.Logger)
			defer runner.Close()

			server.NewMetrics(prometheus.DefaultRegisterer).Register()
			return server.New(runner, c.Logger, prometheus.DefaultGatherer).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
