package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/internal/server"
	"github.com/matzehuels/dlvis/pkg/cache"
	"github.com/matzehuels/dlvis/pkg/observability"
	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		cacheURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

  POST /v1/layout            TOML body, JSON layout response
  POST /v1/render/{format}   TOML body, rendered artifact
  GET  /healthz
  GET  /metrics              Prometheus metrics

With --cache-url (or ` + cacheURLEnv + `), results are shared through Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cacheURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheURL, "cache-url", os.Getenv(cacheURLEnv), "redis URL for the shared cache (default: file cache)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, cacheURL string, noCache bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewPrometheus(reg)
	observability.SetPipelineHooks(prom)
	observability.SetCacheHooks(prom)
	defer observability.Reset()

	var (
		cc  cache.Cache
		err error
	)
	switch {
	case noCache:
		cc = cache.NewNullCache()
	case cacheURL != "":
		cc, err = cache.NewRedisCache(ctx, cacheURL)
	default:
		cc, err = newCache(ctx, false)
	}
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	runner := pipeline.NewRunner(cc, newKeyer(), c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Runner:  runner,
		Logger:  c.Logger,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})
	return srv.ListenAndServe(ctx, addr)
}
