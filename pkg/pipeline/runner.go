package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dlvis/pkg/cache"
	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/layout"
	"github.com/matzehuels/dlvis/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state. Every layout owns its own solver, so one
// Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer.
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

// Execute parses a description, lays it out and renders every requested
// format.
func (r *Runner) Execute(ctx context.Context, description []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	result := &Result{}

	parseStart := time.Now()
	g, err := r.Parse(ctx, description)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.ParseTime = time.Since(parseStart)
	if result.GraphHash, err = GraphHash(g); err != nil {
		return nil, err
	}

	layoutStart := time.Now()
	res, hit, err := r.Layout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(res.Boxes)
	result.Stats.LineCount = len(res.Lines)
	result.Stats.Undrawn = res.Undrawn
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"boxes", len(res.Boxes),
		"lines", len(res.Lines),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.Render(ctx, g, res, opts)
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

// Parse decodes a description.
func (r *Runner) Parse(ctx context.Context, description []byte) (*graph.Graph, error) {
	g, err := Parse(ctx, description)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("parsed description", "nodes", g.Len(), "start", g.Start)
	return g, nil
}

// Layout returns the layout of g, from cache when possible. The boolean
// reports a cache hit.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (*layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	keyOpts, err := opts.LayoutKeyOpts(g)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(graphHash, keyOpts)

	if !opts.Refresh {
		if res, ok := r.cachedLayout(ctx, key); ok {
			return res, true, nil
		}
	}

	res, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, "layout", key, data, TTLLayout)
	}
	return res, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (*layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Debug("discarding unreadable cached layout", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return &res, true
}

// Render produces every format in opts.Formats for res. Cached artifacts are
// reused only when all formats hit; the boolean reports that case.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, res *layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	if slices.Contains(opts.Formats, FormatDOT) && g != nil {
		// dot output depends on the graph, not only on the solved layout.
		gh, err := GraphHash(g)
		if err != nil {
			return nil, false, err
		}
		layoutHash = cache.Hash([]byte(layoutHash + gh))
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFromLayout(ctx, g, res, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, TTLArtifact)
	}
	return rendered, false, nil
}

// LayoutBatch lays out independent graphs concurrently. Results are in
// input order. After the first error, or once ctx is done, graphs that have
// not started are skipped; a solve already running finishes.
func (r *Runner) LayoutBatch(ctx context.Context, graphs []*graph.Graph, opts Options) ([]*layout.Result, error) {
	results := make([]*layout.Result, len(graphs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, g := range graphs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, _, err := r.Layout(ctx, g, opts)
			if err != nil {
				return fmt.Errorf("graph %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
