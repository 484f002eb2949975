package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/layout"
	"github.com/matzehuels/dlvis/pkg/observability"
)

// ComputeLayout discovers g from its start node and solves it, without
// caching.
func ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (*layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	lo, err := opts.LayoutOptions(g)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.Len())
	start := time.Now()

	var stats observability.LayoutStats
	res, err := solve(g, lo, &stats)
	hooks.OnLayoutComplete(ctx, stats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("layout solved",
		"nodes", stats.Nodes,
		"lines", stats.Lines,
		"dropped", stats.Dropped,
		"undrawn", stats.Undrawn)
	return res, nil
}

func solve(g *graph.Graph, lo layout.Options, stats *observability.LayoutStats) (*layout.Result, error) {
	d, err := layout.Discover(g, lo.Logger)
	if err != nil {
		return nil, err
	}
	stats.Nodes = len(d.Order)
	stats.Dropped = d.Dropped

	res, err := layout.Solve(d, lo)
	if err != nil {
		return nil, err
	}
	stats.Lines = len(res.Lines)
	stats.Undrawn = res.Undrawn
	return res, nil
}
