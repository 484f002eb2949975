package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recorder counts the layout events it sees.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	layouts int
	hits    int
	last    LayoutStats
}

func (r *recorder) OnLayoutComplete(_ context.Context, s LayoutStats, _ time.Duration, _ error) {
	r.layouts++
	r.last = s
}

func (r *recorder) OnCacheHit(context.Context, string) { r.hits++ }

func TestNoopHooksAcceptAllEvents(t *testing.T) {
	ctx := context.Background()
	var p PipelineHooks = NoopPipelineHooks{}
	p.OnParseComplete(ctx, 3, time.Millisecond, nil)
	p.OnLayoutStart(ctx, 3)
	p.OnLayoutComplete(ctx, LayoutStats{Nodes: 3, Lines: 2}, time.Millisecond, errors.New("infeasible"))
	p.OnRenderStart(ctx, []string{"tikz"})
	p.OnRenderComplete(ctx, []string{"tikz"}, time.Millisecond, nil)

	var c CacheHooks = NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 512)
}

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()
	rec := &recorder{}

	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	Pipeline().OnLayoutComplete(ctx, LayoutStats{Nodes: 4, Undrawn: 1}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")

	if rec.layouts != 1 || rec.last.Undrawn != 1 {
		t.Errorf("layout events = %d, last = %+v", rec.layouts, rec.last)
	}
	if rec.hits != 1 {
		t.Errorf("cache hits = %d, want 1", rec.hits)
	}

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	if Pipeline() != PipelineHooks(rec) || Cache() != CacheHooks(rec) {
		t.Error("nil hooks replaced the registered ones")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() after Reset = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() after Reset = %T", Cache())
	}
}
