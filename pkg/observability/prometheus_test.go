package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus(prometheus.NewRegistry())

	p.OnParseComplete(ctx, 3, time.Millisecond, nil)
	p.OnLayoutComplete(ctx, LayoutStats{Nodes: 3, Lines: 2, Dropped: 1, Undrawn: 2}, time.Millisecond, nil)
	p.OnLayoutComplete(ctx, LayoutStats{Undrawn: 5}, time.Millisecond, errors.New("infeasible"))
	p.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)

	if got := testutil.ToFloat64(p.undrawn); got != 2 {
		t.Errorf("undrawn = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.dropped); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(p.stageDuration); got != 4 {
		t.Errorf("stage series = %d, want 4", got)
	}

	p.OnCacheMiss(ctx, "layout")
	p.OnCacheSet(ctx, "layout", 100)
	p.OnCacheHit(ctx, "layout")
	p.OnCacheHit(ctx, "layout")

	if got := testutil.ToFloat64(p.cacheEvents.WithLabelValues("layout", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.cacheBytes.WithLabelValues("layout")); got != 100 {
		t.Errorf("bytes = %v, want 100", got)
	}
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)
	defer func() {
		if recover() == nil {
			t.Error("second NewPrometheus on the same registry did not panic")
		}
	}()
	NewPrometheus(reg)
}
