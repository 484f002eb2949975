package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements PipelineHooks and CacheHooks with Prometheus
// collectors.
type Prometheus struct {
	stageDuration *prometheus.HistogramVec
	layoutNodes   prometheus.Histogram
	undrawn       prometheus.Counter
	dropped       prometheus.Counter
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dlvis_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"stage", "outcome"},
		),
		layoutNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dlvis_layout_nodes",
				Help:    "Number of nodes placed per layout",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		undrawn: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dlvis_layout_undrawn_flows_total",
				Help: "Flows that produced no line geometry",
			},
		),
		dropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dlvis_layout_dropped_flows_total",
				Help: "Flows whose target was never discovered",
			},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dlvis_cache_events_total",
				Help: "Cache lookups and writes",
			},
			[]string{"key_type", "event"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dlvis_cache_written_bytes_total",
				Help: "Bytes written to the cache",
			},
			[]string{"key_type"},
		),
	}
	reg.MustRegister(p.stageDuration, p.layoutNodes, p.undrawn, p.dropped, p.cacheEvents, p.cacheBytes)
	return p
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnParseComplete(_ context.Context, _ int, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("parse", outcome(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnLayoutStart(context.Context, int) {}

func (p *Prometheus) OnLayoutComplete(_ context.Context, s LayoutStats, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("layout", outcome(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	p.layoutNodes.Observe(float64(s.Nodes))
	p.undrawn.Add(float64(s.Undrawn))
	p.dropped.Add(float64(s.Dropped))
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("render", outcome(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
)
