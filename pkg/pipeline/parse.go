package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/dlvis/pkg/cache"
	"github.com/matzehuels/dlvis/pkg/graph"
	dlio "github.com/matzehuels/dlvis/pkg/io"
	"github.com/matzehuels/dlvis/pkg/observability"
)

// Parse decodes a TOML graph description. Links are not checked here:
// dangling relations are reported by the layout stage, dangling flows are
// dropped there.
func Parse(ctx context.Context, data []byte) (*graph.Graph, error) {
	start := time.Now()
	g, err := dlio.ParseTOML(data)
	n := 0
	if g != nil {
		n = g.Len()
	}
	observability.Pipeline().OnParseComplete(ctx, n, time.Since(start), err)
	return g, err
}

// GraphHash returns the content hash of g's canonical TOML encoding.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := dlio.MarshalTOML(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
