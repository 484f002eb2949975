package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/layout"
	"github.com/matzehuels/dlvis/pkg/observability"
	"github.com/matzehuels/dlvis/pkg/render"
	"github.com/matzehuels/dlvis/pkg/render/nodelink"
	"github.com/matzehuels/dlvis/pkg/render/raster"
	"github.com/matzehuels/dlvis/pkg/render/svg"
	"github.com/matzehuels/dlvis/pkg/render/tikz"
)

// RenderFromLayout produces every format in opts.Formats, without caching.
// g is only needed for the dot format and may be nil otherwise.
func RenderFromLayout(ctx context.Context, g *graph.Graph, res *layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		if data, err = renderFormat(ctx, g, res, format, opts); err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, g *graph.Graph, res *layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg.Render(res, svgOptions(opts)...), nil
	case FormatTikZ:
		return tikz.Render(res, tikz.WithPicture()), nil
	case FormatPNG:
		return raster.RenderPNG(res, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg.Render(res, svgOptions(opts)...))
	case FormatDOT:
		if g == nil {
			return nil, fmt.Errorf("dot output needs the graph")
		}
		d, err := layout.Discover(g, opts.Logger)
		if err != nil {
			return nil, err
		}
		return []byte(nodelink.ToDOT(d, nodelink.Options{Detailed: true, Alignments: opts.Alignments})), nil
	case FormatJSON:
		return json.MarshalIndent(res, "", "  ")
	default:
		return nil, ValidateFormat(format)
	}
}

func svgOptions(opts Options) []svg.Option {
	if opts.Labels {
		return []svg.Option{svg.WithLabels()}
	}
	return nil
}
