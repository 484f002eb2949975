// Package render turns a solved layout into output documents.
//
// # Overview
//
// Each subpackage consumes a [layout.Result] (or, for nodelink, the
// discovered graph) and produces bytes:
//
//   - [tikz]: TikZ drawing commands for LaTeX documents
//   - [svg]: standalone SVG
//   - [raster]: PNG through an in-process rasterizer
//   - [nodelink]: a Graphviz structure diagram of nodes and edges
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool
// (from librsvg):
//
//	doc := svg.Render(res, svg.WithLabels())
//	pdf, err := render.ToPDF(ctx, doc)
//
// [layout.Result]: github.com/matzehuels/dlvis/pkg/layout.Result
// [tikz]: github.com/matzehuels/dlvis/pkg/render/tikz
// [svg]: github.com/matzehuels/dlvis/pkg/render/svg
// [raster]: github.com/matzehuels/dlvis/pkg/render/raster
// [nodelink]: github.com/matzehuels/dlvis/pkg/render/nodelink
package render
