// Package pkg holds the libraries behind dlvis, a layout engine for neural
// network diagrams.
//
// # Overview
//
// A network is described as tensor nodes joined by spatial relations
// ("node 1 is left of node 2") and data flows ("node 1 passes to node 2").
// dlvis discovers the part of that graph reachable from a start node, turns
// every relation into linear constraints and solves for box positions, then
// routes a line for every pass and skip flow.
//
// # Architecture
//
//	TOML description
//	       ↓
//	  [io] package (parse into a graph)
//	       ↓
//	  [layout] package (discover, then solve with [solver])
//	       ↓
//	  [render] packages (TikZ, SVG, PNG, PDF, DOT)
//
// [pipeline] runs these stages with caching from [cache] and reports
// progress through [observability].
//
// # Quick Start
//
//	g, _ := io.ReadFile("resnet.toml")
//	res, err := layout.Layout(g, layout.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(tikz.Render(res, tikz.WithPicture()))
//
// # Packages
//
// [graph] holds nodes, relations and flows. [solver] is an incremental
// linear constraint solver with weighted preferences. [errors] carries the
// structured error codes shared by the CLI and the HTTP server.
//
// [io]: github.com/matzehuels/dlvis/pkg/io
// [layout]: github.com/matzehuels/dlvis/pkg/layout
// [solver]: github.com/matzehuels/dlvis/pkg/solver
// [render]: github.com/matzehuels/dlvis/pkg/render
// [pipeline]: github.com/matzehuels/dlvis/pkg/pipeline
// [cache]: github.com/matzehuels/dlvis/pkg/cache
// [observability]: github.com/matzehuels/dlvis/pkg/observability
// [graph]: github.com/matzehuels/dlvis/pkg/graph
// [errors]: github.com/matzehuels/dlvis/pkg/errors
package pkg
