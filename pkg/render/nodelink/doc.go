// Package nodelink renders the structure of a discovered graph as a
// node-link diagram.
//
// # Overview
//
// Where the layout renderers draw solved boxes, this package shows the
// graph itself: which nodes were reached, which data flows connect them and,
// optionally, which spatial relations tie them together. Graphviz computes
// positions.
//
// # Usage
//
//	d, _ := layout.Discover(g, nil)
//	dot := nodelink.ToDOT(d, nodelink.Options{Alignments: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes. The start node has a heavy border. Skip connections are bold and
// blue, transform edges dotted and labeled with their operation.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
