package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/layout"
	"github.com/matzehuels/dlvis/pkg/render"
)

// Options configures structure diagram generation.
type Options struct {
	// Detailed adds the dimension vector to node labels.
	Detailed bool
	// Alignments draws spatial relations as dashed, undirected edges.
	Alignments bool
}

// ToDOT converts a discovered graph to Graphviz DOT.
// Nodes appear in discovery order; data-flow edges are solid, skip
// connections bold, and transform edges labeled with their operation.
func ToDOT(d *layout.Discovery, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range d.Order {
		n := d.Nodes[id]
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if id == d.Start {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, f := range d.Flows {
		attrs := fmtFlowAttrs(f)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(f.Source), nodeID(f.Target))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(f.Source), nodeID(f.Target), strings.Join(attrs, ", "))
	}

	if opts.Alignments {
		buf.WriteString("\n")
		for _, a := range d.Alignments {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none, constraint=false, color=grey, label=%q];\n",
				nodeID(a.Source), nodeID(a.Target), a.Dir.String()+" of")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return strconv.Itoa(id) }

func fmtLabel(n *graph.Node, detailed bool) string {
	id := nodeID(n.ID)
	if !detailed || len(n.Dimension) == 0 {
		return id
	}
	dims := make([]string, len(n.Dimension))
	for i, d := range n.Dimension {
		dims[i] = strconv.Itoa(d)
	}
	return id + "\n" + strings.Join(dims, "x")
}

func fmtFlowAttrs(f layout.FlowEdge) []string {
	switch f.Kind {
	case graph.FlowSkip:
		return []string{"style=bold", "color=blue"}
	case graph.FlowTransform:
		if f.Op == nil {
			return []string{"style=dotted"}
		}
		return []string{"style=dotted", fmt.Sprintf("label=%q", f.Op.Label())}
	default:
		return nil
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// unitless one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
