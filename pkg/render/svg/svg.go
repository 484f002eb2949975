// Package svg renders a layout as a standalone SVG document.
//
// The view box covers the canvas and everything drawn, plus a margin, so
// layouts with negative coordinates are never clipped.
//
//	doc := svg.Render(res, svg.WithLabels(), svg.WithMargin(20))
package svg

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/dlvis/pkg/layout"
)

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	labels bool
	margin float64
}

const (
	stroke      = "black"
	strokeWidth = "2"
)

// WithLabels writes each node id at the center of its box.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithMargin sets the padding around the drawing.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// Render returns the SVG document for res.
func Render(res *layout.Result, opts ...Option) []byte {
	r := renderer{margin: 10}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := res.Bounds()
	minX, minY = minX-r.margin, minY-r.margin
	w, h := maxX-minX+r.margin, maxY-minY+r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(minX), num(minY), num(w), num(h), w, h)
	renderDefs(&buf)

	fmt.Fprintf(&buf, `  <g class="boxes" fill="white" stroke="%s" stroke-width="%s">`+"\n", stroke, strokeWidth)
	for _, b := range res.Boxes {
		fmt.Fprintf(&buf, `    <rect id="node-%d" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
			b.ID, num(b.Left), num(b.Upper), num(b.Width()), num(b.Height()))
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="lines" stroke="%s" stroke-width="%s">`+"\n", stroke, strokeWidth)
	for _, l := range res.Lines {
		fmt.Fprintf(&buf, `    <line class="%s" x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			l.Kind, num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), lineAttrs(l.Kind))
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		buf.WriteString(`  <g class="labels" font-family="sans-serif" font-size="20" text-anchor="middle" dominant-baseline="central">` + "\n")
		for _, b := range res.Boxes {
			fmt.Fprintf(&buf, `    <text x="%s" y="%s">%d</text>`+"\n",
				num((b.Left+b.Right)/2), num((b.Upper+b.Lower)/2), b.ID)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker>`+"\n", stroke)
	buf.WriteString("  </defs>\n")
}

// lineAttrs returns per-kind attributes: flows end in an arrow, connectors
// are drawn thin.
func lineAttrs(k layout.LineKind) string {
	switch k {
	case layout.LineConnector:
		return ` stroke-width="1"`
	case layout.LineTrunk:
		return ` stroke-dasharray="6 4" marker-end="url(#arrow)"`
	default:
		return ` marker-end="url(#arrow)"`
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
