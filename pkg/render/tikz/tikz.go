// Package tikz renders a layout as TikZ drawing commands.
//
// By default the output is the bare command list, one box per line followed
// by one line segment per line, ready to paste into a tikzpicture:
//
//	\filldraw[fill=white, draw=black] (0,0) rectangle (150,150);
//	\draw (160,75) -- (200,75);
//
// [WithPicture] wraps the commands in a tikzpicture environment that flips
// the y axis, since layout coordinates grow downward.
package tikz

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/dlvis/pkg/layout"
)

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	scale   float64
	picture bool
}

// WithScale multiplies every coordinate by s.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

// WithPicture wraps the output in a tikzpicture environment.
func WithPicture() Option { return func(r *renderer) { r.picture = true } }

// Render returns the TikZ commands for res.
func Render(res *layout.Result, opts ...Option) []byte {
	r := renderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if r.picture {
		buf.WriteString("\\begin{tikzpicture}[yscale=-1]\n")
	}
	for _, b := range res.Boxes {
		fmt.Fprintf(&buf, "\\filldraw[fill=white, draw=black] (%s,%s) rectangle (%s,%s);\n",
			r.num(b.Left), r.num(b.Upper), r.num(b.Right), r.num(b.Lower))
	}
	for _, l := range res.Lines {
		fmt.Fprintf(&buf, "\\draw (%s,%s) -- (%s,%s);\n",
			r.num(l.X1), r.num(l.Y1), r.num(l.X2), r.num(l.Y2))
	}
	if r.picture {
		buf.WriteString("\\end{tikzpicture}\n")
	}
	return buf.Bytes()
}

func (r renderer) num(v float64) string {
	return strconv.FormatFloat(v*r.scale, 'f', -1, 64)
}
