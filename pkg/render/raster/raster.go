// Package raster renders a layout to PNG without external tools.
package raster

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/matzehuels/dlvis/pkg/layout"
)

// MaxPixels caps the rendered image area.
const MaxPixels = 64 << 20

const margin = 10.0

// RenderPNG rasterizes res at the given scale (1 = one pixel per layout unit).
func RenderPNG(res *layout.Result, scale float64) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}

	minX, minY, maxX, maxY := res.Bounds()
	w := int(math.Ceil((maxX - minX + 2*margin) * scale))
	h := int(math.Ceil((maxY - minY + 2*margin) * scale))
	if w <= 0 || h <= 0 || w*h > MaxPixels {
		return nil, fmt.Errorf("image size %dx%d out of range", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.Scale(scale, scale)
	dc.Translate(margin-minX, margin-minY)

	for _, b := range res.Boxes {
		dc.DrawRectangle(b.Left, b.Upper, b.Width(), b.Height())
		dc.SetRGB(1, 1, 1)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(b.ID), (b.Left+b.Right)/2, (b.Upper+b.Lower)/2, 0.5, 0.5)
	}

	dc.SetRGB(0, 0, 0)
	for _, l := range res.Lines {
		width := 2.0
		if l.Kind == layout.LineConnector {
			width = 1
		}
		dc.SetLineWidth(width)
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
