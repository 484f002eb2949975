package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dlvis/pkg/graph"
)

// Geometry constants, in abstract layout units.
const (
	// BaseSize is the side length of a box without depth overlay.
	BaseSize = 100.0
	// Spacing is the preferred gap between aligned boxes.
	Spacing = 60.0
	// OverlayFactor scales dimension[0] into extra box size and connector offsets.
	OverlayFactor = 0.1
	// LineSpacing keeps line endpoints clear of box borders.
	LineSpacing = Spacing / 2 / 3
)

// Default canvas size suggested to the solver.
const (
	DefaultCanvasWidth  = 1280.0
	DefaultCanvasHeight = 600.0
)

// Size is a canvas size hint.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options configures a layout computation.
type Options struct {
	// Canvas is suggested to the solver as the canvas size. Zero fields fall
	// back to the defaults.
	Canvas Size
	// Pin fixes edges of the start node to the canvas border.
	Pin graph.Pins
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// DefaultOptions returns the default canvas with no pins.
func DefaultOptions() Options {
	return Options{Canvas: Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}}
}

func (o Options) withDefaults() Options {
	if o.Canvas.Width == 0 {
		o.Canvas.Width = DefaultCanvasWidth
	}
	if o.Canvas.Height == 0 {
		o.Canvas.Height = DefaultCanvasHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// BoxSize returns the side length of a node's box: BaseSize, grown by
// BaseSize * dimension[0] * OverlayFactor when the dimension has more than
// three entries.
func BoxSize(dimension []int) float64 {
	if len(dimension) > 3 {
		return BaseSize + BaseSize*float64(dimension[0])*OverlayFactor
	}
	return BaseSize
}
