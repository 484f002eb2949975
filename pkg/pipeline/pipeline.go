// Package pipeline runs the parse → layout → render pipeline for dlvis.
//
// The CLI and the HTTP service both go through a [Runner], so caching,
// defaults and validation behave the same from every entry point.
//
// # Stages
//
//  1. Parse: decode a TOML graph description
//  2. Layout: discover the graph from its start node and solve coordinates
//  3. Render: produce SVG, TikZ, PNG, PDF, DOT or JSON output
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, description, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Parse(ctx, description)
//	res, hit, err := runner.Layout(ctx, g, opts)
//	artifacts, hit, err := runner.Render(ctx, g, res, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dlvis/pkg/cache"
	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/layout"
)

// Defaults shared by the CLI and the HTTP service.
const (
	DefaultWidth  = layout.DefaultCanvasWidth
	DefaultHeight = layout.DefaultCanvasHeight
	DefaultScale  = 2.0
)

// Cache lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatTikZ = "tikz"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatTikZ, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// PinNone disables every pin, overriding the description's start_align_*.
const PinNone = "none"

// Options configures a pipeline run. It is the request body of the HTTP
// service, hence the JSON tags.
type Options struct {
	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// Pins overrides the description's start_align_* flags when non-nil.
	// Values: left, right, top, bottom, none.
	Pins []string `json:"pins,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Alignments bool     `json:"alignments,omitempty"`

	// Refresh bypasses cache lookups; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *graph.Graph
	GraphHash string
	Layout    *layout.Result
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount  int
	LineCount  int
	Undrawn    int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParsePins converts pin names into Pins.
func ParsePins(names []string) (graph.Pins, error) {
	var p graph.Pins
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "left":
			p.Left = true
		case "right":
			p.Right = true
		case "top", "up":
			p.Top = true
		case "bottom", "down":
			p.Bottom = true
		case PinNone, "":
		default:
			return graph.Pins{}, errors.New(errors.ErrCodeInvalidInput, "invalid pin: %q (must be one of: left, right, top, bottom, none)", name)
		}
	}
	return p, nil
}

// SetLayoutDefaults fills zero layout fields.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and checks canvas and pins.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	_, err := ParsePins(o.Pins)
	return err
}

// SetRenderDefaults fills zero render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies all defaults and checks every option.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// LayoutOptions resolves the solver options for g.
func (o *Options) LayoutOptions(g *graph.Graph) (layout.Options, error) {
	pins := g.Align
	if o.Pins != nil {
		p, err := ParsePins(o.Pins)
		if err != nil {
			return layout.Options{}, err
		}
		pins = p
	}
	return layout.Options{
		Canvas: layout.Size{Width: o.Width, Height: o.Height},
		Pin:    pins,
		Logger: o.Logger,
	}, nil
}

// LayoutKeyOpts returns cache key options for a layout of g.
func (o *Options) LayoutKeyOpts(g *graph.Graph) (cache.LayoutKeyOpts, error) {
	lo, err := o.LayoutOptions(g)
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{
		Width:     lo.Canvas.Width,
		Height:    lo.Canvas.Height,
		PinLeft:   lo.Pin.Left,
		PinRight:  lo.Pin.Right,
		PinTop:    lo.Pin.Top,
		PinBottom: lo.Pin.Bottom,
	}, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatSVG, FormatPDF:
		k.Labels = o.Labels
	case FormatDOT:
		k.Alignments = o.Alignments
	}
	return k
}
