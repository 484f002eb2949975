package layout

import (
	"math"
	"slices"
)

// Rect is a solved node box.
type Rect struct {
	ID    int     `json:"id"`
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	Upper float64 `json:"upper"`
	Lower float64 `json:"lower"`
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Lower - Upper.
func (r Rect) Height() float64 { return r.Lower - r.Upper }

// Line is a solved segment belonging to the flow Source -> Target.
type Line struct {
	Source int      `json:"source"`
	Target int      `json:"target"`
	Kind   LineKind `json:"kind"`
	X1     float64  `json:"x1"`
	Y1     float64  `json:"y1"`
	X2     float64  `json:"x2"`
	Y2     float64  `json:"y2"`
}

// Horizontal reports whether the segment runs along the x axis.
func (l Line) Horizontal() bool { return l.Y1 == l.Y2 }

// Result is a finished layout: the canvas size, one rect per discovered node
// sorted by id, and the line segments in flow order.
type Result struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Boxes   []Rect  `json:"boxes"`
	Lines   []Line  `json:"lines"`
	Undrawn int     `json:"undrawn,omitempty"` // transform flows without geometry
}

// Box returns the rect for node id.
func (r *Result) Box(id int) (Rect, bool) {
	i, ok := slices.BinarySearchFunc(r.Boxes, id, func(b Rect, id int) int { return b.ID - id })
	if !ok {
		return Rect{}, false
	}
	return r.Boxes[i], true
}

// LinesFor returns the segments drawn for the flow from source to target.
func (r *Result) LinesFor(source, target int) []Line {
	var out []Line
	for _, l := range r.Lines {
		if l.Source == source && l.Target == target {
			out = append(out, l)
		}
	}
	return out
}

// Bounds returns the smallest rectangle containing the canvas, every box and
// every line.
func (r *Result) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY, maxX, maxY = 0, 0, r.Width, r.Height
	grow := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, b := range r.Boxes {
		grow(b.Left, b.Upper)
		grow(b.Right, b.Lower)
	}
	for _, l := range r.Lines {
		grow(l.X1, l.Y1)
		grow(l.X2, l.Y2)
	}
	return minX, minY, maxX, maxY
}

// extract reads the settled solver values into a Result.
func (e *engine) extract() *Result {
	res := &Result{
		Width:  snap(e.width.Value()),
		Height: snap(e.height.Value()),
		Boxes:  make([]Rect, 0, len(e.d.Boxes)),
		Lines:  make([]Line, 0, len(e.lines)),
	}
	for _, b := range e.d.Boxes {
		res.Boxes = append(res.Boxes, b.solved())
	}
	slices.SortFunc(res.Boxes, func(a, b Rect) int { return a.ID - b.ID })

	for _, s := range e.lines {
		res.Lines = append(res.Lines, Line{
			Source: s.flow.Source,
			Target: s.flow.Target,
			Kind:   s.kind,
			X1:     snap(s.x1.Value()),
			Y1:     snap(s.y1.Value()),
			X2:     snap(s.x2.Value()),
			Y2:     snap(s.y2.Value()),
		})
	}
	return res
}

// solved reads the box's current solver values.
func (b *Box) solved() Rect {
	return Rect{
		ID:    b.ID,
		Left:  snap(b.Left.Value()),
		Right: snap(b.Right.Value()),
		Upper: snap(b.Upper.Value()),
		Lower: snap(b.Lower.Value()),
	}
}

// snap rounds solver noise away so equal coordinates compare equal.
func snap(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}
