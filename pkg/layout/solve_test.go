package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
)

const eps = 1e-6

func mustLayout(t *testing.T, g *graph.Graph, opts Options) *Result {
	t.Helper()
	res, err := Layout(g, opts)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return res
}

func mustBox(t *testing.T, res *Result, id int) Rect {
	t.Helper()
	b, ok := res.Box(id)
	if !ok {
		t.Fatalf("no box for node %d", id)
	}
	return b
}

func TestLayoutScenario(t *testing.T) {
	g := scenario(t)
	res := mustLayout(t, g, Options{Pin: g.Align})

	if len(res.Boxes) != 3 {
		t.Fatalf("len(Boxes) = %d, want 3", len(res.Boxes))
	}
	b1, b2 := mustBox(t, res, 1), mustBox(t, res, 2)
	if b1.Left != 0 || b1.Upper != 0 {
		t.Errorf("box 1 at (%v, %v), want pinned to (0, 0)", b1.Left, b1.Upper)
	}
	if b1.Right+Spacing > b2.Left+eps {
		t.Errorf("box 1 right %v + spacing not left of box 2 left %v", b1.Right, b2.Left)
	}

	if len(res.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1: %+v", len(res.Lines), res.Lines)
	}
	if res.Undrawn != 1 {
		t.Errorf("Undrawn = %d, want 1", res.Undrawn)
	}
	l := res.Lines[0]
	if l.Source != 1 || l.Target != 2 || l.Kind != LinePass {
		t.Errorf("line = %+v, want pass 1 -> 2", l)
	}
	if !l.Horizontal() || l.Y1 != 75 {
		t.Errorf("line y = %v/%v, want horizontal at 75", l.Y1, l.Y2)
	}
	if l.X1 != b1.Right+LineSpacing || math.Abs(l.X2-(b2.Left-LineSpacing)) > eps {
		t.Errorf("line x = %v..%v, want %v..%v", l.X1, l.X2, b1.Right+LineSpacing, b2.Left-LineSpacing)
	}

	if res.Width != DefaultCanvasWidth || res.Height != DefaultCanvasHeight {
		t.Errorf("canvas = %vx%v, want default", res.Width, res.Height)
	}
}

func TestLayoutBoxSize(t *testing.T) {
	tests := []struct {
		name string
		dim  []int
		want float64
	}{
		{"empty", nil, BaseSize},
		{"three entries", []int{5, 512, 512}, BaseSize},
		{"four entries", []int{5, 512, 512, 1}, BaseSize * 1.5},
		{"zero channels", []int{0, 1, 1, 1}, BaseSize},
		{"deep", []int{3, 1, 1, 1, 1}, BaseSize * 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoxSize(tt.dim); math.Abs(got-tt.want) > eps {
				t.Errorf("BoxSize(%v) = %v, want %v", tt.dim, got, tt.want)
			}

			g := build(t, 1, &graph.Node{ID: 1, Dimension: tt.dim})
			b := mustBox(t, mustLayout(t, g, DefaultOptions()), 1)
			if b.Left > b.Right || b.Upper > b.Lower {
				t.Errorf("invalid box %+v", b)
			}
			if math.Abs(b.Width()-tt.want) > eps || math.Abs(b.Height()-tt.want) > eps {
				t.Errorf("box %vx%v, want side %v", b.Width(), b.Height(), tt.want)
			}
		})
	}
}

// star places node 1 in the middle with one neighbor per direction.
func star(t *testing.T) *graph.Graph {
	t.Helper()
	g := build(t, 1,
		&graph.Node{ID: 1, Relations: []graph.Relation{
			{Dir: graph.Left, Target: 2},
			{Dir: graph.Right, Target: 3},
			{Dir: graph.Above, Target: 4},
			{Dir: graph.Below, Target: 5},
		}},
		&graph.Node{ID: 2}, &graph.Node{ID: 3}, &graph.Node{ID: 4}, &graph.Node{ID: 5},
	)
	return g
}

func TestLayoutAlignmentSpacing(t *testing.T) {
	res := mustLayout(t, star(t), DefaultOptions())
	c := mustBox(t, res, 1)

	tests := []struct {
		dir  graph.Direction
		id   int
		gap  float64 // distance between the facing edges
		real float64 // cross-axis difference
	}{
		{graph.Left, 2, mustBox(t, res, 2).Left - c.Right, mustBox(t, res, 2).Upper - c.Upper},
		{graph.Right, 3, c.Left - mustBox(t, res, 3).Right, mustBox(t, res, 3).Upper - c.Upper},
		{graph.Above, 4, mustBox(t, res, 4).Upper - c.Lower, mustBox(t, res, 4).Left - c.Left},
		{graph.Below, 5, c.Upper - mustBox(t, res, 5).Lower, mustBox(t, res, 5).Left - c.Left},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			if tt.gap < Spacing-eps {
				t.Errorf("gap to node %d = %v, want >= %v", tt.id, tt.gap, Spacing)
			}
			if math.Abs(tt.real) > eps {
				t.Errorf("node %d off axis by %v", tt.id, tt.real)
			}
		})
	}
}

func TestLayoutRouting(t *testing.T) {
	tests := []struct {
		name       string
		g          func(t *testing.T) *graph.Graph
		horizontal bool
		check      func(t *testing.T, res *Result, l Line)
	}{
		{
			name: "left to right",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: rel(graph.Left, 2), Flows: []graph.Flow{pass(2)}},
					&graph.Node{ID: 2},
				)
			},
			horizontal: true,
			check: func(t *testing.T, res *Result, l Line) {
				if l.X1 != 110 || l.Y1 != 50 {
					t.Errorf("start = (%v, %v), want (110, 50)", l.X1, l.Y1)
				}
				if l.X2 <= l.X1 {
					t.Errorf("line runs backwards: %+v", l)
				}
			},
		},
		{
			name: "right to left",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: rel(graph.Right, 2), Flows: []graph.Flow{pass(2)}},
					&graph.Node{ID: 2},
				)
			},
			horizontal: true,
			check: func(t *testing.T, res *Result, l Line) {
				if l.X1 != -LineSpacing {
					t.Errorf("x1 = %v, want %v", l.X1, -LineSpacing)
				}
				b2 := mustBox(t, res, 2)
				if math.Abs(l.X2-(b2.Right+LineSpacing)) > eps {
					t.Errorf("x2 = %v, want %v", l.X2, b2.Right+LineSpacing)
				}
			},
		},
		{
			name: "top to bottom",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: rel(graph.Above, 2), Flows: []graph.Flow{pass(2)}},
					&graph.Node{ID: 2},
				)
			},
			check: func(t *testing.T, res *Result, l Line) {
				if l.X1 != 50 || l.Y1 != 110 {
					t.Errorf("start = (%v, %v), want (50, 110)", l.X1, l.Y1)
				}
				b2 := mustBox(t, res, 2)
				if math.Abs(l.Y2-(b2.Upper-LineSpacing)) > eps {
					t.Errorf("y2 = %v, want %v", l.Y2, b2.Upper-LineSpacing)
				}
			},
		},
		{
			name: "bottom to top",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: rel(graph.Below, 2), Flows: []graph.Flow{pass(2)}},
					&graph.Node{ID: 2},
				)
			},
			check: func(t *testing.T, res *Result, l Line) {
				if l.Y1 != -LineSpacing {
					t.Errorf("y1 = %v, want %v", l.Y1, -LineSpacing)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustLayout(t, tt.g(t), Options{Pin: graph.Pins{Left: true, Top: true}})
			if len(res.Lines) != 1 {
				t.Fatalf("len(Lines) = %d, want 1", len(res.Lines))
			}
			l := res.Lines[0]
			if tt.horizontal && l.Y1 != l.Y2 {
				t.Errorf("want horizontal line, got %+v", l)
			}
			if !tt.horizontal && l.X1 != l.X2 {
				t.Errorf("want vertical line, got %+v", l)
			}
			tt.check(t, res, l)
		})
	}
}

func TestLayoutSkipFanIn(t *testing.T) {
	g := build(t, 1,
		&graph.Node{ID: 1, Dimension: []int{3, 64, 64, 1}, Relations: rel(graph.Left, 2), Flows: []graph.Flow{skip(2)}},
		&graph.Node{ID: 2},
	)
	res := mustLayout(t, g, Options{Pin: graph.Pins{Left: true, Top: true}})

	lines := res.LinesFor(1, 2)
	if len(lines) != 4 {
		t.Fatalf("len(LinesFor(1, 2)) = %d, want 4", len(lines))
	}

	b1 := mustBox(t, res, 1)
	trunk := lines[0]
	if trunk.Kind != LineTrunk {
		t.Fatalf("lines[0].Kind = %v, want trunk", trunk.Kind)
	}
	if trunk.X1 != b1.Right+2*LineSpacing || trunk.Y1 != 65 || !trunk.Horizontal() {
		t.Errorf("trunk = %+v", trunk)
	}

	for i, c := range lines[1:] {
		if c.Kind != LineConnector {
			t.Errorf("lines[%d].Kind = %v, want connector", i+1, c.Kind)
		}
		wantY := BaseSize/2 + float64(i)*BaseSize*OverlayFactor
		if c.X1 != b1.Right+LineSpacing || math.Abs(c.Y1-wantY) > eps {
			t.Errorf("connector %d starts at (%v, %v), want (%v, %v)", i, c.X1, c.Y1, b1.Right+LineSpacing, wantY)
		}
		if c.X2 != trunk.X1 || c.Y2 != trunk.Y1 {
			t.Errorf("connector %d ends at (%v, %v), want trunk start", i, c.X2, c.Y2)
		}
	}
}

func TestLayoutSkipWithoutChannels(t *testing.T) {
	g := build(t, 1,
		&graph.Node{ID: 1, Relations: rel(graph.Above, 2), Flows: []graph.Flow{skip(2)}},
		&graph.Node{ID: 2},
	)
	res := mustLayout(t, g, Options{Pin: graph.Pins{Left: true, Top: true}})
	if len(res.Lines) != 1 || res.Lines[0].Kind != LineTrunk {
		t.Fatalf("Lines = %+v, want a single trunk", res.Lines)
	}
	if l := res.Lines[0]; l.X1 != l.X2 || l.Y1 != BaseSize+2*LineSpacing {
		t.Errorf("trunk = %+v, want vertical from %v", l, BaseSize+2*LineSpacing)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	for name, g := range map[string]*graph.Graph{
		"scenario": scenario(t),
		"star":     star(t),
	} {
		t.Run(name, func(t *testing.T) {
			opts := Options{Pin: g.Align, Canvas: Size{Width: 900, Height: 700}}
			first := mustLayout(t, g, opts)
			second := mustLayout(t, g, opts)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("layouts differ:\n%+v\n%+v", first, second)
			}
		})
	}
}

func TestLayoutCanvas(t *testing.T) {
	g := build(t, 1, &graph.Node{ID: 1})

	res := mustLayout(t, g, Options{Canvas: Size{Width: 800, Height: 400}})
	if res.Width != 800 || res.Height != 400 {
		t.Errorf("canvas = %vx%v, want 800x400", res.Width, res.Height)
	}

	// Pinning both sides makes the canvas as wide as the start box.
	res = mustLayout(t, g, Options{Pin: graph.Pins{Left: true, Right: true, Top: true, Bottom: true}})
	if res.Width != BaseSize || res.Height != BaseSize {
		t.Errorf("canvas = %vx%v, want %vx%v", res.Width, res.Height, BaseSize, BaseSize)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name     string
		g        func(t *testing.T) *graph.Graph
		code     errors.Code
		category errors.Category
	}{
		{
			name:     "dangling relation",
			g:        func(t *testing.T) *graph.Graph { return build(t, 1, &graph.Node{ID: 1, Relations: rel(graph.Left, 99)}) },
			code:     errors.ErrCodeDanglingRelation,
			category: errors.CategoryStructural,
		},
		{
			name:     "missing start",
			g:        func(t *testing.T) *graph.Graph { return build(t, 3, &graph.Node{ID: 1}) },
			code:     errors.ErrCodeStartNotFound,
			category: errors.CategoryStructural,
		},
		{
			name: "horizontal cycle",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: rel(graph.Left, 2)},
					&graph.Node{ID: 2, Relations: rel(graph.Left, 1)},
				)
			},
			code:     errors.ErrCodeInfeasible,
			category: errors.CategoryInfeasible,
		},
		{
			name: "contradicting relations",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: []graph.Relation{{Dir: graph.Above, Target: 2}, {Dir: graph.Below, Target: 2}}},
					&graph.Node{ID: 2},
				)
			},
			code:     errors.ErrCodeInfeasible,
			category: errors.CategoryInfeasible,
		},
		{
			name: "skip fan-out over the channel limit",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Dimension: []int{errors.MaxChannels + 1, 8, 8, 1}, Flows: []graph.Flow{skip(2)}},
					&graph.Node{ID: 2},
				)
			},
			code:     errors.ErrCodeInvalidGraph,
			category: errors.CategoryStructural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Layout(tt.g(t), DefaultOptions())
			if res != nil {
				t.Errorf("Layout() returned a partial result: %+v", res)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Layout() error = %v, want %s", err, tt.code)
			}
			if got := errors.CategoryOf(err); got != tt.category {
				t.Errorf("CategoryOf() = %q, want %q", got, tt.category)
			}
		})
	}
}

func TestSolveMissingBox(t *testing.T) {
	d, err := Discover(scenario(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	delete(d.Boxes, 3)

	_, err = Solve(d, DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Solve() error = %v, want %s", err, errors.ErrCodeInternal)
	}
}

func TestResultBounds(t *testing.T) {
	res := &Result{
		Width:  100,
		Height: 50,
		Boxes:  []Rect{{ID: 1, Left: -20, Right: 80, Upper: 0, Lower: 100}},
		Lines:  []Line{{X1: 90, Y1: 10, X2: 150, Y2: 10}},
	}
	minX, minY, maxX, maxY := res.Bounds()
	if minX != -20 || minY != 0 || maxX != 150 || maxY != 100 {
		t.Errorf("Bounds() = %v, %v, %v, %v", minX, minY, maxX, maxY)
	}
	if _, ok := res.Box(2); ok {
		t.Error("Box(2) found in single-box result")
	}
}
