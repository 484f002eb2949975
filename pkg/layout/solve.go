package layout

import (
	stderrors "errors"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/solver"
)

// Layout discovers p and solves its layout in one call.
func Layout(p Provider, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	d, err := Discover(p, opts.Logger)
	if err != nil {
		return nil, err
	}
	return Solve(d, opts)
}

// engine owns one solver for the duration of a single Solve call.
type engine struct {
	s      *solver.Solver
	d      *Discovery
	logger *log.Logger

	width  *solver.Variable
	height *solver.Variable
	lines  []*segment
}

func newEngine(d *Discovery, opts Options) *engine {
	return &engine{
		s:      solver.New(),
		d:      d,
		logger: opts.Logger,
		width:  solver.NewVariable("canvas.width"),
		height: solver.NewVariable("canvas.height"),
	}
}

// Solve turns a discovery into coordinates.
//
// Stage A adds canvas, pin, alignment and box constraints and solves them.
// Stage B routes every data-flow edge from the solved box positions, which
// enter the line constraints as constants, then solves again. Boxes keep
// their Stage A positions. The call either returns a complete result or an
// error; the solver is discarded in both cases.
func Solve(d *Discovery, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	e := newEngine(d, opts)

	if err := e.structure(opts); err != nil {
		return nil, err
	}
	e.s.UpdateVariables()
	e.logger.Debug("stage A solved", "constraints", e.s.NumConstraints())

	undrawn, err := e.route()
	if err != nil {
		return nil, err
	}
	e.s.UpdateVariables()
	e.logger.Debug("stage B solved", "constraints", e.s.NumConstraints(), "lines", len(e.lines))

	res := e.extract()
	res.Undrawn = undrawn
	return res, nil
}

// structure adds the Stage A constraints.
func (e *engine) structure(opts Options) error {
	zero := solver.Constant(0)
	w, h := e.width.Expr(), e.height.Expr()

	if err := e.add("canvas", solver.GreaterEq(w, zero, solver.Required)); err != nil {
		return err
	}
	if err := e.add("canvas", solver.GreaterEq(h, zero, solver.Required)); err != nil {
		return err
	}

	if opts.Pin.Any() {
		b, err := e.box(e.d.Start)
		if err != nil {
			return err
		}
		pins := []struct {
			set  bool
			edge *solver.Variable
			to   solver.Expression
		}{
			{opts.Pin.Left, b.Left, zero},
			{opts.Pin.Right, b.Right, w},
			{opts.Pin.Top, b.Upper, zero},
			{opts.Pin.Bottom, b.Lower, h},
		}
		for _, p := range pins {
			if !p.set {
				continue
			}
			if err := e.add("pin "+p.edge.Name(), solver.Equal(p.edge.Expr(), p.to, solver.Required)); err != nil {
				return err
			}
		}
	}

	for _, a := range e.d.Alignments {
		if err := e.align(a); err != nil {
			return err
		}
	}

	for _, id := range e.d.Order {
		if err := e.size(id); err != nil {
			return err
		}
	}

	if err := e.s.AddEditVariable(e.width, solver.Strong); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "canvas width")
	}
	if err := e.s.AddEditVariable(e.height, solver.Strong); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "canvas height")
	}
	if err := e.s.SuggestValue(e.width, opts.Canvas.Width); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "canvas width")
	}
	if err := e.s.SuggestValue(e.height, opts.Canvas.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "canvas height")
	}
	return nil
}

// align adds the ordering, gap and cross-axis constraints of one edge.
func (e *engine) align(a AlignmentEdge) error {
	src, err := e.box(a.Source)
	if err != nil {
		return err
	}
	dst, err := e.box(a.Target)
	if err != nil {
		return err
	}

	// near is the source edge facing the target, far the target edge facing
	// the source; near must come first along the axis.
	var near, far solver.Expression
	var cross *solver.Constraint
	switch a.Dir {
	case graph.Left:
		near, far = src.Right.Expr(), dst.Left.Expr()
		cross = solver.Equal(src.Upper.Expr(), dst.Upper.Expr(), solver.Weak)
	case graph.Right:
		near, far = dst.Right.Expr(), src.Left.Expr()
		cross = solver.Equal(src.Upper.Expr(), dst.Upper.Expr(), solver.Weak)
	case graph.Above:
		near, far = src.Lower.Expr(), dst.Upper.Expr()
		cross = solver.Equal(src.Left.Expr(), dst.Left.Expr(), solver.Weak)
	case graph.Below:
		near, far = dst.Lower.Expr(), src.Upper.Expr()
		cross = solver.Equal(src.Left.Expr(), dst.Left.Expr(), solver.Weak)
	default:
		return errors.New(errors.ErrCodeInternal, "alignment %s: unknown direction", a)
	}

	what := "alignment " + a.String()
	if err := e.add(what, solver.LessEq(near, far, solver.Required)); err != nil {
		return err
	}
	if err := e.add(what, solver.LessEq(near.AddConstant(Spacing), far, solver.Strong)); err != nil {
		return err
	}
	return e.add(what, cross)
}

// size adds box validity and the fixed side length for one node.
func (e *engine) size(id int) error {
	b, err := e.box(id)
	if err != nil {
		return err
	}
	n, ok := e.d.Nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeInternal, "no node for box %d", id)
	}
	side := solver.Constant(BoxSize(n.Dimension))
	width := b.Right.Expr().Minus(b.Left.Expr())
	height := b.Lower.Expr().Minus(b.Upper.Expr())

	what := "box " + strconv.Itoa(id)
	for _, c := range []*solver.Constraint{
		solver.LessEq(b.Left.Expr(), b.Right.Expr(), solver.Required),
		solver.LessEq(b.Upper.Expr(), b.Lower.Expr(), solver.Required),
		solver.Equal(width, side, solver.Required),
		solver.Equal(height, side, solver.Required),
	} {
		if err := e.add(what, c); err != nil {
			return err
		}
	}
	return nil
}

// add adds c and maps solver failures onto the layout error taxonomy.
func (e *engine) add(what string, c *solver.Constraint) error {
	err := e.s.AddConstraint(c)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, solver.ErrUnsatisfiableConstraint):
		return errors.Wrap(errors.ErrCodeInfeasible, err, "%s: required constraints conflict", what)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "%s", what)
	}
}

func (e *engine) box(id int) (*Box, error) {
	b, ok := e.d.Boxes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "no box allocated for node %d", id)
	}
	return b, nil
}
