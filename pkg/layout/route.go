package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/solver"
)

// LineKind tells renderers what a segment belongs to.
type LineKind int

const (
	// LinePass is the single segment of a pass-through flow.
	LinePass LineKind = iota
	// LineTrunk is the main segment of a skip connection.
	LineTrunk
	// LineConnector joins one channel tap of a skip connection to its trunk.
	LineConnector
)

func (k LineKind) String() string {
	switch k {
	case LinePass:
		return "pass"
	case LineTrunk:
		return "trunk"
	case LineConnector:
		return "connector"
	default:
		return fmt.Sprintf("line(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k LineKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *LineKind) UnmarshalText(b []byte) error {
	for _, c := range []LineKind{LinePass, LineTrunk, LineConnector} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown line kind %q", b)
}

// segment is a line whose endpoints are solver variables.
type segment struct {
	flow           FlowEdge
	kind           LineKind
	x1, y1, x2, y2 *solver.Variable
}

func (e *engine) newSegment(f FlowEdge, kind LineKind) *segment {
	name := func(c string) string {
		return fmt.Sprintf("l%d.%s", len(e.lines), c)
	}
	s := &segment{
		flow: f,
		kind: kind,
		x1:   solver.NewVariable(name("x1")),
		y1:   solver.NewVariable(name("y1")),
		x2:   solver.NewVariable(name("x2")),
		y2:   solver.NewVariable(name("y2")),
	}
	e.lines = append(e.lines, s)
	return s
}

// route adds the Stage B line constraints for every flow edge and returns
// how many flows were intentionally left undrawn.
func (e *engine) route() (int, error) {
	undrawn := 0
	for _, f := range e.d.Flows {
		switch f.Kind {
		case graph.FlowPass:
			if err := e.routePass(f); err != nil {
				return 0, err
			}
		case graph.FlowSkip:
			if err := e.routeSkip(f); err != nil {
				return 0, err
			}
		case graph.FlowTransform:
			e.logger.Debug("transform flow has no line geometry", "flow", f.String())
			undrawn++
		default:
			return 0, errors.New(errors.ErrCodeInternal, "flow %s: unknown kind", f)
		}
	}
	return undrawn, nil
}

// path is the routing decision for one flow. Every expression is a constant
// read from the Stage A solution, so routing never moves a box.
type path struct {
	horizontal bool
	// start is the source's facing edge; sign is +1 when the line leaves
	// towards growing coordinates.
	start solver.Expression
	end   solver.Expression
	sign  float64
	// mid is the source midpoint on the cross axis.
	mid solver.Expression
	// origin is the upper (horizontal) or left (vertical) edge of the source.
	origin solver.Expression
}

func (e *engine) plan(f FlowEdge) (path, error) {
	src, err := e.box(f.Source)
	if err != nil {
		return path{}, err
	}
	dst, err := e.box(f.Target)
	if err != nil {
		return path{}, err
	}
	s, t := src.solved(), dst.solved()

	var p path
	if math.Abs(t.Left-s.Left) >= math.Abs(t.Upper-s.Upper) {
		p.horizontal = true
		p.mid = solver.Constant((s.Upper + s.Lower) / 2)
		p.origin = solver.Constant(s.Upper)
		if s.Left <= t.Left {
			p.start, p.end, p.sign = solver.Constant(s.Right), solver.Constant(t.Left), 1
		} else {
			p.start, p.end, p.sign = solver.Constant(s.Left), solver.Constant(t.Right), -1
		}
	} else {
		p.mid = solver.Constant((s.Left + s.Right) / 2)
		p.origin = solver.Constant(s.Left)
		if s.Upper <= t.Upper {
			p.start, p.end, p.sign = solver.Constant(s.Lower), solver.Constant(t.Upper), 1
		} else {
			p.start, p.end, p.sign = solver.Constant(s.Upper), solver.Constant(t.Lower), -1
		}
	}
	return p, nil
}

// bind pins s to p. lead is the distance of the first endpoint from the
// source edge.
func (e *engine) bind(s *segment, p path, lead float64) error {
	along1, along2, cross1, cross2 := s.x1, s.x2, s.y1, s.y2
	if !p.horizontal {
		along1, along2, cross1, cross2 = s.y1, s.y2, s.x1, s.x2
	}
	what := fmt.Sprintf("line %s", s.flow)
	for _, c := range []*solver.Constraint{
		solver.Equal(along1.Expr(), p.start.AddConstant(p.sign*lead), solver.Required),
		solver.Equal(along2.Expr(), p.end.AddConstant(-p.sign*LineSpacing), solver.Required),
		solver.Equal(cross1.Expr(), p.mid, solver.Required),
		solver.Equal(cross2.Expr(), cross1.Expr(), solver.Required),
	} {
		if err := e.add(what, c); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) routePass(f FlowEdge) error {
	p, err := e.plan(f)
	if err != nil {
		return err
	}
	return e.bind(e.newSegment(f, LinePass), p, LineSpacing)
}

// routeSkip draws a trunk starting further out than a pass line, plus one
// connector per source channel fanning into the trunk start.
func (e *engine) routeSkip(f FlowEdge) error {
	p, err := e.plan(f)
	if err != nil {
		return err
	}
	trunk := e.newSegment(f, LineTrunk)
	if err := e.bind(trunk, p, 2*LineSpacing); err != nil {
		return err
	}

	n, ok := e.d.Nodes[f.Source]
	if !ok {
		return errors.New(errors.ErrCodeInternal, "no node for flow source %d", f.Source)
	}
	if n.Channels() > errors.MaxChannels {
		return errors.New(errors.ErrCodeInvalidGraph,
			"skip %s: node %d has %d channels (max %d)", f, n.ID, n.Channels(), errors.MaxChannels)
	}
	what := fmt.Sprintf("connector %s", f)
	for i := range n.Channels() {
		c := e.newSegment(f, LineConnector)
		along, cross := c.x1, c.y1
		if !p.horizontal {
			along, cross = c.y1, c.x1
		}
		offset := BaseSize/2 + float64(i)*BaseSize*OverlayFactor
		for _, k := range []*solver.Constraint{
			solver.Equal(along.Expr(), p.start.AddConstant(p.sign*LineSpacing), solver.Required),
			solver.Equal(cross.Expr(), p.origin.AddConstant(offset), solver.Required),
			solver.Equal(c.x2.Expr(), trunk.x1.Expr(), solver.Required),
			solver.Equal(c.y2.Expr(), trunk.y1.Expr(), solver.Required),
		} {
			if err := e.add(what, k); err != nil {
				return err
			}
		}
	}
	return nil
}
