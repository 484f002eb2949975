package graph

import "fmt"

// Direction names the side of a target node a node sits on.
type Direction int

const (
	Left Direction = iota
	Right
	Above
	Below
)

// Directions lists all directions in declaration-table order.
var Directions = []Direction{Left, Right, Above, Below}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Opposite returns the mirrored direction (Left <-> Right, Above <-> Below).
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Above:
		return Below
	default:
		return Above
	}
}

// Horizontal reports whether d separates nodes along the x axis.
func (d Direction) Horizontal() bool { return d == Left || d == Right }

// ParseDirection converts a direction name back into a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Relation declares that the owning node is Dir of node Target.
type Relation struct {
	Dir    Direction
	Target int
}

// FlowKind is the closed set of data-flow edge kinds.
type FlowKind int

const (
	// FlowPass is a plain pass-through edge, drawn as one line.
	FlowPass FlowKind = iota
	// FlowSkip is a skip connection, drawn as a trunk plus fan-in connectors.
	FlowSkip
	// FlowTransform is a layer operation; it is not drawn.
	FlowTransform
)

func (k FlowKind) String() string {
	switch k {
	case FlowPass:
		return "pass"
	case FlowSkip:
		return "skip"
	case FlowTransform:
		return "transform"
	default:
		return fmt.Sprintf("flow(%d)", int(k))
	}
}

// OpType identifies the layer operation of a transform flow.
type OpType int

const (
	OpConvolution OpType = iota
	OpDeconvolution
	OpFullyConnected
)

func (t OpType) String() string {
	switch t {
	case OpConvolution:
		return "convolution"
	case OpDeconvolution:
		return "deconvolution"
	case OpFullyConnected:
		return "fully_connected"
	default:
		return fmt.Sprintf("op(%d)", int(t))
	}
}

// Operation describes a transform flow. Dimension, KernelSize, Stride and
// MaxPool are unused for fully connected layers.
type Operation struct {
	Type            OpType `json:"type"`
	Dimension       int    `json:"dimension,omitempty"`
	KernelSize      int    `json:"kernel_size,omitempty"`
	NumOutputs      int    `json:"num_outputs"`
	Stride          []int  `json:"stride,omitempty"`
	MaxPool         []int  `json:"max_pool,omitempty"`
	ActivationFn    string `json:"activation_fn,omitempty"`
	NormalizationFn string `json:"normalization_fn,omitempty"`
}

// Label returns a short human-readable description, e.g. "conv 3x3/128 relu".
func (o *Operation) Label() string {
	var s string
	switch o.Type {
	case OpConvolution:
		s = fmt.Sprintf("conv %dx%d/%d", o.KernelSize, o.KernelSize, o.NumOutputs)
	case OpDeconvolution:
		s = fmt.Sprintf("deconv %dx%d/%d", o.KernelSize, o.KernelSize, o.NumOutputs)
	default:
		s = fmt.Sprintf("fc %d", o.NumOutputs)
	}
	if o.ActivationFn != "" {
		s += " " + o.ActivationFn
	}
	return s
}

// Flow is a declared data-flow edge from the owning node to node To.
// Op is set only for FlowTransform.
type Flow struct {
	To   int
	Kind FlowKind
	Op   *Operation
}

// Node is a unit of the visualized pipeline.
type Node struct {
	ID        int
	Dimension []int // size hint, e.g. [channels, height, width, depth]
	Relations []Relation
	Flows     []Flow
}

// Relation returns the node's declared relation in direction d, if any.
func (n *Node) Relation(d Direction) (Relation, bool) {
	for _, r := range n.Relations {
		if r.Dir == d {
			return r, true
		}
	}
	return Relation{}, false
}

// Channels returns Dimension[0], or 0 for an empty dimension.
func (n *Node) Channels() int {
	if len(n.Dimension) == 0 {
		return 0
	}
	return n.Dimension[0]
}

// Pins selects which edges of the start node are fixed to the canvas border.
type Pins struct {
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
	Top    bool `json:"top,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
}

// Any reports whether at least one pin is set.
func (p Pins) Any() bool { return p.Left || p.Right || p.Top || p.Bottom }
