package io

import (
	"bytes"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
)

type description struct {
	Start      *int       `toml:"start"`
	End        *int       `toml:"end,omitempty"`
	AlignLeft  bool       `toml:"start_align_left,omitempty"`
	AlignRight bool       `toml:"start_align_right,omitempty"`
	AlignUp    bool       `toml:"start_align_up,omitempty"`
	AlignDown  bool       `toml:"start_align_down,omitempty"`
	Nodes      []nodeToml `toml:"nodes"`
}

type nodeToml struct {
	ID        *int           `toml:"id"`
	Dimension []int          `toml:"dimension,omitempty"`
	Operation *operationToml `toml:"operation,omitempty"`
	PassTo    *int           `toml:"pass_to,omitempty"`
	SkipTo    *int           `toml:"skip_connection_to,omitempty"`
	BelowOf   *int           `toml:"below_of,omitempty"`
	AboveOf   *int           `toml:"above_of,omitempty"`
	RightOf   *int           `toml:"right_of,omitempty"`
	LeftOf    *int           `toml:"left_of,omitempty"`
}

type operationToml struct {
	To             int        `toml:"to"`
	Convolution    *layerToml `toml:"convolution,omitempty"`
	Deconvolution  *layerToml `toml:"deconvolution,omitempty"`
	FullyConnected *layerToml `toml:"fully_connected,omitempty"`
}

type layerToml struct {
	Dimension       int    `toml:"dimension,omitempty"`
	KernelSize      int    `toml:"kernel_size,omitempty"`
	NumOutputs      int    `toml:"num_outputs"`
	Stride          []int  `toml:"stride,omitempty"`
	MaxPool         []int  `toml:"max_pool,omitempty"`
	ActivationFn    string `toml:"activation_fn,omitempty"`
	NormalizationFn string `toml:"normalization_fn,omitempty"`
}

// ParseTOML decodes a graph description.
//
// It returns an error with code PARSE_ERROR for malformed TOML or a missing
// start id, and INVALID_GRAPH for duplicate ids, negative dimensions or
// ambiguous operations.
func ParseTOML(data []byte) (*graph.Graph, error) {
	var desc description
	md, err := toml.Decode(string(data), &desc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode description")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeParse, "unknown key %q", undecoded[0].String())
	}
	if desc.Start == nil {
		return nil, errors.New(errors.ErrCodeParse, "missing start node id")
	}

	g := graph.New(*desc.Start)
	if desc.End != nil {
		g.End = *desc.End
	}
	g.Align = graph.Pins{
		Left:   desc.AlignLeft,
		Right:  desc.AlignRight,
		Top:    desc.AlignUp,
		Bottom: desc.AlignDown,
	}

	for i, nt := range desc.Nodes {
		if nt.ID == nil {
			return nil, errors.New(errors.ErrCodeParse, "nodes[%d]: missing id", i)
		}
		n, err := nt.node()
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "nodes[%d]", i)
		}
	}
	return g, nil
}

// ReadTOML decodes a graph description from r. It does not close r.
func ReadTOML(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read description")
	}
	return ParseTOML(data)
}

// ReadFile reads and decodes the description at path.
func ReadFile(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return ParseTOML(data)
}

// MarshalTOML encodes g in the description format. Nodes are written in id
// order, so the output is deterministic.
func MarshalTOML(g *graph.Graph) ([]byte, error) {
	start, end := g.Start, g.End
	desc := description{
		Start:      &start,
		End:        &end,
		AlignLeft:  g.Align.Left,
		AlignRight: g.Align.Right,
		AlignUp:    g.Align.Top,
		AlignDown:  g.Align.Bottom,
	}
	for _, n := range g.Nodes() {
		desc.Nodes = append(desc.Nodes, fromNode(n))
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = "  "
	if err := enc.Encode(desc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode description")
	}
	return buf.Bytes(), nil
}

func (nt nodeToml) node() (*graph.Node, error) {
	id := *nt.ID
	if err := errors.ValidateDimension(id, nt.Dimension); err != nil {
		return nil, err
	}
	n := &graph.Node{ID: id, Dimension: nt.Dimension}

	for _, rel := range []struct {
		link *int
		dir  graph.Direction
	}{
		{nt.BelowOf, graph.Below},
		{nt.AboveOf, graph.Above},
		{nt.RightOf, graph.Right},
		{nt.LeftOf, graph.Left},
	} {
		if rel.link != nil {
			n.Relations = append(n.Relations, graph.Relation{Dir: rel.dir, Target: *rel.link})
		}
	}

	if nt.Operation != nil {
		op, err := nt.Operation.operation()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", id)
		}
		n.Flows = append(n.Flows, graph.Flow{To: nt.Operation.To, Kind: graph.FlowTransform, Op: op})
	}
	if nt.PassTo != nil {
		n.Flows = append(n.Flows, graph.Flow{To: *nt.PassTo, Kind: graph.FlowPass})
	}
	if nt.SkipTo != nil {
		n.Flows = append(n.Flows, graph.Flow{To: *nt.SkipTo, Kind: graph.FlowSkip})
	}
	return n, nil
}

func (ot *operationToml) operation() (*graph.Operation, error) {
	var (
		layer *layerToml
		typ   graph.OpType
		count int
	)
	if ot.Convolution != nil {
		layer, typ = ot.Convolution, graph.OpConvolution
		count++
	}
	if ot.Deconvolution != nil {
		layer, typ = ot.Deconvolution, graph.OpDeconvolution
		count++
	}
	if ot.FullyConnected != nil {
		layer, typ = ot.FullyConnected, graph.OpFullyConnected
		count++
	}
	if count != 1 {
		return nil, errors.New(errors.ErrCodeInvalidGraph,
			"operation to %d must set exactly one of convolution, deconvolution, fully_connected (got %d)", ot.To, count)
	}
	return &graph.Operation{
		Type:            typ,
		Dimension:       layer.Dimension,
		KernelSize:      layer.KernelSize,
		NumOutputs:      layer.NumOutputs,
		Stride:          layer.Stride,
		MaxPool:         layer.MaxPool,
		ActivationFn:    layer.ActivationFn,
		NormalizationFn: layer.NormalizationFn,
	}, nil
}

func fromNode(n *graph.Node) nodeToml {
	id := n.ID
	nt := nodeToml{ID: &id, Dimension: n.Dimension}
	for _, r := range n.Relations {
		target := r.Target
		switch r.Dir {
		case graph.Left:
			nt.LeftOf = &target
		case graph.Right:
			nt.RightOf = &target
		case graph.Above:
			nt.AboveOf = &target
		case graph.Below:
			nt.BelowOf = &target
		}
	}
	for _, f := range n.Flows {
		to := f.To
		switch f.Kind {
		case graph.FlowPass:
			nt.PassTo = &to
		case graph.FlowSkip:
			nt.SkipTo = &to
		case graph.FlowTransform:
			layer := &layerToml{
				Dimension:       f.Op.Dimension,
				KernelSize:      f.Op.KernelSize,
				NumOutputs:      f.Op.NumOutputs,
				Stride:          f.Op.Stride,
				MaxPool:         f.Op.MaxPool,
				ActivationFn:    f.Op.ActivationFn,
				NormalizationFn: f.Op.NormalizationFn,
			}
			ot := &operationToml{To: to}
			switch f.Op.Type {
			case graph.OpConvolution:
				ot.Convolution = layer
			case graph.OpDeconvolution:
				ot.Deconvolution = layer
			default:
				ot.FullyConnected = layer
			}
			nt.Operation = ot
		}
	}
	return nt
}
