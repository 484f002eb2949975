package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for a nil node or a
	// negative id.
	ErrInvalidNodeID = errors.New("invalid node ID")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same id already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateRelation is returned by [Graph.AddNode] when a node declares
	// two relations in the same direction.
	ErrDuplicateRelation = errors.New("duplicate relation direction")

	// ErrUnknownNode is returned by [Graph.Validate] when the start node, the
	// end node, or a link target is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownDirection is returned by [ParseDirection].
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrMissingOperation is returned by [Graph.AddNode] when a transform
	// flow has no operation attached.
	ErrMissingOperation = errors.New("transform flow without operation")
)

// Graph is an arena of nodes indexed by id, with a designated start node.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	Start int
	End   int
	Align Pins // start-node pins requested by the description

	nodes map[int]*Node
}

// New creates an empty graph whose traversal begins at start.
func New(start int) *Graph {
	return &Graph{Start: start, End: start, nodes: make(map[int]*Node)}
}

// AddNode inserts n into the graph. The node is stored by pointer and must
// not be mutated afterwards.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID < 0 {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateNodeID, n.ID)
	}
	var seen [4]bool
	for _, r := range n.Relations {
		if r.Dir < Left || r.Dir > Below {
			return fmt.Errorf("%w: node %d %s", ErrUnknownDirection, n.ID, r.Dir)
		}
		if seen[r.Dir] {
			return fmt.Errorf("%w: node %d %s", ErrDuplicateRelation, n.ID, r.Dir)
		}
		seen[r.Dir] = true
	}
	for _, f := range n.Flows {
		if f.Kind == FlowTransform && f.Op == nil {
			return fmt.Errorf("%w: node %d -> %d", ErrMissingOperation, n.ID, f.To)
		}
	}
	g.nodes[n.ID] = n
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// StartID returns the id traversal begins at.
func (g *Graph) StartID() int { return g.Start }

// StartNode returns the node traversal begins at.
func (g *Graph) StartNode() (*Node, bool) { return g.Node(g.Start) }

// Neighbor resolves the target of n's relation in direction d.
// It reports false when n declares no such relation or the target is missing.
func (g *Graph) Neighbor(n *Node, d Direction) (*Node, bool) {
	r, ok := n.Relation(d)
	if !ok {
		return nil, false
	}
	return g.Node(r.Target)
}

// Nodes returns all nodes sorted by id.
func (g *Graph) Nodes() []*Node {
	ids := slices.Sorted(maps.Keys(g.nodes))
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Validate checks that the start and end nodes exist and that every relation
// and flow target resolves. All problems are joined into one error.
func (g *Graph) Validate() error {
	var errs []error
	if _, ok := g.nodes[g.Start]; !ok {
		errs = append(errs, fmt.Errorf("%w: start %d", ErrUnknownNode, g.Start))
	}
	if _, ok := g.nodes[g.End]; !ok {
		errs = append(errs, fmt.Errorf("%w: end %d", ErrUnknownNode, g.End))
	}
	for _, n := range g.Nodes() {
		for _, r := range n.Relations {
			if _, ok := g.nodes[r.Target]; !ok {
				errs = append(errs, &LinkError{From: n.ID, To: r.Target, Link: r.Dir.String() + "_of"})
			}
		}
		for _, f := range n.Flows {
			if _, ok := g.nodes[f.To]; !ok {
				errs = append(errs, &LinkError{From: n.ID, To: f.To, Link: f.Kind.String()})
			}
		}
	}
	return errors.Join(errs...)
}

// LinkError reports a link whose target is not part of the graph.
type LinkError struct {
	From int
	To   int
	Link string // relation or flow name
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("node %d links to %d (%s), %d is not known", e.From, e.To, e.Link, e.To)
}

func (e *LinkError) Unwrap() error { return ErrUnknownNode }
