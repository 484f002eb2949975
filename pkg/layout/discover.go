package layout

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
	"github.com/matzehuels/dlvis/pkg/solver"
)

// Provider is the read-only graph view the discoverer walks.
// [*graph.Graph] implements it.
type Provider interface {
	StartID() int
	Node(id int) (*graph.Node, bool)
	Neighbor(n *graph.Node, d graph.Direction) (*graph.Node, bool)
}

var _ Provider = (*graph.Graph)(nil)

// Box holds the four layout variables of one node.
type Box struct {
	ID    int
	Left  *solver.Variable
	Right *solver.Variable
	Upper *solver.Variable
	Lower *solver.Variable
}

func newBox(id int) *Box {
	name := func(edge string) string { return fmt.Sprintf("n%d.%s", id, edge) }
	return &Box{
		ID:    id,
		Left:  solver.NewVariable(name("left")),
		Right: solver.NewVariable(name("right")),
		Upper: solver.NewVariable(name("upper")),
		Lower: solver.NewVariable(name("lower")),
	}
}

// AlignmentEdge records that Source sits in direction Dir of Target.
type AlignmentEdge struct {
	Source int
	Target int
	Dir    graph.Direction
}

func (e AlignmentEdge) String() string {
	return fmt.Sprintf("%d %s of %d", e.Source, e.Dir, e.Target)
}

// FlowEdge is a resolved data-flow edge.
type FlowEdge struct {
	Source int
	Target int
	Kind   graph.FlowKind
	Op     *graph.Operation
}

func (e FlowEdge) String() string {
	return fmt.Sprintf("%d -%s-> %d", e.Source, e.Kind, e.Target)
}

// Discovery is the reachable part of a graph together with the edges the
// solver turns into constraints.
type Discovery struct {
	Start      int
	Order      []int // node ids in the order they were closed
	Nodes      map[int]*graph.Node
	Boxes      map[int]*Box
	Alignments []AlignmentEdge
	Flows      []FlowEdge
	Dropped    int // flows whose target did not resolve
}

// Discover walks p breadth-first from its start node.
//
// Every relation must resolve; a dangling one aborts with a DANGLING_RELATION
// error. Flows whose target is missing are dropped and counted. Each node is
// closed at most once, so cycles and diamonds terminate.
func Discover(p Provider, logger *log.Logger) (*Discovery, error) {
	if logger == nil {
		logger = Options{}.withDefaults().Logger
	}

	startID := p.StartID()
	start, ok := p.Node(startID)
	if !ok {
		return nil, errors.New(errors.ErrCodeStartNotFound, "start node %d not found", startID)
	}

	d := &Discovery{
		Start: start.ID,
		Nodes: map[int]*graph.Node{start.ID: start},
		Boxes: map[int]*Box{start.ID: newBox(start.ID)},
	}
	closed := make(map[int]bool)
	queue := []*graph.Node{start}

	// discover allocates a box for n and enqueues it on first sight.
	discover := func(n *graph.Node) {
		if _, seen := d.Boxes[n.ID]; seen {
			return
		}
		d.Nodes[n.ID] = n
		d.Boxes[n.ID] = newBox(n.ID)
		queue = append(queue, n)
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if closed[n.ID] {
			continue
		}

		for _, rel := range n.Relations {
			neighbor, ok := p.Neighbor(n, rel.Dir)
			if !ok {
				return nil, errors.New(errors.ErrCodeDanglingRelation,
					"node %d is %s of %d, but %d is not in the graph", n.ID, rel.Dir, rel.Target, rel.Target)
			}
			discover(neighbor)
			d.Alignments = append(d.Alignments, AlignmentEdge{Source: n.ID, Target: neighbor.ID, Dir: rel.Dir})
		}

		for _, f := range n.Flows {
			target, ok := p.Node(f.To)
			if !ok {
				logger.Debug("dropping flow to unknown node", "from", n.ID, "to", f.To, "kind", f.Kind)
				d.Dropped++
				continue
			}
			discover(target)
			d.Flows = append(d.Flows, FlowEdge{Source: n.ID, Target: target.ID, Kind: f.Kind, Op: f.Op})
		}

		closed[n.ID] = true
		d.Order = append(d.Order, n.ID)
	}

	logger.Debug("discovered graph",
		"nodes", len(d.Order), "alignments", len(d.Alignments), "flows", len(d.Flows), "dropped", d.Dropped)
	return d, nil
}
