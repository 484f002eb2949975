package layout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/dlvis/pkg/errors"
	"github.com/matzehuels/dlvis/pkg/graph"
)

func build(t *testing.T, start int, nodes ...*graph.Node) *graph.Graph {
	t.Helper()
	g := graph.New(start)
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%d): %v", n.ID, err)
		}
	}
	return g
}

func rel(d graph.Direction, target int) []graph.Relation {
	return []graph.Relation{{Dir: d, Target: target}}
}

func pass(to int) graph.Flow { return graph.Flow{To: to, Kind: graph.FlowPass} }
func skip(to int) graph.Flow { return graph.Flow{To: to, Kind: graph.FlowSkip} }

func conv(to int) graph.Flow {
	return graph.Flow{To: to, Kind: graph.FlowTransform, Op: &graph.Operation{Type: graph.OpConvolution, KernelSize: 3, NumOutputs: 128}}
}

// scenario is the three-node network: 1 left of and passing to 2,
// 2 above of and convolving into 3.
func scenario(t *testing.T) *graph.Graph {
	t.Helper()
	g := build(t, 1,
		&graph.Node{ID: 1, Dimension: []int{5, 512, 512, 1}, Relations: rel(graph.Left, 2), Flows: []graph.Flow{pass(2)}},
		&graph.Node{ID: 2, Dimension: []int{5, 512, 512, 1}, Relations: rel(graph.Above, 3), Flows: []graph.Flow{conv(3)}},
		&graph.Node{ID: 3, Dimension: []int{5, 256, 256, 1}},
	)
	g.End = 3
	g.Align = graph.Pins{Left: true, Top: true}
	return g
}

func TestDiscoverScenario(t *testing.T) {
	d, err := Discover(scenario(t), nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if want := []int{1, 2, 3}; !reflect.DeepEqual(d.Order, want) {
		t.Errorf("Order = %v, want %v", d.Order, want)
	}
	if len(d.Boxes) != 3 {
		t.Errorf("len(Boxes) = %d, want 3", len(d.Boxes))
	}
	wantAlign := []AlignmentEdge{{1, 2, graph.Left}, {2, 3, graph.Above}}
	if !reflect.DeepEqual(d.Alignments, wantAlign) {
		t.Errorf("Alignments = %v, want %v", d.Alignments, wantAlign)
	}
	if len(d.Flows) != 2 {
		t.Fatalf("len(Flows) = %d, want 2", len(d.Flows))
	}
	if f := d.Flows[0]; f.Source != 1 || f.Target != 2 || f.Kind != graph.FlowPass {
		t.Errorf("Flows[0] = %v", f)
	}
	if f := d.Flows[1]; f.Source != 2 || f.Target != 3 || f.Kind != graph.FlowTransform || f.Op == nil {
		t.Errorf("Flows[1] = %v", f)
	}
}

func TestDiscoverClosesEachNodeOnce(t *testing.T) {
	tests := []struct {
		name      string
		g         func(t *testing.T) *graph.Graph
		wantNodes int
		wantAlign int
		wantFlows int
	}{
		{
			name: "cycle",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: rel(graph.Left, 2)},
					&graph.Node{ID: 2, Relations: rel(graph.Left, 3)},
					&graph.Node{ID: 3, Relations: rel(graph.Left, 1)},
				)
			},
			wantNodes: 3, wantAlign: 3,
		},
		{
			name: "diamond",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Relations: []graph.Relation{{Dir: graph.Left, Target: 2}, {Dir: graph.Above, Target: 3}}},
					&graph.Node{ID: 2, Relations: rel(graph.Above, 4)},
					&graph.Node{ID: 3, Relations: rel(graph.Left, 4)},
					&graph.Node{ID: 4},
				)
			},
			wantNodes: 4, wantAlign: 4,
		},
		{
			name: "flow only",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1, Flows: []graph.Flow{pass(2), skip(3)}},
					&graph.Node{ID: 2, Flows: []graph.Flow{pass(1)}},
					&graph.Node{ID: 3},
				)
			},
			wantNodes: 3, wantFlows: 3,
		},
		{
			name: "unreachable",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1,
					&graph.Node{ID: 1},
					&graph.Node{ID: 2, Relations: rel(graph.Left, 1)},
				)
			},
			wantNodes: 1,
		},
		{
			name: "self loop",
			g: func(t *testing.T) *graph.Graph {
				return build(t, 1, &graph.Node{ID: 1, Flows: []graph.Flow{pass(1)}})
			},
			wantNodes: 1, wantFlows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Discover(tt.g(t), nil)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if len(d.Order) != tt.wantNodes || len(d.Boxes) != tt.wantNodes {
				t.Errorf("nodes = %d (boxes %d), want %d", len(d.Order), len(d.Boxes), tt.wantNodes)
			}
			seen := map[int]bool{}
			for _, id := range d.Order {
				if seen[id] {
					t.Errorf("node %d closed twice", id)
				}
				seen[id] = true
			}
			if len(d.Alignments) != tt.wantAlign {
				t.Errorf("alignments = %d, want %d", len(d.Alignments), tt.wantAlign)
			}
			if len(d.Flows) != tt.wantFlows {
				t.Errorf("flows = %d, want %d", len(d.Flows), tt.wantFlows)
			}
		})
	}
}

func TestDiscoverDropsDanglingFlow(t *testing.T) {
	g := build(t, 1, &graph.Node{ID: 1, Flows: []graph.Flow{pass(9), skip(9)}})
	d, err := Discover(g, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if d.Dropped != 2 || len(d.Flows) != 0 {
		t.Errorf("Dropped = %d, Flows = %v", d.Dropped, d.Flows)
	}
}

func TestDiscoverErrors(t *testing.T) {
	tests := []struct {
		name string
		g    *graph.Graph
		code errors.Code
	}{
		{
			name: "start missing",
			g:    graph.New(7),
			code: errors.ErrCodeStartNotFound,
		},
		{
			name: "dangling relation at start",
			g:    build(t, 1, &graph.Node{ID: 1, Relations: rel(graph.Left, 42)}),
			code: errors.ErrCodeDanglingRelation,
		},
		{
			name: "dangling relation deeper",
			g: build(t, 1,
				&graph.Node{ID: 1, Flows: []graph.Flow{pass(2)}},
				&graph.Node{ID: 2, Relations: rel(graph.Below, 5)},
			),
			code: errors.ErrCodeDanglingRelation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Discover(tt.g, nil)
			if d != nil {
				t.Errorf("Discover() returned a discovery alongside error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Discover() error = %v, want %s", err, tt.code)
			}
			if errors.CategoryOf(err) != errors.CategoryStructural {
				t.Errorf("CategoryOf() = %q, want structural", errors.CategoryOf(err))
			}
		})
	}
}

// countingProvider records how often the graph is consulted.
type countingProvider struct {
	*graph.Graph
	lookups int
}

func (p *countingProvider) Node(id int) (*graph.Node, bool) {
	p.lookups++
	return p.Graph.Node(id)
}

func TestDiscoverLinear(t *testing.T) {
	const n = 200
	g := graph.New(0)
	for i := range n {
		node := &graph.Node{ID: i}
		if i+1 < n {
			node.Relations = rel(graph.Left, i+1)
			node.Flows = []graph.Flow{pass(i + 1)}
		}
		if err := g.AddNode(node); err != nil {
			t.Fatal(err)
		}
	}
	p := &countingProvider{Graph: g}
	d, err := Discover(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Order) != n {
		t.Fatalf("Order len = %d, want %d", len(d.Order), n)
	}
	// one lookup for the start node plus one per flow
	if p.lookups != n {
		t.Errorf("lookups = %d, want %d", p.lookups, n)
	}
}
