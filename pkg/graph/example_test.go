package graph_test

import (
	"fmt"

	"github.com/matzehuels/dlvis/pkg/graph"
)

func ExampleGraph_Neighbor() {
	g := graph.New(1)
	_ = g.AddNode(&graph.Node{ID: 1, Relations: []graph.Relation{{Dir: graph.Left, Target: 2}}})
	_ = g.AddNode(&graph.Node{ID: 2})

	start, _ := g.StartNode()
	n, ok := g.Neighbor(start, graph.Left)
	fmt.Println(n.ID, ok)
	// Output:
	// 2 true
}
