// Package graph defines the declarative node graph that dlvis lays out.
//
// # Overview
//
// A [Graph] is an arena of [Node] values indexed by integer id. Each node
// carries a size-hint vector ([Node.Dimension]), at most one spatial
// [Relation] per [Direction], and any number of data-flow edges ([Flow]).
// The graph does not interpret geometry; it only answers lookups:
//
//	g := graph.New(1)
//	_ = g.AddNode(&graph.Node{ID: 1, Relations: []graph.Relation{{Dir: graph.Left, Target: 2}}})
//	_ = g.AddNode(&graph.Node{ID: 2})
//
//	n, _ := g.Node(1)
//	right, ok := g.Neighbor(n, graph.Left) // node 2
//
// # Relations
//
// A relation reads "this node is <direction> of target": a node with
// {Dir: Left, Target: 2} sits to the left of node 2. Relations are kept in
// declaration order, which is also the order in which they are traversed.
//
// # Flows
//
// Data-flow edges are a closed variant: [FlowPass], [FlowSkip] and
// [FlowTransform]. Transform flows carry an [Operation] describing the layer
// (convolution, deconvolution or fully connected); pass and skip flows carry
// nothing beyond their target.
//
// # Validation
//
// [Graph.Validate] checks referential integrity of every link plus the start
// and end ids. The layout engine does not require a validated graph: it
// treats a dangling spatial relation as fatal and drops dangling flows.
//
// # Concurrency
//
// A Graph is safe for concurrent reads once construction is complete.
package graph
