// Package layout computes box and line coordinates for a dlvis graph.
//
// # Overview
//
// A layout runs in two steps that share nothing with other calls:
//
//  1. [Discover] walks the graph breadth-first from its start node and
//     returns the reachable nodes, one [Box] of solver variables per node,
//     the alignment edges (spatial relations) and the data-flow edges.
//  2. [Solve] builds a constraint system from the discovery, solves it,
//     routes the data-flow lines against the solved boxes, and solves again.
//
// [Layout] runs both:
//
//	g, _ := io.ReadFile("net.toml")
//	res, err := layout.Layout(g, layout.Options{Pin: g.Align})
//
// # Constraints
//
// For every alignment edge "A is Left of B" the solver receives
//
//	A.right <= B.left               required
//	A.right + Spacing <= B.left     strong
//	A.upper == B.upper              weak
//
// and the analogous constraints for Right, Above and Below (vertical
// relations align on the left edge). Every box is square with side
// [BoxSize]. The canvas width and height are strong edit variables
// suggested from [Options.Canvas].
//
// # Routing
//
// Lines are routed from the solved Stage A positions. A flow is horizontal
// when the boxes' left-edge gap is at least their upper-edge gap. The source
// leaves from the edge facing the target, at its midpoint; both endpoints
// keep [LineSpacing] clear of the box borders. Skip connections draw a trunk
// that starts 2*LineSpacing out plus one connector per source channel.
// Transform flows draw nothing and are counted in [Result.Undrawn].
//
// # Errors
//
// Errors carry codes from pkg/errors: START_NOT_FOUND and DANGLING_RELATION
// come from discovery, before any constraint exists; INFEASIBLE when the
// required constraints conflict; INTERNAL_ERROR when a box lookup fails.
//
// # Concurrency
//
// Each call owns its solver and variables, so independent graphs can be laid
// out in parallel.
package layout
