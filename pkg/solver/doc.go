// Package solver implements an incremental linear constraint solver in the
// Cassowary family.
//
// Constraints are linear relations (≤, =, ≥) between [Expression] values,
// each tagged with a [Strength]. Required constraints are never violated;
// weaker ones are satisfied as well as possible, stronger before weaker.
// The solver keeps a dual-feasible simplex tableau so that constraints can be
// added one at a time and edit variables re-suggested without rebuilding the
// system.
//
// # Usage
//
//	width := solver.NewVariable("width")
//	left := solver.NewVariable("left")
//	right := solver.NewVariable("right")
//
//	s := solver.New()
//	_ = s.AddConstraint(solver.Equal(right.Expr().Minus(left.Expr()), solver.Constant(100), solver.Required))
//	_ = s.AddConstraint(solver.Equal(right.Expr(), width.Expr(), solver.Required))
//	_ = s.AddEditVariable(width, solver.Strong)
//	_ = s.SuggestValue(width, 1280)
//	s.UpdateVariables()
//
//	fmt.Println(left.Value()) // 1180
//
// # Determinism
//
// Pivot selection breaks ties by symbol creation order, so adding the same
// constraints in the same order always yields the same solution.
//
// A Solver is not safe for concurrent use. Independent solvers share no state
// and may run in parallel.
package solver
