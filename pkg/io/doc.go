// Package io reads and writes dlvis graph descriptions in TOML.
//
// # Format
//
// A description names the start and end node, optional start-node pins,
// and an array of nodes:
//
//	start = 1
//	end = 3
//	start_align_left = true
//	start_align_up = true
//
//	[[nodes]]
//	id = 1
//	dimension = [5, 512, 512, 1]
//	pass_to = 2
//	left_of = 2
//
//	[[nodes]]
//	id = 2
//	dimension = [5, 512, 512, 1]
//	above_of = 3
//	[nodes.operation]
//	to = 3
//	[nodes.operation.convolution]
//	dimension = 3
//	kernel_size = 3
//	num_outputs = 128
//	stride = [1, 2, 2]
//	activation_fn = "relu"
//
//	[[nodes]]
//	id = 3
//	dimension = [5, 256, 256, 1]
//
// # Node Fields
//
// Required:
//   - id: unique non-negative integer
//
// Optional:
//   - dimension: size hint; dimension[0] drives box depth and skip fan-in
//   - left_of, right_of, above_of, below_of: spatial relations
//   - pass_to, skip_connection_to: structural data-flow edges
//   - operation: a transform edge with "to" and exactly one of
//     convolution, deconvolution or fully_connected
//
// Relations are recorded in the order below, above, right, left and flows
// in the order operation, pass, skip. Traversal order, and therefore
// constraint order, follows these.
//
// Parsing does not check referential integrity; call graph.Graph.Validate
// for that.
package io
