// Package transform provides graph transformations that prepare a DAG for
// layered layout.
//
// # Overview
//
// Lineage graphs drawn by hand rarely form a clean hierarchy. They may
// contain cycles, edges that skip several levels and nodes with no edges at
// all. The transformations here bring a [dag.DAG] into the shape the row
// ordering stage expects:
//
//   - The graph is acyclic
//   - Every node has a row, with parents strictly above their children
//   - Every edge connects consecutive rows
//
// [Normalize] applies the complete pipeline in the correct order.
//
// # Cycle Breaking
//
// [BreakCycles] reverses the back edges of a depth-first search. Reversed
// edges keep pulling their endpoints close together, so a cycle A→B→C→A is
// still drawn as a compact chain instead of being torn apart.
//
// # Layer Assignment
//
// [AssignLayers] computes each node's row with a longest-path ranking from
// the source nodes.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges into chains of single-row hops by inserting
// dummy nodes:
//
//	Before: raw (row 0) → mart (row 3)
//	After:  raw → raw_dummy_1 → raw_dummy_2 → mart
//
// # Usage
//
//	reversed := transform.Normalize(g) // modifies g in place
//
// For fine-grained control, apply transformations individually:
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	transform.Subdivide(g)
package transform
