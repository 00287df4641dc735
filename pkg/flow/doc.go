// Package flow defines the data-lineage graph model shared by every
// lineageflow component.
//
// # Overview
//
// A lineage graph is an ordered sequence of [Node] values (tables, fields,
// transforms) and an ordered sequence of [Edge] values (flows between them).
// The model is deliberately permissive:
//
//   - Node IDs are unique within a graph
//   - Edges reference node IDs, but nothing repairs an edge whose endpoint
//     was removed (see [Graph.DanglingEdges])
//   - Parallel edges, self-loops and cycles are all allowed
//
// # Styles
//
// Nodes carry a [NodeStyle] chosen from a fixed [Palette] and [Shapes] set.
// Edges carry a stroke color and a closed arrowhead marker.
//
// # Identifiers
//
// [IDAllocator] issues node IDs "1", "2", ... and is reseeded from loaded
// data so that newly created nodes never collide with imported ones. An
// allocator is a plain value owned by the editor session; there is no
// package-level counter.
package flow
