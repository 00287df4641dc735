// Package layout computes hierarchical positions for lineage graphs.
//
// # Overview
//
// [Engine.Layout] draws a graph as layered boxes in the Sugiyama style.
// Upstream nodes are placed before the nodes they feed, either top to bottom
// ([TopBottom]) or left to right ([LeftRight]):
//
//  1. Cycles are broken by reversing back edges ([transform.BreakCycles])
//  2. Nodes are ranked by longest path ([transform.AssignLayers])
//  3. Long edges get dummy nodes so every edge spans one rank
//  4. Each rank is ordered to reduce crossings (an [Orderer])
//  5. Coordinates are assigned and mapped to the requested direction
//
// Every node is a fixed-size box ([DefaultOptions]: 172×36, 50 units between
// ranks and between neighbors). The returned position is the box's top-left
// corner, that is the computed center minus half the box size.
//
// # Determinism
//
// Layout has no randomness. Ties are broken by input order, so the same
// nodes, edges and direction always produce the same positions.
//
// # Caching
//
// [CachedEngine] stores results in a [cache.Cache] keyed by node ids, edge
// endpoints, direction and options. Labels and styles do not affect layout
// and are not part of the key.
//
// [transform.BreakCycles]: github.com/matzehuels/lineageflow/pkg/dag/transform.BreakCycles
// [transform.AssignLayers]: github.com/matzehuels/lineageflow/pkg/dag/transform.AssignLayers
// [cache.Cache]: github.com/matzehuels/lineageflow/pkg/cache.Cache
package layout
