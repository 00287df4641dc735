// Package dag provides a layered directed graph used by the lineageflow
// layout engine.
//
// # Overview
//
// Hierarchical (Sugiyama-style) drawing assigns every node to a row, splits
// edges that skip rows with dummy nodes, orders each row to reduce edge
// crossings and finally assigns coordinates. This package holds the graph
// those steps operate on: nodes carry a Row and a box size, edges are plain
// From→To pairs, and every row keeps an explicit left-to-right order.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "orders", Row: 0})
//	g.AddNode(dag.Node{ID: "stg_orders", Row: 1})
//	g.AddEdge(dag.Edge{From: "orders", To: "stg_orders"})
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.NodesInRow]
// and related methods. [DAG.Validate] checks that every edge joins
// consecutive rows and that no cycle is left.
//
// # Determinism
//
// Nodes are stored in insertion order and every multi-node query returns
// them in that order. Given the same construction sequence, every algorithm
// in this package and in [transform] produces the same result.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree to count
// inversions in O(E log V) time; [CountPairCrossings] scores a swap of two
// neighbors for the transpose heuristic.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// [transform]: github.com/matzehuels/lineageflow/pkg/dag/transform
package dag
