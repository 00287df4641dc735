package dag_test

import (
	"fmt"

	"github.com/matzehuels/lineageflow/pkg/dag"
)

func ExampleDAG_basic() {
	// A small lineage chain: raw table → staging model → mart
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "raw_orders", Row: 0})
	_ = g.AddNode(dag.Node{ID: "stg_orders", Row: 1})
	_ = g.AddNode(dag.Node{ID: "fct_orders", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "raw_orders", To: "stg_orders"})
	_ = g.AddEdge(dag.Edge{From: "stg_orders", To: "fct_orders"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
}

func ExampleDAG_traversal() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "orders", Row: 0})
	_ = g.AddNode(dag.Node{ID: "revenue", Row: 1})
	_ = g.AddNode(dag.Node{ID: "refunds", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "orders", To: "revenue"})
	_ = g.AddEdge(dag.Edge{From: "orders", To: "refunds"})

	fmt.Println("Children of orders:", g.Children("orders"))
	fmt.Println("Parents of revenue:", g.Parents("revenue"))
	fmt.Println("Out-degree of orders:", g.OutDegree("orders"))
	// Output:
	// Children of orders: [revenue refunds]
	// Parents of revenue: [orders]
	// Out-degree of orders: 2
}

func ExampleCountCrossings() {
	// Two sources feeding two targets in crossed order.
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	crossed := dag.CountCrossings(g, map[int][]string{0: {"a", "b"}, 1: {"x", "y"}})
	straight := dag.CountCrossings(g, map[int][]string{0: {"a", "b"}, 1: {"y", "x"}})
	fmt.Println(crossed, straight)
	// Output:
	// 1 0
}
