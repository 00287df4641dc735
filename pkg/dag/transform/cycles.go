package transform

import "github.com/matzehuels/lineageflow/pkg/dag"

// BreakCycles makes g acyclic by reversing every back edge found by a
// depth-first search and returns the back edges as they were before reversal.
//
// The search starts from source nodes in insertion order, then from any node
// still unvisited (nodes that only sit on cycles). Reversed edges are re-added
// with Reversed set so later stages can tell them apart. Self-loops are
// removed without replacement since they carry no ranking information.
//
// Reversing the back edges of a DFS always yields a DAG, so a second call
// returns nil.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges []dag.Edge
	seen := make(map[[2]string]bool)

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				key := [2]string{node, child}
				if !seen[key] {
					seen[key] = true
					backEdges = append(backEdges, dag.Edge{From: node, To: child})
				}
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	var removed []dag.Edge
	for _, e := range backEdges {
		n := g.RemoveEdge(e.From, e.To)
		for range n {
			removed = append(removed, e)
			if e.From == e.To {
				continue
			}
			if err := g.AddEdge(dag.Edge{From: e.To, To: e.From, Reversed: true}); err != nil {
				panic(err)
			}
		}
	}
	return removed
}
