package transform

import "github.com/matzehuels/lineageflow/pkg/dag"

// AssignLayers ranks every node by its longest path from a source, so a
// dataset always sits at least one rank below everything that feeds it.
// Sources get rank 0. Existing rows are overwritten.
//
// The graph must be acyclic; nodes left on a cycle keep rank 0. Call
// [BreakCycles] first. Runs in O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	pending := make(map[string]int, len(nodes))
	rank := make(map[string]int, len(nodes))

	var ready []string
	for _, n := range nodes {
		pending[n.ID] = g.InDegree(n.ID)
		if pending[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	for i := 0; i < len(ready); i++ {
		id := ready[i]
		for _, child := range g.Children(id) {
			rank[child] = max(rank[child], rank[id]+1)
			if pending[child]--; pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	g.SetRows(rank)
}
