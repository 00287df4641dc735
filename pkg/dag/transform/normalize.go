package transform

import "github.com/matzehuels/lineageflow/pkg/dag"

// Normalize prepares g for row ordering: it breaks cycles, assigns rows and
// subdivides long edges. It returns the edges that were reversed or dropped
// by [BreakCycles].
func Normalize(g *dag.DAG) []dag.Edge {
	reversed := BreakCycles(g)
	AssignLayers(g)
	Subdivide(g)
	return reversed
}
