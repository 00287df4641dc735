package transform

import (
	"fmt"

	"github.com/matzehuels/lineageflow/pkg/dag"
)

// Subdivide breaks edges that span multiple rows into chains of single-row
// edges joined by dummy nodes.
//
// After Subdivide every edge connects consecutive rows (parent.Row + 1 ==
// child.Row), which the ordering and crossing-count stages rely on:
//
//	Before: raw (row 0) → mart (row 3)
//	After:  raw → raw_dummy_1 → raw_dummy_2 → mart
//
// Dummy nodes have zero size and a MasterID naming the edge's source, so
// they take part in crossing reduction but never reach the output. The
// Reversed flag of the original edge is copied onto every hop.
//
// # Node IDs
//
// Dummy IDs have the form "source_dummy_row". On collision a numeric suffix
// is appended ("raw_dummy_1__2").
//
// # Performance
//
// Time complexity is O(V·D) where D is the number of rows.
func Subdivide(g *dag.DAG) {
	gen := newIDGen(g.Nodes())

	var long []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if srcOK && dstOK && dst.Row > src.Row+1 {
			long = append(long, e)
		}
	}

	for _, e := range long {
		if g.RemoveEdge(e.From, e.To) == 0 {
			continue
		}
		// RemoveEdge drops parallel copies too; rebuild one chain per copy.
		for range countEdges(long, e) {
			src, _ := g.Node(e.From)
			dst, _ := g.Node(e.To)
			prevID := src.ID
			for row := src.Row + 1; row < dst.Row; row++ {
				prevID = addDummy(g, gen, prevID, src.ID, row, e.Reversed)
			}
			if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Reversed: e.Reversed}); err != nil {
				panic(err)
			}
		}
	}
}

func countEdges(edges []dag.Edge, e dag.Edge) int {
	n := 0
	for _, x := range edges {
		if x.From == e.From && x.To == e.To {
			n++
		}
	}
	return n
}

func addDummy(g *dag.DAG, gen *idGen, from, master string, row int, reversed bool) string {
	id := gen.next(master, row)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Row:      row,
		Kind:     dag.NodeKindDummy,
		MasterID: master,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id, Reversed: reversed}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_dummy_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
