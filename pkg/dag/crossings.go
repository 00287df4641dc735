package dag

import (
	"cmp"
	"maps"
	"slices"
)

// CountCrossings sums the edge crossings between every pair of consecutive
// ranks. orders maps a rank to its node ids from left to right (or top to
// bottom in an LR drawing); ranks missing from orders count as empty.
//
//	orders := map[int][]string{
//	    0: {"raw_orders", "raw_customers"},
//	    1: {"stg_orders", "stg_customers"},
//	}
//	n := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		if next, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, orders[r], next)
		}
	}
	return total
}

// CountLayerCrossings counts crossings between edges that run from upper to
// lower. Edges (a,b) and (c,d) cross when a is left of c but b is right of d,
// so the count is the number of inversions among lower positions once edges
// are sorted by upper position. A Fenwick tree keeps this at O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	pos := PosMap(lower)

	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if p, ok := pos[child]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	tree := make(fenwick, len(lower)+1)
	crossings := 0
	for seen, s := range spans {
		crossings += seen - tree.prefix(s.to)
		tree.add(s.to)
	}
	return crossings
}

// fenwick is a binary indexed tree over 1-based positions.
type fenwick []int

// prefix returns how many positions <= i have been added.
func (f fenwick) prefix(i int) int {
	n := 0
	for i++; i > 0; i -= i & -i {
		n += f[i]
	}
	return n
}

func (f fenwick) add(i int) {
	for i++; i < len(f); i += i & -i {
		f[i]++
	}
}

// CountPairCrossings returns the crossings between the edges of left and the
// edges of right toward the adjacent rank, assuming left sits before right.
// useParents selects the rank above instead of the rank below. Comparing
// CountPairCrossings(l, r) with CountPairCrossings(r, l) tells whether
// swapping two neighbors helps.
func CountPairCrossings(g *DAG, left, right string, adjOrder []string, useParents bool) int {
	return CountPairCrossingsWithPos(g, left, right, PosMap(adjOrder), useParents)
}

// CountPairCrossingsWithPos is [CountPairCrossings] with the adjacent rank
// already turned into a position map. Neighbors missing from adjPos are
// ignored.
func CountPairCrossingsWithPos(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	neighbors := g.Children
	if useParents {
		neighbors = g.Parents
	}
	rightNbrs := neighbors(right)

	n := 0
	for _, l := range neighbors(left) {
		lp, ok := adjPos[l]
		if !ok {
			continue
		}
		for _, r := range rightNbrs {
			if rp, ok := adjPos[r]; ok && rp < lp {
				n++
			}
		}
	}
	return n
}
