package layout

import (
	"math"

	"github.com/matzehuels/lineageflow/pkg/dag"
)

// alignRounds is the number of alternating down/up alignment passes.
const alignRounds = 8

// assignCross returns the center coordinate of every node along the rank
// axis. Ranks start packed and centered, then each node is pulled toward the
// mean of its neighbors while keeping minimum separation.
func assignCross(g *dag.DAG, orders map[int][]string, opts Options) map[string]float64 {
	rows := g.RowIDs()
	x := make(map[string]float64, g.NodeCount())

	size := func(id string) float64 {
		if n, ok := g.Node(id); ok && !n.IsDummy() {
			return n.Width
		}
		return 0
	}
	minDist := func(a, b string) float64 {
		gap := opts.NodeSep
		na, _ := g.Node(a)
		nb, _ := g.Node(b)
		if na.IsDummy() || nb.IsDummy() {
			gap = opts.EdgeSep
		}
		return size(a)/2 + size(b)/2 + gap
	}

	for _, r := range rows {
		row := orders[r]
		if len(row) == 0 {
			continue
		}
		pos := 0.0
		x[row[0]] = 0
		for i := 1; i < len(row); i++ {
			pos += minDist(row[i-1], row[i])
			x[row[i]] = pos
		}
		shift := pos / 2
		for _, id := range row {
			x[id] -= shift
		}
	}

	for round := 0; round < alignRounds; round++ {
		if round%2 == 0 {
			for _, r := range rows {
				align(orders[r], x, minDist, func(id string) []string { return g.ParentsInRow(id, r-1) })
			}
		} else {
			for j := len(rows) - 1; j >= 0; j-- {
				r := rows[j]
				align(orders[r], x, minDist, func(id string) []string { return g.ChildrenInRow(id, r+1) })
			}
		}
	}

	// Shift so the leftmost box edge sits at zero.
	left := math.Inf(1)
	for _, n := range g.Nodes() {
		if !n.IsDummy() {
			left = math.Min(left, x[n.ID]-n.Width/2)
		}
	}
	if !math.IsInf(left, 1) {
		for id := range x {
			x[id] -= left
		}
	}
	return x
}

// align moves the nodes of one row toward their neighbors' mean position.
// It places the row once packing from the left and once from the right and
// averages both, which keeps separation and does not favor either side.
func align(row []string, x map[string]float64, minDist func(a, b string) float64, neighbors func(string) []string) {
	n := len(row)
	if n == 0 {
		return
	}

	want := make([]float64, n)
	for i, id := range row {
		want[i] = x[id]
		nbs := neighbors(id)
		if len(nbs) == 0 {
			continue
		}
		sum := 0.0
		for _, nb := range nbs {
			sum += x[nb]
		}
		want[i] = sum / float64(len(nbs))
	}

	fromLeft := make([]float64, n)
	fromLeft[0] = want[0]
	for i := 1; i < n; i++ {
		fromLeft[i] = math.Max(want[i], fromLeft[i-1]+minDist(row[i-1], row[i]))
	}

	fromRight := make([]float64, n)
	fromRight[n-1] = want[n-1]
	for i := n - 2; i >= 0; i-- {
		fromRight[i] = math.Min(want[i], fromRight[i+1]-minDist(row[i], row[i+1]))
	}

	for i, id := range row {
		x[id] = (fromLeft[i] + fromRight[i]) / 2
	}
}
