package layout

import (
	"slices"

	"github.com/matzehuels/lineageflow/pkg/dag"
)

// Orderer decides the left-to-right sequence of nodes in each rank.
// Implementations must be deterministic.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// DefaultPasses is the sweep budget used when Barycenter.Passes is zero.
const DefaultPasses = 24

// staleLimit stops sweeping after this many passes without improvement.
const staleLimit = 4

// Barycenter orders ranks with alternating down and up barycenter sweeps,
// each followed by adjacent-swap transposition. The ordering with the
// fewest crossings seen is returned.
type Barycenter struct {
	Passes int
}

// OrderRows implements Orderer. The graph must have consecutive-row edges
// (see transform.Normalize).
func (b Barycenter) OrderRows(g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	rows := g.RowIDs()
	orders := initialOrder(g)
	transpose(g, orders, rows)

	best := cloneOrders(orders)
	bestCross := dag.CountCrossings(g, best)

	stale := 0
	for i := 0; i < passes && bestCross > 0 && stale < staleLimit; i++ {
		if i%2 == 0 {
			for _, r := range rows[min(1, len(rows)):] {
				reorder(orders, r, r-1, func(id string) []string { return g.ParentsInRow(id, r-1) })
			}
		} else {
			for j := len(rows) - 2; j >= 0; j-- {
				r := rows[j]
				reorder(orders, r, r+1, func(id string) []string { return g.ChildrenInRow(id, r+1) })
			}
		}
		transpose(g, orders, rows)

		if c := dag.CountCrossings(g, orders); c < bestCross {
			best, bestCross, stale = cloneOrders(orders), c, 0
		} else {
			stale++
		}
	}
	return best
}

// initialOrder seeds ranks with a depth-first walk from the nodes in rank
// order, so connected nodes start out close to each other.
func initialOrder(g *dag.DAG) map[int][]string {
	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b *dag.Node) int { return a.Row - b.Row })

	orders := make(map[int][]string, g.RowCount())
	visited := make(map[string]bool, len(nodes))

	var visit func(n *dag.Node)
	visit = func(n *dag.Node) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		orders[n.Row] = append(orders[n.Row], n.ID)
		for _, child := range g.Children(n.ID) {
			if c, ok := g.Node(child); ok {
				visit(c)
			}
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	return orders
}

// reorder sorts row r by the mean position of each node's neighbors in row
// adj. Nodes without neighbors keep their slot.
func reorder(orders map[int][]string, r, adj int, neighbors func(string) []string) {
	row := orders[r]
	pos := dag.PosMap(orders[adj])

	type weighted struct {
		id   string
		bary float64
	}
	var movable []weighted
	fixed := make([]bool, len(row))
	for i, id := range row {
		sum, n := 0.0, 0
		for _, nb := range neighbors(id) {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			fixed[i] = true
			continue
		}
		movable = append(movable, weighted{id, sum / float64(n)})
	}

	slices.SortStableFunc(movable, func(a, b weighted) int {
		switch {
		case a.bary < b.bary:
			return -1
		case a.bary > b.bary:
			return 1
		}
		return 0
	})

	next := 0
	for i := range row {
		if fixed[i] {
			continue
		}
		row[i] = movable[next].id
		next++
	}
}

// transpose swaps neighbors while doing so lowers crossings against the
// ranks above and below.
func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	const maxRounds = 16
	improved := true
	for round := 0; improved && round < maxRounds; round++ {
		improved = false
		for _, r := range rows {
			row := orders[r]
			above := dag.PosMap(orders[r-1])
			below := dag.PosMap(orders[r+1])
			for i := 0; i+1 < len(row); i++ {
				u, v := row[i], row[i+1]
				if pairCrossings(g, v, u, above, below) < pairCrossings(g, u, v, above, below) {
					row[i], row[i+1] = v, u
					improved = true
				}
			}
		}
	}
}

func pairCrossings(g *dag.DAG, left, right string, above, below map[string]int) int {
	return dag.CountPairCrossingsWithPos(g, left, right, above, true) +
		dag.CountPairCrossingsWithPos(g, left, right, below, false)
}

func cloneOrders(orders map[int][]string) map[int][]string {
	c := make(map[int][]string, len(orders))
	for r, ids := range orders {
		c[r] = slices.Clone(ids)
	}
	return c
}
