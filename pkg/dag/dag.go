package dag

import (
	"errors"
	"maps"
	"slices"
)

// Errors returned by graph construction and [DAG.Validate].
var (
	ErrInvalidNodeID       = errors.New("node ID must not be empty")
	ErrDuplicateNodeID     = errors.New("duplicate node ID")
	ErrUnknownSourceNode   = errors.New("unknown source node")
	ErrUnknownTargetNode   = errors.New("unknown target node")
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
	ErrNonConsecutiveRows  = errors.New("edges must connect consecutive rows")
	ErrGraphHasCycle       = errors.New("graph contains a cycle")
)

// NodeKind tells canvas nodes apart from layout waypoints.
type NodeKind int

const (
	// NodeKindRegular is a dataset on the canvas.
	NodeKindRegular NodeKind = iota
	// NodeKindDummy is a zero-size waypoint on an edge that spans several
	// rows. MasterID names the source of the split edge.
	NodeKindDummy
)

// Node is a vertex with a rank and the size of its box. Width is measured
// across the layout axis and Height along it, so an LR layout swaps them.
type Node struct {
	ID       string
	Row      int
	Width    float64
	Height   float64
	Kind     NodeKind
	MasterID string
}

// IsDummy reports whether n was inserted to split a long edge.
func (n Node) IsDummy() bool { return n.Kind == NodeKindDummy }

// Edge is a directed From→To connection. Reversed is set on edges flipped
// to break a cycle.
type Edge struct {
	From     string
	To       string
	Reversed bool
}

// DAG is a directed graph whose nodes are grouped into ordered rows.
//
// Nodes keep insertion order and every query returning several nodes
// returns them in that order, so layouts are reproducible. Despite the name
// a DAG may hold cycles until transform.BreakCycles has run; Validate
// reports them. A DAG is not safe for concurrent use.
type DAG struct {
	byID     map[string]*Node
	order    []*Node
	edges    []Edge
	children map[string][]string
	parents  map[string][]string
	rows     map[int][]*Node
}

// New returns an empty graph.
func New() *DAG {
	return &DAG{
		byID:     make(map[string]*Node),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		rows:     make(map[int][]*Node),
	}
}

// AddNode inserts a copy of n at the end of its row.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrInvalidNodeID
	case d.byID[n.ID] != nil:
		return ErrDuplicateNodeID
	}
	p := &n
	d.byID[n.ID] = p
	d.order = append(d.order, p)
	d.rows[n.Row] = append(d.rows[n.Row], p)
	return nil
}

// AddEdge connects two existing nodes. Self-loops and parallel edges are
// kept: lineage graphs may contain both.
func (d *DAG) AddEdge(e Edge) error {
	if d.byID[e.From] == nil {
		return ErrUnknownSourceNode
	}
	if d.byID[e.To] == nil {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.children[e.From] = append(d.children[e.From], e.To)
	d.parents[e.To] = append(d.parents[e.To], e.From)
	return nil
}

// RemoveEdge deletes every From→To edge and returns how many it removed.
func (d *DAG) RemoveEdge(from, to string) int {
	n := len(d.edges)
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.children[from] = slices.DeleteFunc(d.children[from], func(id string) bool { return id == to })
	d.parents[to] = slices.DeleteFunc(d.parents[to], func(id string) bool { return id == from })
	return n - len(d.edges)
}

// SetRows moves the nodes named in rows and rebuilds the row index. Nodes
// missing from rows stay where they are.
func (d *DAG) SetRows(rows map[string]int) {
	clear(d.rows)
	for _, n := range d.order {
		if r, ok := rows[n.ID]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// SetRowOrder sorts row by the position of each node in ids. Nodes not in
// ids go last, keeping their relative order.
func (d *DAG) SetRowOrder(row int, ids []string) {
	pos := PosMap(ids)
	rank := func(n *Node) int {
		if p, ok := pos[n.ID]; ok {
			return p
		}
		return len(ids)
	}
	slices.SortStableFunc(d.rows[row], func(a, b *Node) int { return rank(a) - rank(b) })
}

// Node looks a node up by id.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The pointers are live.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

// Edges returns a copy of the edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

func (d *DAG) NodeCount() int { return len(d.order) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children and Parents return neighbor ids, one entry per edge. The slices
// must not be modified.
func (d *DAG) Children(id string) []string { return d.children[id] }
func (d *DAG) Parents(id string) []string  { return d.parents[id] }

func (d *DAG) InDegree(id string) int  { return len(d.parents[id]) }
func (d *DAG) OutDegree(id string) int { return len(d.children[id]) }

// ChildrenInRow returns the children of id that sit in row.
func (d *DAG) ChildrenInRow(id string, row int) []string {
	return d.inRow(d.children[id], row)
}

// ParentsInRow returns the parents of id that sit in row.
func (d *DAG) ParentsInRow(id string, row int) []string {
	return d.inRow(d.parents[id], row)
}

func (d *DAG) inRow(ids []string, row int) []string {
	var out []string
	for _, id := range ids {
		if n := d.byID[id]; n != nil && n.Row == row {
			out = append(out, id)
		}
	}
	return out
}

// NodesInRow returns the nodes of row in their current order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount returns the number of non-empty rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns the row indices in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// Sources returns the nodes without incoming edges.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, n := range d.order {
		if len(d.parents[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks that the graph is ready for ordering: every edge joins
// existing nodes in consecutive rows and no cycle is left.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		from, to := d.byID[e.From], d.byID[e.To]
		if from == nil || to == nil {
			return ErrInvalidEdgeEndpoint
		}
		if to.Row != from.Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	if d.hasCycle() {
		return ErrGraphHasCycle
	}
	return nil
}

// hasCycle runs an iterative three-color DFS.
func (d *DAG) hasCycle() bool {
	const (
		unseen = iota
		open
		done
	)
	state := make(map[string]int, len(d.order))
	type frame struct {
		id   string
		next int
	}
	for _, root := range d.order {
		if state[root.ID] != unseen {
			continue
		}
		stack := []frame{{id: root.ID}}
		state[root.ID] = open
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := d.children[top.id]
			if top.next == len(kids) {
				state[top.id] = done
				stack = stack[:len(stack)-1]
				continue
			}
			child := kids[top.next]
			top.next++
			switch state[child] {
			case open:
				return true
			case unseen:
				state[child] = open
				stack = append(stack, frame{id: child})
			}
		}
	}
	return false
}

// PosMap maps each id to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs returns the ids of nodes, in order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
