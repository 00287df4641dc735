package store

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/lineageflow/pkg/flow"
)

// PasteOffset is added to both coordinates of a duplicated node.
const PasteOffset = 20

// CopySuffix is appended to the label of a duplicated node.
const CopySuffix = " (Copy)"

// randomArea is the side of the square new nodes are scattered in by
// RandomPosition.
const randomArea = 400

// Store is the canonical graph plus the id allocator for new nodes.
type Store struct {
	ids   *flow.IDAllocator
	graph flow.Graph

	subs    map[int]func(flow.Graph)
	nextSub int

	newEdgeID func() string
}

// New creates an empty store allocating node ids from ids.
// A nil allocator starts a fresh sequence at "1".
func New(ids *flow.IDAllocator) *Store {
	if ids == nil {
		ids = flow.NewIDAllocator()
	}
	return &Store{
		ids:       ids,
		graph:     flow.Graph{Nodes: []flow.Node{}, Edges: []flow.Edge{}},
		subs:      make(map[int]func(flow.Graph)),
		newEdgeID: func() string { return "edge-" + uuid.NewString() },
	}
}

// IDs returns the allocator the store draws node ids from.
func (s *Store) IDs() *flow.IDAllocator { return s.ids }

// RandomPosition returns a point in the 400×400 square at the canvas origin.
func RandomPosition(r *rand.Rand) flow.Position {
	return flow.Position{X: r.Float64() * randomArea, Y: r.Float64() * randomArea}
}

// AddNode appends a node at pos labeled "Node {id}" with the default style.
func (s *Store) AddNode(pos flow.Position) flow.Node {
	id := s.ids.Next()
	n := flow.NewNode(id, pos, "Node "+id)
	s.graph.Nodes = append(s.graph.Nodes, n)
	s.notify()
	return n
}

// SetNodeLabel replaces the label of node id. It reports whether the node
// exists; unknown ids are ignored.
func (s *Store) SetNodeLabel(id, text string) bool {
	i := s.graph.FindNode(id)
	if i < 0 {
		return false
	}
	s.graph.Nodes[i].Data.Label = text
	s.notify()
	return true
}

// SetNodeStyle merges patch into the style of node id. Fields left nil in
// the patch are unchanged. Unknown ids are ignored.
func (s *Store) SetNodeStyle(id string, patch flow.StylePatch) bool {
	i := s.graph.FindNode(id)
	if i < 0 {
		return false
	}
	s.graph.Nodes[i].Data.Style = patch.Apply(s.graph.Nodes[i].Data.Style)
	s.notify()
	return true
}

// SetEdgeLabel replaces the label of edge id. Unknown ids are ignored.
func (s *Store) SetEdgeLabel(id, text string) bool {
	i := s.graph.FindEdge(id)
	if i < 0 {
		return false
	}
	s.graph.Edges[i].Data.Label = text
	s.notify()
	return true
}

// Connection is a connect gesture as reported by the rendering surface.
type Connection struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	// ID is used as the edge id when set.
	ID string `json:"id,omitempty"`
}

// Valid reports whether the surface produced a usable handle pairing.
func (c Connection) Valid() bool {
	return c.Source != "" && c.Target != ""
}

// Connect appends an edge labeled "New Relation" with a black stroke and
// closed arrowhead. Self-loops and duplicates of existing edges are
// accepted. It returns false, adding nothing, when the connection is
// invalid or names a node that does not exist. An explicit ID already in
// use is replaced by a generated one.
func (s *Store) Connect(c Connection) (flow.Edge, bool) {
	if !c.Valid() || !s.hasEndpoints(c.Source, c.Target) {
		return flow.Edge{}, false
	}
	id := c.ID
	if id == "" || s.graph.FindEdge(id) >= 0 {
		id = s.newEdgeID()
	}
	e := flow.NewEdge(id, c.Source, c.Target)
	s.graph.Edges = append(s.graph.Edges, e)
	s.notify()
	return e.Clone(), true
}

func (s *Store) hasEndpoints(source, target string) bool {
	return s.graph.FindNode(source) >= 0 && s.graph.FindNode(target) >= 0
}

// ReplaceAll swaps in a new graph and reseeds the id allocator from the new
// node ids so later nodes never collide with loaded ones.
func (s *Store) ReplaceAll(nodes []flow.Node, edges []flow.Edge) {
	s.graph = flow.Graph{Nodes: nodes, Edges: edges}.Clone()
	s.ids.Reseed(s.graph.NodeIDs())
	s.notify()
}

// DuplicateSelected appends a copy of each given node with a fresh id, the
// position moved by (+20,+20), " (Copy)" appended to the label and the
// selection cleared. Styles are copied; edges are not. It returns the copies.
func (s *Store) DuplicateSelected(nodes []flow.Node) []flow.Node {
	if len(nodes) == 0 {
		return nil
	}
	copies := make([]flow.Node, len(nodes))
	for i, n := range nodes {
		n.ID = s.ids.Next()
		n.Position.X += PasteOffset
		n.Position.Y += PasteOffset
		n.Data.Label += CopySuffix
		n.Selected = false
		copies[i] = n
	}
	s.graph.Nodes = append(s.graph.Nodes, copies...)
	s.notify()
	return slices.Clone(copies)
}

// ApplyLayout copies positions and attachment sides from laid-out nodes,
// matched by id. Labels, styles and edges are untouched.
func (s *Store) ApplyLayout(nodes []flow.Node) {
	byID := make(map[string]flow.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for i := range s.graph.Nodes {
		if n, ok := byID[s.graph.Nodes[i].ID]; ok {
			s.graph.Nodes[i].Position = n.Position
			s.graph.Nodes[i].SourcePosition = n.SourcePosition
			s.graph.Nodes[i].TargetPosition = n.TargetPosition
		}
	}
	s.notify()
}

// Snapshot returns a deep copy of the current graph.
func (s *Store) Snapshot() flow.Graph {
	return s.graph.Clone()
}

// Node returns a copy of node id.
func (s *Store) Node(id string) (flow.Node, bool) {
	if i := s.graph.FindNode(id); i >= 0 {
		return s.graph.Nodes[i], true
	}
	return flow.Node{}, false
}

// Edge returns a copy of edge id.
func (s *Store) Edge(id string) (flow.Edge, bool) {
	if i := s.graph.FindEdge(id); i >= 0 {
		return s.graph.Edges[i].Clone(), true
	}
	return flow.Edge{}, false
}

// SelectedNodes returns copies of the selected nodes in sequence order.
func (s *Store) SelectedNodes() []flow.Node {
	var out []flow.Node
	for _, n := range s.graph.Nodes {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

// DanglingEdges lists edges whose source or target no longer exists.
func (s *Store) DanglingEdges() []flow.Edge {
	return s.graph.DanglingEdges()
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	return len(s.graph.Nodes), len(s.graph.Edges)
}

// Subscribe registers fn to receive a snapshot after every committed
// mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(flow.Graph)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(s.graph.Clone())
		}
	}
}
