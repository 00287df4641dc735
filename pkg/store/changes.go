package store

import (
	"slices"

	"github.com/matzehuels/lineageflow/pkg/flow"
)

// ChangeKind names a delta reported by the rendering surface.
type ChangeKind string

const (
	ChangePosition ChangeKind = "position"
	ChangeSelect   ChangeKind = "select"
	ChangeRemove   ChangeKind = "remove"
	ChangeAdd      ChangeKind = "add"
)

// NodeChange is one node delta: a drag, a selection toggle, a removal or an
// addition. Only the fields relevant to Kind are read.
type NodeChange struct {
	Kind     ChangeKind     `json:"type"`
	ID       string         `json:"id,omitempty"`
	Position *flow.Position `json:"position,omitempty"`
	Selected bool           `json:"selected,omitempty"`
	Item     *flow.Node     `json:"item,omitempty"`
}

// EdgeChange is one edge delta. Edges cannot be dragged, so ChangePosition
// is ignored.
type EdgeChange struct {
	Kind     ChangeKind `json:"type"`
	ID       string     `json:"id,omitempty"`
	Selected bool       `json:"selected,omitempty"`
	Item     *flow.Edge `json:"item,omitempty"`
}

// ApplyNodeChanges folds changes into the node sequence in order.
// Changes naming unknown ids and unknown kinds are skipped, as are additions
// without an id or reusing one. An added numeric id moves the allocator
// past it. Removing a node leaves its edges in place. Subscribers are
// notified once if anything changed.
func (s *Store) ApplyNodeChanges(changes []NodeChange) {
	changed := false
	for _, c := range changes {
		switch c.Kind {
		case ChangeAdd:
			if c.Item == nil || c.Item.ID == "" || s.graph.FindNode(c.Item.ID) >= 0 {
				continue
			}
			s.graph.Nodes = append(s.graph.Nodes, *c.Item)
			s.ids.Observe(c.Item.ID)
			changed = true
		case ChangeRemove:
			before := len(s.graph.Nodes)
			s.graph.Nodes = slices.DeleteFunc(s.graph.Nodes, func(n flow.Node) bool { return n.ID == c.ID })
			changed = changed || len(s.graph.Nodes) != before
		case ChangePosition:
			i := s.graph.FindNode(c.ID)
			if i < 0 || c.Position == nil {
				continue
			}
			s.graph.Nodes[i].Position = *c.Position
			changed = true
		case ChangeSelect:
			i := s.graph.FindNode(c.ID)
			if i < 0 {
				continue
			}
			s.graph.Nodes[i].Selected = c.Selected
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}

// ApplyEdgeChanges folds changes into the edge sequence in order. Additions
// are skipped unless their id is new and both endpoints exist.
func (s *Store) ApplyEdgeChanges(changes []EdgeChange) {
	changed := false
	for _, c := range changes {
		switch c.Kind {
		case ChangeAdd:
			if c.Item == nil || c.Item.ID == "" || s.graph.FindEdge(c.Item.ID) >= 0 || !s.hasEndpoints(c.Item.Source, c.Item.Target) {
				continue
			}
			s.graph.Edges = append(s.graph.Edges, c.Item.Clone())
			changed = true
		case ChangeRemove:
			before := len(s.graph.Edges)
			s.graph.Edges = slices.DeleteFunc(s.graph.Edges, func(e flow.Edge) bool { return e.ID == c.ID })
			changed = changed || len(s.graph.Edges) != before
		case ChangeSelect:
			i := s.graph.FindEdge(c.ID)
			if i < 0 {
				continue
			}
			s.graph.Edges[i].Selected = c.Selected
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}
