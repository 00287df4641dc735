package store

import "github.com/matzehuels/lineageflow/pkg/flow"

// NodeView is a node as handed to the rendering surface: the canonical data
// plus callbacks bound to this store.
type NodeView struct {
	flow.Node
	OnLabelChange func(id, label string)             `json:"-"`
	OnStyleChange func(id string, p flow.StylePatch) `json:"-"`
}

// EdgeView is an edge with its label callback bound.
type EdgeView struct {
	flow.Edge
	OnLabelChange func(id, label string) `json:"-"`
}

// Enriched returns views of every node and edge with callbacks attached.
// The callbacks mutate the store and must run on the store's goroutine.
func (s *Store) Enriched() ([]NodeView, []EdgeView) {
	g := s.Snapshot()
	setLabel := func(id, label string) { s.SetNodeLabel(id, label) }
	setStyle := func(id string, p flow.StylePatch) { s.SetNodeStyle(id, p) }
	setEdgeLabel := func(id, label string) { s.SetEdgeLabel(id, label) }

	nodes := make([]NodeView, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = NodeView{Node: n, OnLabelChange: setLabel, OnStyleChange: setStyle}
	}
	edges := make([]EdgeView, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = EdgeView{Edge: e, OnLabelChange: setEdgeLabel}
	}
	return nodes, edges
}
