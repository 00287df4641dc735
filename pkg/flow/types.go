package flow

import "slices"

// =============================================================================
// Constants
// =============================================================================

// TypeCustom is the only node and edge type; the rendering surface maps it
// to the lineage node and edge components.
const TypeCustom = "custom"

// Node defaults.
const (
	DefaultColor = "#555"
	DefaultShape = ShapeRectangle
)

// Edge defaults applied by the connect gesture.
const (
	DefaultEdgeLabel  = "New Relation"
	DefaultStroke     = "#000"
	MarkerArrowClosed = "arrowclosed"
	markerSize        = 20
)

// Shape is the outline a node is drawn with.
type Shape string

// Supported shapes.
const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
	ShapeDiamond   Shape = "diamond"
)

// Palette is the fixed set of node colors offered by the style picker.
var Palette = []string{"#555", "#ff0000", "#00ff00", "#0000ff", "#ffc107"}

// Shapes is the fixed set of node shapes offered by the style picker.
var Shapes = []Shape{ShapeRectangle, ShapeCircle, ShapeDiamond}

// Side is the side of a node box an edge attaches to.
type Side string

// Attachment sides.
const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// =============================================================================
// Node
// =============================================================================

// Position is the top-left corner of a node on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeStyle is the visual style of a node.
type NodeStyle struct {
	Color string `json:"color"`
	Shape Shape  `json:"shape"`
}

// DefaultNodeStyle returns the style new nodes start with.
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{Color: DefaultColor, Shape: DefaultShape}
}

// NodeData is the user-editable payload of a node.
type NodeData struct {
	Label string    `json:"label"`
	Style NodeStyle `json:"style"`
}

// Node is a lineage entity on the canvas.
//
// Selected is transient interaction state: it is reported to and set by
// the rendering surface but never persisted. SourcePosition and
// TargetPosition are set by the layout engine.
type Node struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Position       Position `json:"position"`
	Data           NodeData `json:"data"`
	Selected       bool     `json:"selected,omitempty"`
	SourcePosition Side     `json:"sourcePosition,omitempty"`
	TargetPosition Side     `json:"targetPosition,omitempty"`
}

// NewNode returns a node of type custom with the default style.
func NewNode(id string, pos Position, label string) Node {
	return Node{
		ID:       id,
		Type:     TypeCustom,
		Position: pos,
		Data:     NodeData{Label: label, Style: DefaultNodeStyle()},
	}
}

// =============================================================================
// Edge
// =============================================================================

// EdgeData is the user-editable payload of an edge.
type EdgeData struct {
	Label string `json:"label"`
}

// EdgeStyle is the visual style of an edge.
type EdgeStyle struct {
	Stroke string `json:"stroke,omitempty"`
}

// Marker describes the arrowhead drawn at the end of an edge.
type Marker struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// DefaultMarker returns the closed black arrowhead new edges end with.
func DefaultMarker() *Marker {
	return &Marker{Type: MarkerArrowClosed, Width: markerSize, Height: markerSize, Color: DefaultStroke}
}

// Edge is a directed lineage relation from Source to Target.
type Edge struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Type      string    `json:"type"`
	Data      EdgeData  `json:"data"`
	Style     EdgeStyle `json:"style"`
	MarkerEnd *Marker   `json:"markerEnd,omitempty"`
	Selected  bool      `json:"selected,omitempty"`
}

// NewEdge returns an edge with the defaults applied by the connect gesture.
func NewEdge(id, source, target string) Edge {
	return Edge{
		ID:        id,
		Source:    source,
		Target:    target,
		Type:      TypeCustom,
		Data:      EdgeData{Label: DefaultEdgeLabel},
		Style:     EdgeStyle{Stroke: DefaultStroke},
		MarkerEnd: DefaultMarker(),
	}
}

// Clone returns a copy of e that shares no pointers with it.
func (e Edge) Clone() Edge {
	if e.MarkerEnd != nil {
		m := *e.MarkerEnd
		e.MarkerEnd = &m
	}
	return e
}

// =============================================================================
// Graph
// =============================================================================

// Graph is an ordered sequence of nodes and an ordered sequence of edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of g. Nil sequences become empty ones.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: make([]Edge, len(g.Edges)),
	}
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	for i, e := range g.Edges {
		out.Edges[i] = e.Clone()
	}
	return out
}

// NodeIDs returns the node IDs in sequence order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// FindNode returns the index of the node with the given ID, or -1.
func (g Graph) FindNode(id string) int {
	return slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

// FindEdge returns the index of the edge with the given ID, or -1.
func (g Graph) FindEdge(id string) int {
	return slices.IndexFunc(g.Edges, func(e Edge) bool { return e.ID == id })
}

// DanglingEdges returns the edges whose source or target is not a node of g.
//
// Removing a node does not remove its incident edges, so dangling edges are
// an accepted state. They are reported here and never repaired.
func (g Graph) DanglingEdges() []Edge {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	var out []Edge
	for _, e := range g.Edges {
		_, okS := ids[e.Source]
		_, okT := ids[e.Target]
		if !okS || !okT {
			out = append(out, e)
		}
	}
	return out
}
