package editor

import (
	"unicode/utf8"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/store"
)

// EdgeLabelMax is the number of characters an edge label shows before it is
// truncated.
const EdgeLabelMax = 10

// NodeState is the inline editing state of a node.
type NodeState string

const (
	NodeIdle    NodeState = "idle"
	NodeHovered NodeState = "hovered"
	NodeEditing NodeState = "editing"
)

// EdgeState is the label state of an edge.
type EdgeState string

const (
	EdgeHidden  EdgeState = "hidden"
	EdgeVisible EdgeState = "visible"
	EdgeEditing EdgeState = "editing"
)

// EventType names a pointer or keyboard gesture on a node or edge.
type EventType string

const (
	EventPointerEnter EventType = "pointerenter"
	EventPointerLeave EventType = "pointerleave"
	EventClick        EventType = "click"
	EventDoubleClick  EventType = "dblclick"
	EventInput        EventType = "input"
	EventBlur         EventType = "blur"
	EventKeyEnter     EventType = "enter"
	EventStylePick    EventType = "style"
)

// Event is a gesture reported by the rendering surface. Text carries the
// editor buffer for EventInput; Style carries the picked value for
// EventStylePick.
type Event struct {
	Type  EventType        `json:"type"`
	Text  string           `json:"text,omitempty"`
	Style *flow.StylePatch `json:"style,omitempty"`
}

type nodeMachine struct {
	state   NodeState
	hovered bool
	buffer  string
}

type edgeMachine struct {
	state  EdgeState
	buffer string
}

// Controller tracks editing state for every node and edge of a store and
// owns the clipboard. It is not safe for concurrent use.
type Controller struct {
	store     *store.Store
	nodes     map[string]*nodeMachine
	edges     map[string]*edgeMachine
	clipboard []flow.Node
}

// NewController creates a controller committing edits to s.
func NewController(s *store.Store) *Controller {
	return &Controller{
		store: s,
		nodes: make(map[string]*nodeMachine),
		edges: make(map[string]*edgeMachine),
	}
}

// NodeEvent feeds ev to the machine of node id and returns the new state.
// Events for unknown nodes are ignored. An unknown event type or an invalid
// picked style is an error and changes nothing.
func (c *Controller) NodeEvent(id string, ev Event) (NodeState, error) {
	n, ok := c.store.Node(id)
	if !ok {
		c.forgetNode(id)
		return NodeIdle, nil
	}
	m := c.nodes[id]
	if m == nil {
		m = &nodeMachine{state: NodeIdle}
		c.nodes[id] = m
	}

	switch ev.Type {
	case EventPointerEnter:
		m.hovered = true
		if m.state == NodeIdle {
			m.state = NodeHovered
		}
	case EventPointerLeave:
		m.hovered = false
		if m.state == NodeHovered {
			m.state = NodeIdle
		}
	case EventDoubleClick:
		if m.state != NodeEditing {
			m.state = NodeEditing
			m.buffer = n.Data.Label
		}
	case EventInput:
		if m.state == NodeEditing {
			m.buffer = ev.Text
		}
	case EventBlur, EventKeyEnter:
		if m.state == NodeEditing {
			m.state = NodeIdle
			c.store.SetNodeLabel(id, m.buffer)
		}
	case EventStylePick:
		if ev.Style == nil {
			return m.state, errors.New(errors.ErrCodeInvalidStyle, "style event without a style")
		}
		if err := ev.Style.Validate(); err != nil {
			return m.state, err
		}
		if m.state == NodeEditing {
			c.store.SetNodeStyle(id, *ev.Style)
		}
	case EventClick:
	default:
		return m.state, errors.New(errors.ErrCodeInvalidInput, "unknown node event %q", ev.Type)
	}
	return m.state, nil
}

// EdgeEvent feeds ev to the machine of edge id and returns the new state.
// Double-click edits only a visible label. Enter and pointer events are
// accepted and ignored.
func (c *Controller) EdgeEvent(id string, ev Event) (EdgeState, error) {
	e, ok := c.store.Edge(id)
	if !ok {
		delete(c.edges, id)
		return EdgeHidden, nil
	}
	m := c.edges[id]
	if m == nil {
		m = &edgeMachine{state: EdgeHidden}
		c.edges[id] = m
	}

	switch ev.Type {
	case EventClick:
		switch m.state {
		case EdgeHidden:
			m.state = EdgeVisible
		case EdgeVisible:
			m.state = EdgeHidden
		}
	case EventDoubleClick:
		// A hidden label has nothing to double-click.
		if m.state == EdgeVisible {
			m.state = EdgeEditing
			m.buffer = e.Data.Label
		}
	case EventInput:
		if m.state == EdgeEditing {
			m.buffer = ev.Text
		}
	case EventBlur:
		if m.state == EdgeEditing {
			m.state = EdgeVisible
			c.store.SetEdgeLabel(id, m.buffer)
		}
	case EventKeyEnter, EventPointerEnter, EventPointerLeave:
	default:
		return m.state, errors.New(errors.ErrCodeInvalidInput, "unknown edge event %q", ev.Type)
	}
	return m.state, nil
}

// NodeState returns the state of node id. Untouched nodes are idle.
func (c *Controller) NodeState(id string) NodeState {
	if m := c.nodes[id]; m != nil {
		return m.state
	}
	return NodeIdle
}

// HandlesVisible reports whether the pointer is over node id, which is when
// its connection handles are drawn.
func (c *Controller) HandlesVisible(id string) bool {
	m := c.nodes[id]
	return m != nil && m.hovered
}

// NodeBuffer returns the uncommitted label of node id while it is being
// edited.
func (c *Controller) NodeBuffer(id string) (string, bool) {
	m := c.nodes[id]
	if m == nil || m.state != NodeEditing {
		return "", false
	}
	return m.buffer, true
}

// EdgeState returns the state of edge id. Untouched edges are hidden.
func (c *Controller) EdgeState(id string) EdgeState {
	if m := c.edges[id]; m != nil {
		return m.state
	}
	return EdgeHidden
}

// LabelVisible reports whether the label of edge id is drawn.
func (c *Controller) LabelVisible(id string) bool {
	return c.EdgeState(id) != EdgeHidden
}

// EdgeBuffer returns the uncommitted label of edge id while it is being
// edited.
func (c *Controller) EdgeBuffer(id string) (string, bool) {
	m := c.edges[id]
	if m == nil || m.state != EdgeEditing {
		return "", false
	}
	return m.buffer, true
}

// Editing reports whether any node or edge is being edited.
func (c *Controller) Editing() bool {
	for _, m := range c.nodes {
		if m.state == NodeEditing {
			return true
		}
	}
	for _, m := range c.edges {
		if m.state == EdgeEditing {
			return true
		}
	}
	return false
}

// Prune drops the machines of nodes and edges that are no longer in the
// store.
func (c *Controller) Prune() {
	for id := range c.nodes {
		if _, ok := c.store.Node(id); !ok {
			delete(c.nodes, id)
		}
	}
	for id := range c.edges {
		if _, ok := c.store.Edge(id); !ok {
			delete(c.edges, id)
		}
	}
}

func (c *Controller) forgetNode(id string) {
	delete(c.nodes, id)
}

// DisplayLabel shortens label to maxLen characters followed by "...".
// An empty label displays as "...".
func DisplayLabel(label string, maxLen int) string {
	if label == "" {
		return "..."
	}
	if utf8.RuneCountInString(label) <= maxLen {
		return label
	}
	return string([]rune(label)[:maxLen]) + "..."
}
