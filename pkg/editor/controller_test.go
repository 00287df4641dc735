package editor

import (
	"testing"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/store"
)

func newTestController(t *testing.T) (*Controller, *store.Store, flow.Node, flow.Edge) {
	t.Helper()
	s := store.New(nil)
	a := s.AddNode(flow.Position{X: 10, Y: 10})
	b := s.AddNode(flow.Position{X: 100, Y: 100})
	e, ok := s.Connect(store.Connection{Source: a.ID, Target: b.ID})
	if !ok {
		t.Fatal("connect failed")
	}
	return NewController(s), s, a, e
}

func label(s *store.Store, id string) string {
	n, _ := s.Node(id)
	return n.Data.Label
}

func TestNodeMachine_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		events []EventType
		want   NodeState
	}{
		{"enter", []EventType{EventPointerEnter}, NodeHovered},
		{"enter leave", []EventType{EventPointerEnter, EventPointerLeave}, NodeIdle},
		{"dblclick from idle", []EventType{EventDoubleClick}, NodeEditing},
		{"dblclick from hovered", []EventType{EventPointerEnter, EventDoubleClick}, NodeEditing},
		{"leave while editing", []EventType{EventDoubleClick, EventPointerLeave}, NodeEditing},
		{"blur", []EventType{EventDoubleClick, EventBlur}, NodeIdle},
		{"enter key", []EventType{EventDoubleClick, EventKeyEnter}, NodeIdle},
		{"blur while idle", []EventType{EventBlur}, NodeIdle},
		{"click", []EventType{EventPointerEnter, EventClick}, NodeHovered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, a, _ := newTestController(t)
			var got NodeState
			for _, ev := range tt.events {
				var err error
				if got, err = c.NodeEvent(a.ID, Event{Type: ev}); err != nil {
					t.Fatalf("NodeEvent(%s): %v", ev, err)
				}
			}
			if got != tt.want || c.NodeState(a.ID) != tt.want {
				t.Errorf("state = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNodeMachine_CommitOnBlurAndEnter(t *testing.T) {
	for _, commit := range []EventType{EventBlur, EventKeyEnter} {
		t.Run(string(commit), func(t *testing.T) {
			c, s, a, _ := newTestController(t)
			c.NodeEvent(a.ID, Event{Type: EventDoubleClick})
			if buf, ok := c.NodeBuffer(a.ID); !ok || buf != "Node 1" {
				t.Fatalf("buffer = %q, %v; want current label", buf, ok)
			}
			c.NodeEvent(a.ID, Event{Type: EventInput, Text: "orders"})
			if label(s, a.ID) != "Node 1" {
				t.Fatal("input committed before blur")
			}
			c.NodeEvent(a.ID, Event{Type: commit})
			if got := label(s, a.ID); got != "orders" {
				t.Errorf("label = %q, want orders", got)
			}
		})
	}
}

func TestNodeMachine_HoverIsVisualOnly(t *testing.T) {
	c, _, a, _ := newTestController(t)
	if c.HandlesVisible(a.ID) {
		t.Fatal("handles visible before hover")
	}
	c.NodeEvent(a.ID, Event{Type: EventPointerEnter})
	c.NodeEvent(a.ID, Event{Type: EventDoubleClick})
	c.NodeEvent(a.ID, Event{Type: EventBlur})
	if !c.HandlesVisible(a.ID) {
		t.Error("edit cleared hover")
	}
	c.NodeEvent(a.ID, Event{Type: EventPointerLeave})
	if c.HandlesVisible(a.ID) {
		t.Error("handles visible after leave")
	}
}

func TestNodeMachine_StylePick(t *testing.T) {
	c, s, a, _ := newTestController(t)
	red := flow.ColorPatch("#ff0000")

	c.NodeEvent(a.ID, Event{Type: EventStylePick, Style: &red})
	if n, _ := s.Node(a.ID); n.Data.Style.Color != flow.DefaultColor {
		t.Error("style applied outside editing")
	}

	c.NodeEvent(a.ID, Event{Type: EventDoubleClick})
	if _, err := c.NodeEvent(a.ID, Event{Type: EventStylePick, Style: &red}); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Node(a.ID)
	if n.Data.Style.Color != "#ff0000" || n.Data.Style.Shape != flow.ShapeRectangle {
		t.Errorf("style = %+v", n.Data.Style)
	}
	if c.NodeState(a.ID) != NodeEditing {
		t.Error("style pick ended editing")
	}

	bad := flow.ColorPatch("#123456")
	if _, err := c.NodeEvent(a.ID, Event{Type: EventStylePick, Style: &bad}); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("invalid color error = %v", err)
	}
}

func TestNodeMachine_UnknownIDAndEvent(t *testing.T) {
	c, s, a, _ := newTestController(t)
	before := s.Snapshot()

	state, err := c.NodeEvent("does-not-exist", Event{Type: EventDoubleClick})
	if err != nil || state != NodeIdle {
		t.Errorf("unknown id = %s, %v", state, err)
	}
	c.NodeEvent("does-not-exist", Event{Type: EventBlur})
	if got := s.Snapshot(); len(got.Nodes) != len(before.Nodes) {
		t.Error("event on unknown id changed the graph")
	}

	if _, err := c.NodeEvent(a.ID, Event{Type: "wiggle"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown event error = %v", err)
	}
}

func TestEdgeMachine_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		events []EventType
		want   EdgeState
	}{
		{"click", []EventType{EventClick}, EdgeVisible},
		{"click twice", []EventType{EventClick, EventClick}, EdgeHidden},
		{"dblclick from hidden", []EventType{EventDoubleClick}, EdgeHidden},
		{"dblclick from visible", []EventType{EventClick, EventDoubleClick}, EdgeEditing},
		{"click while editing", []EventType{EventClick, EventDoubleClick, EventClick}, EdgeEditing},
		{"blur", []EventType{EventClick, EventDoubleClick, EventBlur}, EdgeVisible},
		{"enter key", []EventType{EventClick, EventDoubleClick, EventKeyEnter}, EdgeEditing},
		{"hover", []EventType{EventPointerEnter}, EdgeHidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _, e := newTestController(t)
			var got EdgeState
			for _, ev := range tt.events {
				var err error
				if got, err = c.EdgeEvent(e.ID, Event{Type: ev}); err != nil {
					t.Fatalf("EdgeEvent(%s): %v", ev, err)
				}
			}
			if got != tt.want {
				t.Errorf("state = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEdgeMachine_BlurOnlyCommit(t *testing.T) {
	c, s, _, e := newTestController(t)
	c.EdgeEvent(e.ID, Event{Type: EventClick})
	c.EdgeEvent(e.ID, Event{Type: EventDoubleClick})
	if buf, _ := c.EdgeBuffer(e.ID); buf != flow.DefaultEdgeLabel {
		t.Fatalf("buffer = %q", buf)
	}
	c.EdgeEvent(e.ID, Event{Type: EventInput, Text: "aggregates"})
	c.EdgeEvent(e.ID, Event{Type: EventKeyEnter})
	if got, _ := s.Edge(e.ID); got.Data.Label != flow.DefaultEdgeLabel {
		t.Fatalf("Enter committed edge label %q", got.Data.Label)
	}

	c.EdgeEvent(e.ID, Event{Type: EventBlur})
	if got, _ := s.Edge(e.ID); got.Data.Label != "aggregates" {
		t.Errorf("label = %q, want aggregates", got.Data.Label)
	}
	if !c.LabelVisible(e.ID) {
		t.Error("label hidden after edit")
	}
}

func TestEdgeMachine_UnknownEvent(t *testing.T) {
	c, _, _, e := newTestController(t)
	if _, err := c.EdgeEvent(e.ID, Event{Type: EventStylePick}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("style on edge error = %v", err)
	}
	if state, err := c.EdgeEvent("missing", Event{Type: EventClick}); err != nil || state != EdgeHidden {
		t.Errorf("unknown edge = %s, %v", state, err)
	}
}

func TestController_Editing(t *testing.T) {
	c, _, a, e := newTestController(t)
	if c.Editing() {
		t.Fatal("editing at start")
	}
	c.EdgeEvent(e.ID, Event{Type: EventClick})
	c.EdgeEvent(e.ID, Event{Type: EventDoubleClick})
	if !c.Editing() {
		t.Error("edge edit not reported")
	}
	c.EdgeEvent(e.ID, Event{Type: EventBlur})
	c.NodeEvent(a.ID, Event{Type: EventDoubleClick})
	if !c.Editing() {
		t.Error("node edit not reported")
	}
}

func TestController_Prune(t *testing.T) {
	c, s, a, e := newTestController(t)
	c.NodeEvent(a.ID, Event{Type: EventPointerEnter})
	c.EdgeEvent(e.ID, Event{Type: EventClick})

	s.ApplyNodeChanges([]store.NodeChange{{Kind: store.ChangeRemove, ID: a.ID}})
	s.ApplyEdgeChanges([]store.EdgeChange{{Kind: store.ChangeRemove, ID: e.ID}})
	c.Prune()

	if c.HandlesVisible(a.ID) || c.LabelVisible(e.ID) {
		t.Error("state kept for removed items")
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "..."},
		{"short", "short"},
		{"exactly10!", "exactly10!"},
		{"New Relation", "New Relati..."},
		{"äöüäöüäöüäöü", "äöüäöüäöüä..."},
	}
	for _, tt := range tests {
		if got := DisplayLabel(tt.in, EdgeLabelMax); got != tt.want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
