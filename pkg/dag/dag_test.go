package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode_Errors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdge_Errors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(x→a) = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a→x) = %v, want ErrUnknownTargetNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "a"}); err != nil {
		t.Errorf("AddEdge(self-loop) = %v, want nil", err)
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"z", "b", "m", "a", "q"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	for range 5 {
		if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
			t.Fatalf("Nodes() = %v, want %v", got, ids)
		}
	}
}

func TestRemoveEdge_Parallel(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	if n := g.RemoveEdge("a", "b"); n != 2 {
		t.Errorf("RemoveEdge() = %d, want 2", n)
	}
	if g.EdgeCount() != 0 || g.OutDegree("a") != 0 || g.InDegree("b") != 0 {
		t.Error("RemoveEdge left adjacency behind")
	}
}

func TestSetRowsAndOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	g.SetRows(map[string]int{"b": 1, "c": 1})

	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("row 1 = %v, want [b c]", got)
	}

	g.SetRowOrder(1, []string{"c", "b"})
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("row 1 after SetRowOrder = %v, want [c b]", got)
	}
	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("RowIDs() = %v, want [0 1]", got)
	}
}

func TestValidate(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddNode(Node{ID: "c", Row: 3})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	_ = g.AddEdge(Edge{From: "b", To: "c"})
	if err := g.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("Validate() = %v, want ErrNonConsecutiveRows", err)
	}

	h := New()
	_ = h.AddNode(Node{ID: "a", Row: 0})
	_ = h.AddEdge(Edge{From: "a", To: "a"})
	if err := h.Validate(); err == nil {
		t.Error("Validate() on self-loop = nil, want error")
	}

	// A back edge always points up a row, so the row check reports it first.
	c := New()
	_ = c.AddNode(Node{ID: "a", Row: 0})
	_ = c.AddNode(Node{ID: "b", Row: 1})
	_ = c.AddEdge(Edge{From: "a", To: "b"})
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	_ = c.AddEdge(Edge{From: "b", To: "a"})
	if err := c.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("Validate() = %v, want ErrNonConsecutiveRows", err)
	}
}

func TestSources(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Sources() = %v", got)
	}
}

func TestCountPairCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"p", "q", "x", "y"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "p", To: "y"})
	_ = g.AddEdge(Edge{From: "q", To: "x"})

	if got := CountPairCrossings(g, "p", "q", []string{"x", "y"}, false); got != 1 {
		t.Errorf("CountPairCrossings(p,q) = %d, want 1", got)
	}
	if got := CountPairCrossings(g, "q", "p", []string{"x", "y"}, false); got != 0 {
		t.Errorf("CountPairCrossings(q,p) = %d, want 0", got)
	}
}
