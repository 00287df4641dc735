// Package tui is the interactive terminal editor for a lineage graph.
//
// The model is a thin surface over an [editor.Session]: every key press
// becomes a session command, a controller event or a key published on the
// session's key bus, and the view is redrawn from a fresh snapshot after
// each one.
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/layout"
	"github.com/matzehuels/lineageflow/pkg/render/nodelink"
	"github.com/matzehuels/lineageflow/pkg/store"
)

type focus int

const (
	focusNodes focus = iota
	focusEdges
)

type nodeRow struct {
	node    flow.Node
	state   editor.NodeState
	handles bool
	buffer  string
}

type edgeRow struct {
	edge    flow.Edge
	state   editor.EdgeState
	visible bool
	buffer  string
}

// Model is the bubbletea model of the editor.
type Model struct {
	ctx     context.Context
	session *editor.Session
	keys    *editor.KeyBus
	rand    *rand.Rand

	nodes []nodeRow
	edges []edgeRow

	focus      focus
	cursor     int
	edgeCursor int
	// connectFrom is the node picked as source of a pending connection.
	connectFrom string

	status string
	err    error
	width  int
}

// New creates a model for session. Clipboard keys are published on keys,
// which the session must be subscribed to.
func New(ctx context.Context, session *editor.Session, keys *editor.KeyBus) Model {
	seed := uint64(time.Now().UnixNano())
	m := Model{
		ctx:     ctx,
		session: session,
		keys:    keys,
		rand:    rand.New(rand.NewPCG(seed, seed>>1)),
	}
	m.refresh()
	m.hover(-1, m.cursor)
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		if m.editing() {
			m.updateEditing(msg)
			m.refresh()
			return m, nil
		}
		if quit := m.updateNormal(msg); quit {
			return m, tea.Quit
		}
		m.refresh()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) (quit bool) {
	switch msg.String() {
	case "q", "esc":
		return true
	case "tab":
		if m.focus == focusNodes {
			m.focus = focusEdges
		} else {
			m.focus = focusNodes
		}
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "a":
		m.addNode()
	case "enter", "e":
		m.beginEdit()
	case " ":
		m.toggle()
	case "c":
		m.connect()
	case "x", "delete":
		m.remove()
	case "l":
		m.layout(layout.TopBottom)
	case "L":
		m.layout(layout.LeftRight)
	case "ctrl+c":
		m.keys.Publish(editor.KeyEvent{Key: "c", Ctrl: true})
		m.status = "copied selection"
	case "ctrl+v":
		m.keys.Publish(editor.KeyEvent{Key: "v", Ctrl: true})
		m.status = "pasted"
	}
	return false
}

func (m *Model) updateEditing(msg tea.KeyMsg) {
	if m.focus == focusNodes {
		row := m.nodes[m.cursor]
		switch msg.Type {
		case tea.KeyEnter:
			m.nodeEvent(row.node.ID, editor.Event{Type: editor.EventKeyEnter})
		case tea.KeyEsc:
			m.nodeEvent(row.node.ID, editor.Event{Type: editor.EventBlur})
		case tea.KeyTab:
			next := nextColor(row.node.Data.Style.Color)
			m.nodeEvent(row.node.ID, editor.Event{Type: editor.EventStylePick, Style: &next})
		case tea.KeyShiftTab:
			next := nextShape(row.node.Data.Style.Shape)
			m.nodeEvent(row.node.ID, editor.Event{Type: editor.EventStylePick, Style: &next})
		default:
			if text, ok := edit(row.buffer, msg); ok {
				m.nodeEvent(row.node.ID, editor.Event{Type: editor.EventInput, Text: text})
			}
		}
		return
	}

	row := m.edges[m.edgeCursor]
	switch msg.Type {
	case tea.KeyEsc:
		m.edgeEvent(row.edge.ID, editor.Event{Type: editor.EventBlur})
	case tea.KeyEnter:
		// Edge labels are multi-line; Enter does not commit.
		m.edgeEvent(row.edge.ID, editor.Event{Type: editor.EventInput, Text: row.buffer + "\n"})
	default:
		if text, ok := edit(row.buffer, msg); ok {
			m.edgeEvent(row.edge.ID, editor.Event{Type: editor.EventInput, Text: text})
		}
	}
}

// edit applies a typing key to buf.
func edit(buf string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return buf + string(msg.Runes), true
	case tea.KeySpace:
		return buf + " ", true
	case tea.KeyBackspace:
		if buf == "" {
			return buf, false
		}
		r := []rune(buf)
		return string(r[:len(r)-1]), true
	}
	return buf, false
}

func (m *Model) editing() bool {
	if m.focus == focusNodes {
		return m.cursor < len(m.nodes) && m.nodes[m.cursor].state == editor.NodeEditing
	}
	return m.edgeCursor < len(m.edges) && m.edges[m.edgeCursor].state == editor.EdgeEditing
}

func (m *Model) move(delta int) {
	if m.focus == focusEdges {
		m.edgeCursor = clamp(m.edgeCursor+delta, len(m.edges))
		return
	}
	prev := m.cursor
	m.cursor = clamp(m.cursor+delta, len(m.nodes))
	m.hover(prev, m.cursor)
}

// hover moves the pointer from node index prev to next, so the handles of
// the node under the cursor are shown.
func (m *Model) hover(prev, next int) {
	if prev == next && prev >= 0 {
		return
	}
	if prev >= 0 && prev < len(m.nodes) {
		m.nodeEvent(m.nodes[prev].node.ID, editor.Event{Type: editor.EventPointerLeave})
	}
	if next >= 0 && next < len(m.nodes) {
		m.nodeEvent(m.nodes[next].node.ID, editor.Event{Type: editor.EventPointerEnter})
	}
}

func (m *Model) addNode() {
	var n flow.Node
	m.do("add-node", func(e *editor.Editor) error {
		n = e.Store.AddNode(store.RandomPosition(m.rand))
		return nil
	})
	if m.err == nil {
		m.status = fmt.Sprintf("added %s", n.Data.Label)
	}
}

func (m *Model) beginEdit() {
	if m.focus == focusNodes && m.cursor < len(m.nodes) {
		m.nodeEvent(m.nodes[m.cursor].node.ID, editor.Event{Type: editor.EventDoubleClick})
	}
	if m.focus == focusEdges && m.edgeCursor < len(m.edges) {
		row := m.edges[m.edgeCursor]
		// Only a shown label can be edited, so reveal it first.
		if row.state == editor.EdgeHidden {
			m.edgeEvent(row.edge.ID, editor.Event{Type: editor.EventClick})
		}
		m.edgeEvent(row.edge.ID, editor.Event{Type: editor.EventDoubleClick})
	}
}

func (m *Model) toggle() {
	if m.focus == focusEdges {
		if m.edgeCursor < len(m.edges) {
			m.edgeEvent(m.edges[m.edgeCursor].edge.ID, editor.Event{Type: editor.EventClick})
		}
		return
	}
	if m.cursor >= len(m.nodes) {
		return
	}
	n := m.nodes[m.cursor].node
	m.do("select", func(e *editor.Editor) error {
		e.Store.ApplyNodeChanges([]store.NodeChange{{Kind: store.ChangeSelect, ID: n.ID, Selected: !n.Selected}})
		return nil
	})
}

func (m *Model) connect() {
	if m.focus != focusNodes || m.cursor >= len(m.nodes) {
		return
	}
	id := m.nodes[m.cursor].node.ID
	if m.connectFrom == "" {
		m.connectFrom = id
		m.status = fmt.Sprintf("connect %s %s ... (pick target, c)", id, iconArrow)
		return
	}
	from := m.connectFrom
	m.connectFrom = ""
	m.do("connect", func(e *editor.Editor) error {
		e.Store.Connect(store.Connection{Source: from, Target: id})
		return nil
	})
	if m.err == nil {
		m.status = fmt.Sprintf("connected %s %s %s", from, iconArrow, id)
	}
}

func (m *Model) remove() {
	if m.focus == focusEdges {
		if m.edgeCursor < len(m.edges) {
			id := m.edges[m.edgeCursor].edge.ID
			m.do("remove-edge", func(e *editor.Editor) error {
				e.Store.ApplyEdgeChanges([]store.EdgeChange{{Kind: store.ChangeRemove, ID: id}})
				e.Controller.Prune()
				return nil
			})
		}
		return
	}
	if m.cursor < len(m.nodes) {
		id := m.nodes[m.cursor].node.ID
		m.do("remove-node", func(e *editor.Editor) error {
			e.Store.ApplyNodeChanges([]store.NodeChange{{Kind: store.ChangeRemove, ID: id}})
			e.Controller.Prune()
			return nil
		})
	}
}

func (m *Model) layout(dir layout.Direction) {
	if err := m.session.Layout(m.ctx, dir); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("laid out %s", dir)
}

func (m *Model) nodeEvent(id string, ev editor.Event) {
	m.do("node-event", func(e *editor.Editor) error {
		_, err := e.Controller.NodeEvent(id, ev)
		return err
	})
}

func (m *Model) edgeEvent(id string, ev editor.Event) {
	m.do("edge-event", func(e *editor.Editor) error {
		_, err := e.Controller.EdgeEvent(id, ev)
		return err
	})
}

func (m *Model) do(name string, fn func(*editor.Editor) error) {
	if err := m.session.Do(m.ctx, name, fn); err != nil {
		m.err = err
	}
}

// refresh reloads rows and editing state from the session.
func (m *Model) refresh() {
	var (
		nodes []nodeRow
		edges []edgeRow
	)
	err := m.session.Do(m.ctx, "snapshot", func(e *editor.Editor) error {
		g := e.Store.Snapshot()
		c := e.Controller
		nodes = make([]nodeRow, len(g.Nodes))
		for i, n := range g.Nodes {
			buf, _ := c.NodeBuffer(n.ID)
			nodes[i] = nodeRow{node: n, state: c.NodeState(n.ID), handles: c.HandlesVisible(n.ID), buffer: buf}
		}
		edges = make([]edgeRow, len(g.Edges))
		for i, ed := range g.Edges {
			buf, _ := c.EdgeBuffer(ed.ID)
			edges[i] = edgeRow{edge: ed, state: c.EdgeState(ed.ID), visible: c.LabelVisible(ed.ID), buffer: buf}
		}
		return nil
	})
	if err != nil {
		m.err = err
		return
	}
	m.nodes, m.edges = nodes, edges
	m.cursor = clamp(m.cursor, len(m.nodes))
	m.edgeCursor = clamp(m.edgeCursor, len(m.edges))
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lineageflow"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d nodes · %d edges", len(m.nodes), len(m.edges))))
	b.WriteString("\n\n")

	nodes := m.viewNodes()
	edges := m.viewEdges()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, paneStyle.Render(nodes), " ", paneStyle.Render(edges)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewNodes() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Nodes"))
	b.WriteString("\n")
	if len(m.nodes) == 0 {
		b.WriteString(dimStyle.Render("empty, press a to add a node"))
		return b.String()
	}
	for i, row := range m.nodes {
		active := m.focus == focusNodes && i == m.cursor
		cursor := "  "
		if active {
			cursor = cursorStyle.Render(iconCursor) + " "
		}
		mark := " "
		if row.node.Selected {
			mark = selectedStyle.Render(iconSelected)
		}
		handles := " "
		if row.handles {
			handles = dimStyle.Render(iconHandles)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(nodelink.ExpandHex(row.node.Data.Style.Color))).Render("■")

		label := row.node.Data.Label
		style := normalStyle
		if row.state == editor.NodeEditing {
			label = row.buffer + iconCaret
			style = editStyle
		} else if label == "" {
			label = "..."
		}
		pos := dimStyle.Render(fmt.Sprintf("(%.0f, %.0f) %s", row.node.Position.X, row.node.Position.Y, row.node.Data.Style.Shape))
		fmt.Fprintf(&b, "%s%s%s %s %s %s %s\n", cursor, mark, handles, swatch, dimStyle.Render(row.node.ID), style.Render(label), pos)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewEdges() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Edges"))
	b.WriteString("\n")
	if len(m.edges) == 0 {
		b.WriteString(dimStyle.Render("none, press c on two nodes"))
		return b.String()
	}
	for i, row := range m.edges {
		cursor := "  "
		if m.focus == focusEdges && i == m.edgeCursor {
			cursor = cursorStyle.Render(iconCursor) + " "
		}
		ends := fmt.Sprintf("%s %s %s", row.edge.Source, iconArrow, row.edge.Target)
		label := ""
		switch row.state {
		case editor.EdgeEditing:
			label = editStyle.Render(strings.ReplaceAll(row.buffer, "\n", "⏎") + iconCaret)
		case editor.EdgeVisible:
			label = normalStyle.Render(editor.DisplayLabel(row.edge.Data.Label, editor.EdgeLabelMax))
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, ends, label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) help() string {
	if m.editing() {
		if m.focus == focusNodes {
			return "type to edit · ⏎ or esc commit · tab color · shift+tab shape"
		}
		return "type to edit · ⏎ newline · esc commit"
	}
	return "↑/↓ move · tab nodes/edges · a add · ⏎ edit · space select/show · c connect · x remove · l/L layout · ctrl+c/ctrl+v copy/paste · q quit"
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func nextColor(current string) flow.StylePatch {
	i := slices.Index(flow.Palette, current)
	return flow.ColorPatch(flow.Palette[(i+1)%len(flow.Palette)])
}

func nextShape(current flow.Shape) flow.StylePatch {
	i := slices.Index(flow.Shapes, current)
	return flow.ShapePatch(flow.Shapes[(i+1)%len(flow.Shapes)])
}
