package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/layout"
	"github.com/matzehuels/lineageflow/pkg/persist"
	"github.com/matzehuels/lineageflow/pkg/render/nodelink"
	"github.com/matzehuels/lineageflow/pkg/store"
)

// NodeView is a node together with its editing state.
type NodeView struct {
	flow.Node
	State          editor.NodeState `json:"state"`
	HandlesVisible bool             `json:"handlesVisible"`
	Buffer         *string          `json:"buffer,omitempty"`
}

// EdgeView is an edge together with its label state.
type EdgeView struct {
	flow.Edge
	State        editor.EdgeState `json:"state"`
	LabelVisible bool             `json:"labelVisible"`
	DisplayLabel string           `json:"displayLabel"`
	Buffer       *string          `json:"buffer,omitempty"`
}

// GraphView is the enriched snapshot served to the canvas.
type GraphView struct {
	Nodes    []NodeView `json:"nodes"`
	Edges    []EdgeView `json:"edges"`
	Dangling []string   `json:"dangling,omitempty"`
}

func enrich(e *editor.Editor) GraphView {
	g := e.Store.Snapshot()
	c := e.Controller
	view := GraphView{
		Nodes: make([]NodeView, len(g.Nodes)),
		Edges: make([]EdgeView, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		view.Nodes[i] = NodeView{Node: n, State: c.NodeState(n.ID), HandlesVisible: c.HandlesVisible(n.ID)}
		if buf, ok := c.NodeBuffer(n.ID); ok {
			view.Nodes[i].Buffer = &buf
		}
	}
	for i, ed := range g.Edges {
		view.Edges[i] = EdgeView{
			Edge:         ed,
			State:        c.EdgeState(ed.ID),
			LabelVisible: c.LabelVisible(ed.ID),
			DisplayLabel: editor.DisplayLabel(ed.Data.Label, editor.EdgeLabelMax),
		}
		if buf, ok := c.EdgeBuffer(ed.ID); ok {
			view.Edges[i].Buffer = &buf
		}
	}
	for _, ed := range g.DanglingEdges() {
		view.Dangling = append(view.Dangling, ed.ID)
	}
	return view
}

// view runs fn and responds with the enriched snapshot taken in the same
// command.
func (s *Server) view(w http.ResponseWriter, r *http.Request, name string, status int, fn func(*editor.Editor) error) {
	var v GraphView
	err := s.session.Do(r.Context(), name, func(e *editor.Editor) error {
		if fn != nil {
			if err := fn(e); err != nil {
				return err
			}
		}
		v = enrich(e)
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, status, v)
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, "snapshot", http.StatusOK, nil)
}

type addNodeRequest struct {
	Position *flow.Position `json:"position,omitempty"`
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	var n flow.Node
	err := s.session.Do(r.Context(), "add-node", func(e *editor.Editor) error {
		pos := store.RandomPosition(s.rand)
		if req.Position != nil {
			pos = *req.Position
		}
		n = e.Store.AddNode(pos)
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

type labelRequest struct {
	Label string `json:"label"`
}

func (s *Server) setNodeLabel(w http.ResponseWriter, r *http.Request) {
	s.setLabel(w, r, "set-node-label", func(e *editor.Editor, id, label string) {
		e.Store.SetNodeLabel(id, label)
	})
}

func (s *Server) setEdgeLabel(w http.ResponseWriter, r *http.Request) {
	s.setLabel(w, r, "set-edge-label", func(e *editor.Editor, id, label string) {
		e.Store.SetEdgeLabel(id, label)
	})
}

// setLabel applies a label change. Unknown ids are ignored like any other
// stale canvas callback.
func (s *Server) setLabel(w http.ResponseWriter, r *http.Request, name string, apply func(*editor.Editor, string, string)) {
	id := chi.URLParam(r, "id")
	var req labelRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := errors.ValidateLabel(req.Label); err != nil {
		respondError(w, err)
		return
	}
	err := s.session.Do(r.Context(), name, func(e *editor.Editor) error {
		apply(e, id, req.Label)
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setNodeStyle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch flow.StylePatch
	if err := decode(w, r, &patch); err != nil {
		respondError(w, err)
		return
	}
	if err := patch.Validate(); err != nil {
		respondError(w, err)
		return
	}
	err := s.session.Do(r.Context(), "set-node-style", func(e *editor.Editor) error {
		e.Store.SetNodeStyle(id, patch)
		return nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type nodeEventResponse struct {
	State          editor.NodeState `json:"state"`
	HandlesVisible bool             `json:"handlesVisible"`
}

func (s *Server) nodeEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var ev editor.Event
	if err := decode(w, r, &ev); err != nil {
		respondError(w, err)
		return
	}
	var resp nodeEventResponse
	err := s.session.Do(r.Context(), "node-event", func(e *editor.Editor) error {
		state, err := e.Controller.NodeEvent(id, ev)
		resp = nodeEventResponse{State: state, HandlesVisible: e.Controller.HandlesVisible(id)}
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

type edgeEventResponse struct {
	State        editor.EdgeState `json:"state"`
	LabelVisible bool             `json:"labelVisible"`
}

func (s *Server) edgeEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var ev editor.Event
	if err := decode(w, r, &ev); err != nil {
		respondError(w, err)
		return
	}
	var resp edgeEventResponse
	err := s.session.Do(r.Context(), "edge-event", func(e *editor.Editor) error {
		state, err := e.Controller.EdgeEvent(id, ev)
		resp = edgeEventResponse{State: state, LabelVisible: e.Controller.LabelVisible(id)}
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// connect answers 201 with the new edge, or 204 when the connection names
// no usable handles or an unknown node and nothing was added.
func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var c store.Connection
	if err := decode(w, r, &c); err != nil {
		respondError(w, err)
		return
	}
	var (
		edge flow.Edge
		ok   bool
	)
	err := s.session.Do(r.Context(), "connect", func(e *editor.Editor) error {
		edge, ok = e.Store.Connect(c)
		return nil
	})
	switch {
	case err != nil:
		respondError(w, err)
	case !ok:
		w.WriteHeader(http.StatusNoContent)
	default:
		respondJSON(w, http.StatusCreated, edge)
	}
}

func (s *Server) nodeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []store.NodeChange
	if err := decode(w, r, &changes); err != nil {
		respondError(w, err)
		return
	}
	s.view(w, r, "node-changes", http.StatusOK, func(e *editor.Editor) error {
		e.Store.ApplyNodeChanges(changes)
		e.Controller.Prune()
		return nil
	})
}

func (s *Server) edgeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []store.EdgeChange
	if err := decode(w, r, &changes); err != nil {
		respondError(w, err)
		return
	}
	s.view(w, r, "edge-changes", http.StatusOK, func(e *editor.Editor) error {
		e.Store.ApplyEdgeChanges(changes)
		e.Controller.Prune()
		return nil
	})
}

func (s *Server) key(w http.ResponseWriter, r *http.Request) {
	var ev editor.KeyEvent
	if err := decode(w, r, &ev); err != nil {
		respondError(w, err)
		return
	}
	s.keys.Publish(ev)
	s.view(w, r, "snapshot", http.StatusOK, nil)
}

func (s *Server) direction(r *http.Request) (layout.Direction, error) {
	raw := r.URL.Query().Get("direction")
	if raw == "" {
		return s.opts.Direction, nil
	}
	return layout.ParseDirection(raw)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	dir, err := s.direction(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.session.Layout(r.Context(), dir); err != nil {
		respondError(w, err)
		return
	}
	s.view(w, r, "snapshot", http.StatusOK, nil)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.session.Export(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}
	attachment(w, "application/json", persist.ExportFilename)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) exportYAML(w http.ResponseWriter, r *http.Request) {
	g, err := s.session.Snapshot(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := persist.ExportYAML(&buf, g); err != nil {
		respondError(w, err)
		return
	}
	attachment(w, "application/yaml", strings.TrimSuffix(persist.ExportFilename, ".json")+".yaml")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) importGraph(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.Import(r.Context(), r.Body); err != nil {
		respondError(w, err)
		return
	}
	s.view(w, r, "snapshot", http.StatusOK, nil)
}

func (s *Server) dot(r *http.Request) (string, error) {
	dir, err := s.direction(r)
	if err != nil {
		return "", err
	}
	labels, _ := strconv.ParseBool(r.URL.Query().Get("labels"))
	g, err := s.session.Snapshot(r.Context())
	if err != nil {
		return "", err
	}
	return nodelink.ToDOT(g, nodelink.Options{Direction: dir, EdgeLabels: labels}), nil
}

func (s *Server) renderDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.dot(r)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	dot, err := s.dot(r)
	if err != nil {
		respondError(w, err)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
