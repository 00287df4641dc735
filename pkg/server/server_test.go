package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/persist"
	"github.com/matzehuels/lineageflow/pkg/storage"
)

type testServer struct {
	*httptest.Server
	session *editor.Session
	storage *storage.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := storage.NewMemory()
	keys := editor.NewKeyBus()
	session, err := editor.Open(context.Background(), editor.Options{Storage: mem, Keys: keys})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	ts := httptest.NewServer(New(session, keys, nil, Options{}).Handler())
	t.Cleanup(func() {
		ts.Close()
		session.Close()
	})
	return &testServer{Server: ts, session: session, storage: mem}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func (ts *testServer) addNode(t *testing.T, x, y float64) flow.Node {
	t.Helper()
	body, _ := json.Marshal(addNodeRequest{Position: &flow.Position{X: x, Y: y}})
	resp := ts.do(t, "POST", "/api/nodes", string(body))
	expectStatus(t, resp, http.StatusCreated)
	return decodeBody[flow.Node](t, resp)
}

func (ts *testServer) connect(t *testing.T, source, target string) flow.Edge {
	t.Helper()
	resp := ts.do(t, "POST", "/api/edges", `{"source":"`+source+`","target":"`+target+`"}`)
	expectStatus(t, resp, http.StatusCreated)
	return decodeBody[flow.Edge](t, resp)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, "GET", "/healthz", "")
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[map[string]string](t, resp); got["status"] != "ok" {
		t.Errorf("health = %v", got)
	}
}

func TestNodesAndEdges(t *testing.T) {
	ts := newTestServer(t)
	a := ts.addNode(t, 10, 20)
	if a.ID != "1" || a.Data.Label != "Node 1" || a.Position != (flow.Position{X: 10, Y: 20}) {
		t.Errorf("node = %+v", a)
	}

	resp := ts.do(t, "POST", "/api/nodes", "")
	expectStatus(t, resp, http.StatusCreated)
	b := decodeBody[flow.Node](t, resp)
	if b.ID != "2" || b.Position.X < 0 || b.Position.X > 400 {
		t.Errorf("random node = %+v", b)
	}

	e := ts.connect(t, a.ID, b.ID)
	if e.Data.Label != flow.DefaultEdgeLabel || e.Style.Stroke != flow.DefaultStroke {
		t.Errorf("edge = %+v", e)
	}
	ts.connect(t, a.ID, b.ID)

	resp = ts.do(t, "POST", "/api/edges", `{"source":"","target":"2"}`)
	expectStatus(t, resp, http.StatusNoContent)
	resp = ts.do(t, "POST", "/api/edges", `{"source":"1","target":"9"}`)
	expectStatus(t, resp, http.StatusNoContent)

	resp = ts.do(t, "GET", "/api/graph", "")
	expectStatus(t, resp, http.StatusOK)
	g := decodeBody[GraphView](t, resp)
	if len(g.Nodes) != 2 || len(g.Edges) != 2 {
		t.Fatalf("graph has %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	if g.Edges[0].DisplayLabel != "New Relati..." || g.Edges[0].State != editor.EdgeHidden {
		t.Errorf("edge view = %+v", g.Edges[0])
	}
}

func TestLabelsAndStyle(t *testing.T) {
	ts := newTestServer(t)
	a := ts.addNode(t, 0, 0)
	b := ts.addNode(t, 0, 0)
	e := ts.connect(t, a.ID, b.ID)

	expectStatus(t, ts.do(t, "PUT", "/api/nodes/1/label", `{"label":"raw_orders"}`), http.StatusNoContent)
	expectStatus(t, ts.do(t, "PUT", "/api/edges/"+e.ID+"/label", `{"label":"cleans"}`), http.StatusNoContent)
	expectStatus(t, ts.do(t, "PATCH", "/api/nodes/1/style", `{"shape":"diamond"}`), http.StatusNoContent)
	expectStatus(t, ts.do(t, "PUT", "/api/nodes/does-not-exist/label", `{"label":"X"}`), http.StatusNoContent)

	resp := ts.do(t, "PATCH", "/api/nodes/1/style", `{"color":"#abcdef"}`)
	expectStatus(t, resp, http.StatusBadRequest)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeInvalidStyle {
		t.Errorf("code = %s", got.Code)
	}

	g, _ := ts.session.Snapshot(context.Background())
	if g.Nodes[0].Data.Label != "raw_orders" || g.Nodes[0].Data.Style.Shape != flow.ShapeDiamond {
		t.Errorf("node = %+v", g.Nodes[0])
	}
	if g.Nodes[0].Data.Style.Color != flow.DefaultColor {
		t.Error("rejected style was applied")
	}
	if g.Edges[0].Data.Label != "cleans" || len(g.Nodes) != 2 {
		t.Errorf("graph = %+v", g)
	}
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t)
	a := ts.addNode(t, 0, 0)
	b := ts.addNode(t, 0, 0)
	e := ts.connect(t, a.ID, b.ID)

	resp := ts.do(t, "POST", "/api/nodes/1/events", `{"type":"pointerenter"}`)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[nodeEventResponse](t, resp); got.State != editor.NodeHovered || !got.HandlesVisible {
		t.Errorf("after enter = %+v", got)
	}
	ts.do(t, "POST", "/api/nodes/1/events", `{"type":"dblclick"}`)
	ts.do(t, "POST", "/api/nodes/1/events", `{"type":"input","text":"orders"}`)
	resp = ts.do(t, "POST", "/api/nodes/1/events", `{"type":"enter"}`)
	if got := decodeBody[nodeEventResponse](t, resp); got.State != editor.NodeIdle {
		t.Errorf("after enter key = %+v", got)
	}

	path := "/api/edges/" + e.ID + "/events"
	resp = ts.do(t, "POST", path, `{"type":"dblclick"}`)
	if got := decodeBody[edgeEventResponse](t, resp); got.State != editor.EdgeHidden {
		t.Errorf("dblclick on hidden edge = %+v", got)
	}
	ts.do(t, "POST", path, `{"type":"click"}`)
	ts.do(t, "POST", path, `{"type":"dblclick"}`)
	ts.do(t, "POST", path, `{"type":"input","text":"joins"}`)
	resp = ts.do(t, "POST", path, `{"type":"enter"}`)
	if got := decodeBody[edgeEventResponse](t, resp); got.State != editor.EdgeEditing {
		t.Errorf("edge after enter = %+v", got)
	}
	resp = ts.do(t, "POST", path, `{"type":"blur"}`)
	if got := decodeBody[edgeEventResponse](t, resp); got.State != editor.EdgeVisible || !got.LabelVisible {
		t.Errorf("edge after blur = %+v", got)
	}

	resp = ts.do(t, "POST", "/api/nodes/1/events", `{"type":"wiggle"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	g, _ := ts.session.Snapshot(context.Background())
	if g.Nodes[0].Data.Label != "orders" || g.Edges[0].Data.Label != "joins" {
		t.Errorf("labels = %q, %q", g.Nodes[0].Data.Label, g.Edges[0].Data.Label)
	}
}

func TestChangesAndClipboard(t *testing.T) {
	ts := newTestServer(t)
	a := ts.addNode(t, 10, 10)
	b := ts.addNode(t, 50, 50)
	ts.connect(t, a.ID, b.ID)

	resp := ts.do(t, "POST", "/api/changes/nodes",
		`[{"type":"position","id":"1","position":{"x":100,"y":100}},{"type":"select","id":"1","selected":true}]`)
	expectStatus(t, resp, http.StatusOK)

	ts.do(t, "POST", "/api/keys", `{"key":"c","ctrl":true}`)
	resp = ts.do(t, "POST", "/api/keys", `{"key":"v","meta":true}`)
	expectStatus(t, resp, http.StatusOK)
	g := decodeBody[GraphView](t, resp)
	if len(g.Nodes) != 3 {
		t.Fatalf("nodes after paste = %d", len(g.Nodes))
	}
	if p := g.Nodes[2]; p.Data.Label != "Node 1 (Copy)" || p.Position != (flow.Position{X: 120, Y: 120}) || p.Selected {
		t.Errorf("pasted = %+v", p)
	}

	// Removing a node leaves its edges in place.
	resp = ts.do(t, "POST", "/api/changes/nodes", `[{"type":"remove","id":"2"}]`)
	g = decodeBody[GraphView](t, resp)
	if len(g.Edges) != 1 || len(g.Dangling) != 1 {
		t.Errorf("edges = %d, dangling = %v", len(g.Edges), g.Dangling)
	}

	resp = ts.do(t, "POST", "/api/changes/edges", `[{"type":"remove","id":"`+g.Edges[0].ID+`"}]`)
	if g = decodeBody[GraphView](t, resp); len(g.Edges) != 0 {
		t.Errorf("edges after removal = %d", len(g.Edges))
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	a := ts.addNode(t, 300, 300)
	b := ts.addNode(t, 0, 0)
	ts.connect(t, a.ID, b.ID)

	resp := ts.do(t, "POST", "/api/layout?direction=lr", "")
	expectStatus(t, resp, http.StatusOK)
	g := decodeBody[GraphView](t, resp)
	if g.Nodes[0].Position.X != 0 || g.Nodes[1].Position.X != 222 {
		t.Errorf("LR positions = %+v, %+v", g.Nodes[0].Position, g.Nodes[1].Position)
	}
	if g.Nodes[0].SourcePosition != flow.SideRight {
		t.Errorf("source side = %q", g.Nodes[0].SourcePosition)
	}

	resp = ts.do(t, "POST", "/api/layout?direction=up", "")
	expectStatus(t, resp, http.StatusBadRequest)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeInvalidDirection {
		t.Errorf("code = %s", got.Code)
	}
}

func TestExportImport(t *testing.T) {
	ts := newTestServer(t)
	ts.addNode(t, 1, 2)

	resp := ts.do(t, "GET", "/api/export", "")
	expectStatus(t, resp, http.StatusOK)
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, persist.ExportFilename) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported, _ := io.ReadAll(resp.Body)

	ts.addNode(t, 3, 4)
	resp = ts.do(t, "POST", "/api/import", string(exported))
	expectStatus(t, resp, http.StatusOK)
	if g := decodeBody[GraphView](t, resp); len(g.Nodes) != 1 {
		t.Errorf("nodes after import = %d", len(g.Nodes))
	}
	if n := ts.addNode(t, 0, 0); n.ID != "2" {
		t.Errorf("id after import = %q, want 2", n.ID)
	}

	resp = ts.do(t, "GET", "/api/export.yaml", "")
	expectStatus(t, resp, http.StatusOK)
	if body, _ := io.ReadAll(resp.Body); !strings.Contains(string(body), "nodes:") {
		t.Errorf("yaml export = %s", body)
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	ts := newTestServer(t)
	ts.addNode(t, 0, 0)
	before, _, _ := ts.storage.Get(context.Background(), persist.StorageKey)

	tests := []struct {
		body string
		code errors.Code
	}{
		{`{"foo":1}`, errors.ErrCodeSchemaViolation},
		{`not json`, errors.ErrCodeParseFailure},
	}
	for _, tt := range tests {
		resp := ts.do(t, "POST", "/api/import", tt.body)
		expectStatus(t, resp, http.StatusBadRequest)
		if got := decodeBody[errorResponse](t, resp); got.Code != tt.code || got.Message == "" {
			t.Errorf("import %s = %+v, want %s", tt.body, got, tt.code)
		}
	}

	g, _ := ts.session.Snapshot(context.Background())
	if len(g.Nodes) != 1 {
		t.Error("graph changed by rejected import")
	}
	after, _, _ := ts.storage.Get(context.Background(), persist.StorageKey)
	if string(after) != string(before) {
		t.Error("storage changed by rejected import")
	}
}

func TestBadBody(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, "POST", "/api/edges", `{"source":`)
	expectStatus(t, resp, http.StatusBadRequest)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %s", got.Code)
	}
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t)
	a := ts.addNode(t, 0, 0)
	b := ts.addNode(t, 0, 0)
	ts.connect(t, a.ID, b.ID)

	resp := ts.do(t, "GET", "/api/render.dot?direction=LR&labels=true", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"rankdir=LR;", `"1" -> "2"`, `label="New Relation"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("DOT missing %q:\n%s", want, body)
		}
	}
}

func TestClosedSession(t *testing.T) {
	ts := newTestServer(t)
	ts.session.Close()
	resp := ts.do(t, "GET", "/api/graph", "")
	expectStatus(t, resp, http.StatusServiceUnavailable)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeClosed {
		t.Errorf("code = %s", got.Code)
	}
}
