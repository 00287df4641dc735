package persist

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
)

type wireGraph struct {
	Nodes []wireNode `json:"nodes" yaml:"nodes"`
	Edges []wireEdge `json:"edges" yaml:"edges"`
}

type wireNode struct {
	ID             string        `json:"id" yaml:"id"`
	Type           string        `json:"type" yaml:"type"`
	Position       flow.Position `json:"position" yaml:"position"`
	Data           wireNodeData  `json:"data" yaml:"data"`
	SourcePosition flow.Side     `json:"sourcePosition,omitempty" yaml:"sourcePosition,omitempty"`
	TargetPosition flow.Side     `json:"targetPosition,omitempty" yaml:"targetPosition,omitempty"`
}

type wireNodeData struct {
	Label string         `json:"label" yaml:"label"`
	Style flow.NodeStyle `json:"style" yaml:"style"`
}

type wireEdge struct {
	ID        string         `json:"id" yaml:"id"`
	Source    string         `json:"source" yaml:"source"`
	Target    string         `json:"target" yaml:"target"`
	Type      string         `json:"type" yaml:"type"`
	Data      wireEdgeData   `json:"data" yaml:"data"`
	Style     flow.EdgeStyle `json:"style" yaml:"style"`
	MarkerEnd *flow.Marker   `json:"markerEnd,omitempty" yaml:"markerEnd,omitempty"`
}

type wireEdgeData struct {
	Label string `json:"label" yaml:"label"`
}

func toWire(g flow.Graph) wireGraph {
	out := wireGraph{
		Nodes: make([]wireNode, len(g.Nodes)),
		Edges: make([]wireEdge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = wireNode{
			ID:             n.ID,
			Type:           n.Type,
			Position:       n.Position,
			Data:           wireNodeData{Label: n.Data.Label, Style: n.Data.Style},
			SourcePosition: n.SourcePosition,
			TargetPosition: n.TargetPosition,
		}
	}
	for i, e := range g.Edges {
		e = e.Clone()
		out.Edges[i] = wireEdge{
			ID:        e.ID,
			Source:    e.Source,
			Target:    e.Target,
			Type:      e.Type,
			Data:      wireEdgeData{Label: e.Data.Label},
			Style:     e.Style,
			MarkerEnd: e.MarkerEnd,
		}
	}
	return out
}

func fromWire(w wireGraph) flow.Graph {
	g := flow.Graph{
		Nodes: make([]flow.Node, len(w.Nodes)),
		Edges: make([]flow.Edge, len(w.Edges)),
	}
	for i, n := range w.Nodes {
		style := n.Data.Style
		if style.Color == "" {
			style.Color = flow.DefaultColor
		}
		if style.Shape == "" {
			style.Shape = flow.DefaultShape
		}
		g.Nodes[i] = flow.Node{
			ID:             n.ID,
			Type:           orCustom(n.Type),
			Position:       n.Position,
			Data:           flow.NodeData{Label: n.Data.Label, Style: style},
			SourcePosition: n.SourcePosition,
			TargetPosition: n.TargetPosition,
		}
	}
	for i, e := range w.Edges {
		g.Edges[i] = flow.Edge{
			ID:        e.ID,
			Source:    e.Source,
			Target:    e.Target,
			Type:      orCustom(e.Type),
			Data:      flow.EdgeData{Label: e.Data.Label},
			Style:     e.Style,
			MarkerEnd: e.MarkerEnd,
		}
	}
	return g
}

func orCustom(t string) string {
	if t == "" {
		return flow.TypeCustom
	}
	return t
}

// Serialize encodes g in the wire format without indentation.
func Serialize(g flow.Graph) ([]byte, error) {
	data, err := json.Marshal(toWire(g))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return data, nil
}

// Deserialize decodes a wire-format payload.
//
// It returns a PARSE_FAILURE error when data is not valid JSON and a
// SCHEMA_VIOLATION error when the JSON is not an object with "nodes" and
// "edges" arrays of the expected element shape, or when an element is null
// or has no id.
func Deserialize(data []byte) (flow.Graph, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return flow.Graph{}, errors.Wrap(errors.ErrCodeParseFailure, err, "payload is not valid JSON")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return flow.Graph{}, errors.New(errors.ErrCodeSchemaViolation, "payload must be a JSON object with nodes and edges")
	}
	for _, field := range []string{"nodes", "edges"} {
		if !isArray(top[field]) {
			return flow.Graph{}, errors.New(errors.ErrCodeSchemaViolation, "payload has no %q array", field)
		}
	}

	var w wireGraph
	if err := json.Unmarshal(top["nodes"], &w.Nodes); err != nil {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeSchemaViolation, err, "malformed node in payload")
	}
	if err := json.Unmarshal(top["edges"], &w.Edges); err != nil {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeSchemaViolation, err, "malformed edge in payload")
	}
	// A null element decodes to the zero value, so the id check covers it.
	for i, n := range w.Nodes {
		if n.ID == "" {
			return flow.Graph{}, errors.New(errors.ErrCodeSchemaViolation, "node %d in payload has no id", i)
		}
	}
	for i, e := range w.Edges {
		if e.ID == "" {
			return flow.Graph{}, errors.New(errors.ErrCodeSchemaViolation, "edge %d in payload has no id", i)
		}
	}
	return fromWire(w), nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
