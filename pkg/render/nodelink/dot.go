package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Direction sets the Graphviz rankdir. Empty means top to bottom.
	Direction layout.Direction

	// EdgeLabels draws edge labels. Labels longer than the canvas shows are
	// not truncated.
	EdgeLabels bool
}

// ToDOT converts a lineage graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g flow.Graph, opts Options) string {
	rankdir := layout.TopBottom
	if opts.Direction == layout.LeftRight {
		rankdir = layout.LeftRight
	}

	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, penwidth=2];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	present := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if present[n.ID] {
			continue
		}
		present[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if !present[e.Source] || !present[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts.EdgeLabels), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n flow.Node) []string {
	color := ExpandHex(n.Data.Style.Color)
	attrs := []string{
		fmt.Sprintf("id=%q", "node-"+n.ID),
		fmt.Sprintf("label=%q", n.Data.Label),
		fmt.Sprintf("color=%q", color),
	}
	switch n.Data.Style.Shape {
	case flow.ShapeCircle:
		attrs = append(attrs, "shape=ellipse", "style=filled")
	case flow.ShapeDiamond:
		attrs = append(attrs, "shape=diamond", "style=filled")
	default:
		attrs = append(attrs, "shape=box")
	}
	return attrs
}

func edgeAttrs(e flow.Edge, labels bool) []string {
	attrs := []string{fmt.Sprintf("id=%q", e.ID)}
	if e.Style.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", ExpandHex(e.Style.Stroke)))
	}
	if labels && e.Data.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Data.Label))
	}
	if e.MarkerEnd == nil {
		attrs = append(attrs, "arrowhead=none")
	}
	return attrs
}

var shortHexRe = regexp.MustCompile(`^#[0-9a-fA-F]{3}$`)

// ExpandHex turns "#abc" into "#aabbcc". Other values are returned as is.
func ExpandHex(color string) string {
	if !shortHexRe.MatchString(color) {
		return color
	}
	return string([]byte{'#', color[1], color[1], color[2], color[2], color[3], color[3]})
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
