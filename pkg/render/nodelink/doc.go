// Package nodelink renders lineage graphs as Graphviz node-link diagrams.
//
// # Overview
//
// Nodes become Graphviz nodes drawn with the shape and color of their style,
// and edges become labeled arrows. The diagram is laid out by Graphviz
// itself, independently of the canvas positions, which makes it a quick
// way to share a lineage graph as a picture.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Direction: layout.LeftRight})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styles
//
// Node shapes map to Graphviz shapes:
//
//   - rectangle: rounded box
//   - circle: ellipse
//   - diamond: diamond
//
// Short hex colors such as "#555" are expanded to the six-digit form
// Graphviz expects. Edges whose source or target is missing are left out.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
