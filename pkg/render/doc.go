// Package render groups the renderers that turn a lineage graph into a
// picture outside the interactive canvas.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders directed graph diagrams using Graphviz.
// Node shapes and colors follow the node styles set in the editor.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/lineageflow/pkg/render/nodelink
package render
