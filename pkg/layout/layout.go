package layout

import (
	"context"
	"time"

	"github.com/matzehuels/lineageflow/pkg/dag"
	"github.com/matzehuels/lineageflow/pkg/dag/transform"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/observability"
)

// Layouter positions nodes. Both [Engine] and [CachedEngine] implement it.
type Layouter interface {
	Layout(ctx context.Context, nodes []flow.Node, edges []flow.Edge, dir Direction) ([]flow.Node, error)
}

// Options configures box sizes and spacing. All values are in canvas units.
type Options struct {
	NodeWidth  float64 `json:"node_width"`
	NodeHeight float64 `json:"node_height"`
	RankSep    float64 `json:"rank_sep"` // gap between ranks
	NodeSep    float64 `json:"node_sep"` // gap between neighbors in a rank
	EdgeSep    float64 `json:"edge_sep"` // gap next to edge bends

	// Orderer orders each rank. Nil uses Barycenter with default passes.
	Orderer Orderer `json:"-"`
}

// DefaultOptions returns 172×36 boxes with 50 units between ranks and nodes.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  172,
		NodeHeight: 36,
		RankSep:    50,
		NodeSep:    50,
		EdgeSep:    10,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NodeWidth <= 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.RankSep <= 0 {
		o.RankSep = d.RankSep
	}
	if o.NodeSep <= 0 {
		o.NodeSep = d.NodeSep
	}
	if o.EdgeSep <= 0 {
		o.EdgeSep = d.EdgeSep
	}
	if o.Orderer == nil {
		o.Orderer = Barycenter{}
	}
	return o
}

// Engine computes layered layouts. An Engine holds no state between calls
// and is safe for concurrent use.
type Engine struct {
	opts Options
}

// New creates an Engine. Zero option fields take their defaults.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Layout returns a copy of nodes with new positions and attachment sides.
//
// Edges whose endpoints are not among nodes are ignored. Self-loops,
// parallel edges and cycles are accepted. Inputs are never modified and the
// output keeps the input order.
func (e *Engine) Layout(ctx context.Context, nodes []flow.Node, edges []flow.Edge, dir Direction) ([]flow.Node, error) {
	if err := dir.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Editor().OnLayoutStart(ctx, string(dir), len(nodes))
	out := e.layout(nodes, edges, dir)
	observability.Editor().OnLayoutComplete(ctx, string(dir), time.Since(start), nil)
	return out, nil
}

func (e *Engine) layout(nodes []flow.Node, edges []flow.Edge, dir Direction) []flow.Node {
	out := make([]flow.Node, len(nodes))
	copy(out, nodes)
	if len(nodes) == 0 {
		return out
	}

	// Box extent along the rank (cross) axis and across ranks.
	crossSize, rankSize := e.opts.NodeWidth, e.opts.NodeHeight
	if dir == LeftRight {
		crossSize, rankSize = e.opts.NodeHeight, e.opts.NodeWidth
	}

	g := dag.New()
	for _, n := range nodes {
		// Duplicate ids share the first occurrence's position.
		_ = g.AddNode(dag.Node{ID: n.ID, Width: crossSize, Height: rankSize})
	}
	for _, ed := range edges {
		_ = g.AddEdge(dag.Edge{From: ed.Source, To: ed.Target})
	}

	transform.Normalize(g)

	orders := e.opts.Orderer.OrderRows(g)
	for row, ids := range orders {
		g.SetRowOrder(row, ids)
	}

	cross := assignCross(g, orders, e.opts)

	source, target := dir.Sides()
	for i := range out {
		n, ok := g.Node(out[i].ID)
		if !ok {
			continue
		}
		c := cross[n.ID]
		r := float64(n.Row)*(rankSize+e.opts.RankSep) + rankSize/2

		cx, cy := c, r
		if dir == LeftRight {
			cx, cy = r, c
		}
		out[i].Position = flow.Position{
			X: cx - e.opts.NodeWidth/2,
			Y: cy - e.opts.NodeHeight/2,
		}
		out[i].SourcePosition = source
		out[i].TargetPosition = target
	}
	return out
}
