package layout_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/layout"
)

func ExampleEngine_Layout() {
	nodes := []flow.Node{
		flow.NewNode("1", flow.Position{}, "raw_orders"),
		flow.NewNode("2", flow.Position{}, "stg_orders"),
	}
	edges := []flow.Edge{flow.NewEdge("e1", "1", "2")}

	out, err := layout.New(layout.DefaultOptions()).Layout(context.Background(), nodes, edges, layout.TopBottom)
	if err != nil {
		panic(err)
	}
	for _, n := range out {
		fmt.Printf("%s (%g, %g) %s→%s\n", n.Data.Label, n.Position.X, n.Position.Y, n.TargetPosition, n.SourcePosition)
	}
	// Output:
	// raw_orders (0, 0) top→bottom
	// stg_orders (0, 86) top→bottom
}
