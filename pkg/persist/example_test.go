package persist_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/persist"
)

func ExampleSerialize() {
	g := flow.Graph{
		Nodes: []flow.Node{flow.NewNode("1", flow.Position{X: 0, Y: 0}, "raw_orders")},
		Edges: []flow.Edge{},
	}
	data, _ := persist.Serialize(g)
	fmt.Println(string(data))
	// Output:
	// {"nodes":[{"id":"1","type":"custom","position":{"x":0,"y":0},"data":{"label":"raw_orders","style":{"color":"#555","shape":"rectangle"}}}],"edges":[]}
}

func ExampleDeserialize() {
	_, err := persist.Deserialize([]byte(`{"foo": 1}`))
	fmt.Println(errors.GetCode(err))

	_, err = persist.Deserialize([]byte(`{"nodes": [`))
	fmt.Println(errors.GetCode(err))
	// Output:
	// SCHEMA_VIOLATION
	// PARSE_FAILURE
}

func ExampleExport() {
	g := flow.Graph{Nodes: []flow.Node{}, Edges: []flow.Edge{}}
	_ = persist.Export(os.Stdout, g)
	// Output:
	// {
	//   "nodes": [],
	//   "edges": []
	// }
}
