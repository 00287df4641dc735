// Package pkg provides the core libraries for lineageflow, an editor for
// data lineage graphs.
//
// # Overview
//
// A lineage graph is a set of datasets (nodes) connected by directed,
// labeled relations (edges) saying which dataset feeds which. The pkg
// directory is organized into four areas:
//
//  1. Model - [flow] types, ids and styles; [store] the canonical graph
//  2. Algorithms - [dag] and [dag/transform] graph structure, [layout] the
//     layered drawing
//  3. Editing - [editor] interaction state machines and the single-writer
//     session; [persist] the exchange format and autosave
//  4. Infrastructure - [storage] backends, [cache], [server] HTTP API,
//     [render/nodelink] Graphviz output, [observability] hooks
//
// # Architecture
//
// Every surface (CLI, terminal editor, HTTP API) drives one session:
//
//	surface event
//	     ↓
//	[editor] Session.Do (one goroutine owns the graph)
//	     ↓
//	[store] mutation → subscribers notified with a copy
//	     ↓
//	[persist] Autosaver → [storage] backend (file, sqlite, redis, mongo)
//
// # Quick Start
//
// Open a session, add two datasets, connect them and lay them out:
//
//	s, _ := editor.Open(ctx, editor.Options{Storage: storage.NewMemory()})
//	defer s.Close()
//
//	_ = s.Do(ctx, "seed", func(e *editor.Editor) error {
//	    a := e.Store.AddNode(flow.Position{})
//	    b := e.Store.AddNode(flow.Position{})
//	    e.Store.Connect(store.Connection{Source: a.ID, Target: b.ID})
//	    return nil
//	})
//	_ = s.Layout(ctx, layout.TopBottom)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/layout/...          # Specific package
//	go test -run Example ./pkg/...    # Examples only
//	go test -short ./pkg/...          # Skip Graphviz rendering
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/flow
// [store]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/store
// [dag]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/layout
// [editor]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/editor
// [persist]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/persist
// [storage]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/storage
// [cache]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/server
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/lineageflow/pkg/observability
package pkg
