// Package store holds the canonical lineage graph being edited.
//
// A [Store] owns the ordered node and edge sequences and applies every
// mutation the editor supports: adding nodes, connecting them, editing
// labels and styles, folding change-sets reported by the rendering surface,
// replacing the whole graph on load or import, and duplicating nodes for
// paste. After each committed mutation the store notifies its subscribers
// with a snapshot.
//
// # Permissive Editing
//
// Label and style updates for unknown ids are silent no-ops. Removing a node
// does not remove its edges; the resulting dangling edges are kept and can
// be listed with [Store.DanglingEdges].
//
// # Concurrency
//
// A Store is not safe for concurrent use. The editor session serializes all
// access through a single goroutine.
package store
