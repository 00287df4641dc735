// Package editor drives a lineage graph the way a canvas user does.
//
// Two pieces live here:
//
//   - [Controller] holds the per-node and per-edge inline editing state
//     machines and the clipboard. It turns pointer and keyboard events into
//     label, style and paste mutations on a [store.Store].
//   - [Session] owns the id allocator, the store, the controller and the
//     autosaver, and funnels every mutation through a single goroutine.
//     Surfaces (CLI, terminal editor, HTTP API) submit closures with
//     [Session.Do] and never touch the store directly.
//
// # Node editing
//
// A node is Idle, Hovered or Editing. Hover only decides whether connection
// handles are shown; a double click starts editing from either Idle or
// Hovered. Blur and Enter both commit the buffered label.
//
// # Edge editing
//
// An edge label is Hidden, Visible or Editing. A click toggles visibility,
// a double click starts editing and only blur commits. Enter is not a
// commit for edges.
//
// # Clipboard
//
// Ctrl+C or Cmd+C copies the selected nodes. Ctrl+V or Cmd+V pastes them as
// new nodes offset by (+20,+20). Pasting keeps the clipboard, so the same
// copy can be pasted repeatedly.
package editor
