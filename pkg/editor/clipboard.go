package editor

import (
	"slices"

	"github.com/matzehuels/lineageflow/pkg/flow"
)

// KeyEvent is a raw key press from the rendering surface.
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Meta bool   `json:"meta,omitempty"`
}

// HandleKey runs the clipboard gestures: Ctrl or Meta with "c" copies, with
// "v" pastes. It returns the pasted nodes, if any. Other keys are ignored.
func (c *Controller) HandleKey(ev KeyEvent) []flow.Node {
	if !ev.Ctrl && !ev.Meta {
		return nil
	}
	switch ev.Key {
	case "c":
		c.Copy()
	case "v":
		return c.Paste()
	}
	return nil
}

// Copy replaces the clipboard with the selected nodes and returns how many
// were copied. With nothing selected the clipboard is left as is.
func (c *Controller) Copy() int {
	selected := c.store.SelectedNodes()
	if len(selected) == 0 {
		return 0
	}
	c.clipboard = selected
	return len(selected)
}

// Paste appends duplicates of the clipboard nodes to the store. The
// clipboard is kept.
func (c *Controller) Paste() []flow.Node {
	if len(c.clipboard) == 0 {
		return nil
	}
	return c.store.DuplicateSelected(c.clipboard)
}

// Clipboard returns a copy of the copied nodes.
func (c *Controller) Clipboard() []flow.Node {
	return slices.Clone(c.clipboard)
}
