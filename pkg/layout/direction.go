package layout

import (
	"strings"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
)

// Direction is the axis ranks are laid out along.
type Direction string

const (
	// TopBottom places upstream nodes above downstream ones.
	TopBottom Direction = "TB"
	// LeftRight places upstream nodes to the left of downstream ones.
	LeftRight Direction = "LR"
)

// ParseDirection parses "TB" or "LR", ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate returns an INVALID_DIRECTION error for anything but TB or LR.
func (d Direction) Validate() error {
	switch d {
	case TopBottom, LeftRight:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidDirection, "direction must be TB or LR, got %q", string(d))
}

// Sides returns the attachment sides for edges: where edges leave a node
// and where they enter it.
func (d Direction) Sides() (source, target flow.Side) {
	if d == LeftRight {
		return flow.SideRight, flow.SideLeft
	}
	return flow.SideBottom, flow.SideTop
}
