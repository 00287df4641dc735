package flow

import (
	"slices"
	"strings"

	"github.com/matzehuels/lineageflow/pkg/errors"
)

// StylePatch is a partial node style. Nil fields leave the existing value
// unchanged when merged.
type StylePatch struct {
	Color *string `json:"color,omitempty"`
	Shape *Shape  `json:"shape,omitempty"`
}

// ColorPatch returns a patch that only sets the color.
func ColorPatch(color string) StylePatch { return StylePatch{Color: &color} }

// ShapePatch returns a patch that only sets the shape.
func ShapePatch(shape Shape) StylePatch { return StylePatch{Shape: &shape} }

// IsEmpty reports whether the patch sets nothing.
func (p StylePatch) IsEmpty() bool { return p.Color == nil && p.Shape == nil }

// Apply merges the patch into s and returns the result.
func (p StylePatch) Apply(s NodeStyle) NodeStyle {
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Shape != nil {
		s.Shape = *p.Shape
	}
	return s
}

// Validate checks the fields the patch sets against the palette and
// shape set. The store itself accepts any value; surfaces validate.
func (p StylePatch) Validate() error {
	if p.Color != nil {
		if err := ValidateColor(*p.Color); err != nil {
			return err
		}
	}
	if p.Shape != nil {
		if err := ValidateShape(*p.Shape); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColor checks that color is one of the palette entries.
func ValidateColor(color string) error {
	if !slices.Contains(Palette, color) {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown color %q (want one of %s)", color, strings.Join(Palette, ", "))
	}
	return nil
}

// ValidateShape checks that shape is one of the supported shapes.
func ValidateShape(shape Shape) error {
	if !slices.Contains(Shapes, shape) {
		names := make([]string, len(Shapes))
		for i, s := range Shapes {
			names[i] = string(s)
		}
		return errors.New(errors.ErrCodeInvalidStyle, "unknown shape %q (want one of %s)", shape, strings.Join(names, ", "))
	}
	return nil
}
