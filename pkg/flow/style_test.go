package flow

import (
	"testing"

	"github.com/matzehuels/lineageflow/pkg/errors"
)

func TestStylePatch_Apply(t *testing.T) {
	base := DefaultNodeStyle()

	got := ColorPatch("#ff0000").Apply(base)
	if got.Color != "#ff0000" || got.Shape != ShapeRectangle {
		t.Errorf("color patch = %+v", got)
	}

	got = ShapePatch(ShapeDiamond).Apply(got)
	if got.Color != "#ff0000" || got.Shape != ShapeDiamond {
		t.Errorf("shape patch = %+v", got)
	}

	if (StylePatch{}).Apply(base) != base {
		t.Error("empty patch changed the style")
	}
	if !(StylePatch{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty patch")
	}
}

func TestStylePatch_Validate(t *testing.T) {
	if err := ColorPatch("#0000ff").Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := ColorPatch("teal").Validate(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Validate(teal) = %v, want INVALID_STYLE", err)
	}
	if err := ShapePatch("hexagon").Validate(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Validate(hexagon) = %v, want INVALID_STYLE", err)
	}
	for _, c := range Palette {
		if err := ValidateColor(c); err != nil {
			t.Errorf("ValidateColor(%q) = %v", c, err)
		}
	}
	for _, s := range Shapes {
		if err := ValidateShape(s); err != nil {
			t.Errorf("ValidateShape(%q) = %v", s, err)
		}
	}
}
