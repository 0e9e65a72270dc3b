package variants

import (
	"reflect"
	"testing"
)

func TestMove(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a", "d"}},
		{3, 0, []string{"d", "a", "b", "c"}},
		{1, 3, []string{"a", "c", "d", "b"}},
		{2, 2, []string{"a", "b", "c", "d"}},
		{-1, 2, []string{"a", "b", "c", "d"}},
		{1, 9, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		if got := Move(in, tt.from, tt.to); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Move(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !reflect.DeepEqual(in, []string{"a", "b", "c", "d"}) {
		t.Errorf("Move mutated its input: %v", in)
	}
}

func TestRemoveIndices(t *testing.T) {
	in := []string{"v0", "v1", "v2", "v3", "v4"}
	for _, del := range [][]int{{1, 3}, {3, 1}, {3, 1, 3}} {
		if got := RemoveIndices(in, del); !reflect.DeepEqual(got, []string{"v0", "v2", "v4"}) {
			t.Errorf("RemoveIndices(%v) = %v", del, got)
		}
	}
	if got := RemoveIndices(in, []int{-1, 7}); !reflect.DeepEqual(got, in) {
		t.Errorf("out of range indices should be ignored, got %v", got)
	}
}

func TestMoveOption(t *testing.T) {
	secs := []OptionSection{
		{Options: []OptionDefinition{{OptionName: "Color"}, {OptionName: "Size"}}},
		{Options: []OptionDefinition{{OptionName: "Material"}}},
	}

	got := MoveOption(secs, OptionRef{0, 0}, OptionRef{0, 1})
	if got[0].Options[0].OptionName != "Size" || got[0].Options[1].OptionName != "Color" {
		t.Errorf("reorder within section failed: %+v", got[0])
	}
	if secs[0].Options[0].OptionName != "Color" {
		t.Errorf("MoveOption mutated its input")
	}

	got = MoveOption(secs, OptionRef{0, 0}, OptionRef{1, 0})
	if !reflect.DeepEqual(got, secs) {
		t.Errorf("cross-section drop must be ignored: %+v", got)
	}
}

func TestMoveSection(t *testing.T) {
	secs := []OptionSection{
		{Options: []OptionDefinition{{OptionName: "A"}}},
		{Options: []OptionDefinition{{OptionName: "B"}}},
	}
	got := MoveSection(secs, 1, 0)
	if got[0].Options[0].OptionName != "B" {
		t.Errorf("MoveSection = %+v", got)
	}
}

func TestMoveVariantWithinGroup(t *testing.T) {
	vs := variantsNamed("0", "Color: Red / Size: S", "Color: Red / Size: M", "Color: Blue / Size: S")
	got := MoveVariantWithinGroup(vs, "Color", 1, 0)
	if got[0].Name != "Color: Red / Size: M" {
		t.Errorf("same-group move failed: %q", names(got))
	}
	got = MoveVariantWithinGroup(vs, "Color", 2, 0)
	if !reflect.DeepEqual(names(got), names(vs)) {
		t.Errorf("cross-group move must be ignored: %q", names(got))
	}
	got = MoveVariantWithinGroup(vs, "", 2, 0)
	if got[0].Name != "Color: Blue / Size: S" {
		t.Errorf("ungrouped move failed: %q", names(got))
	}
}
