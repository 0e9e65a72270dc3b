package variants

// Move returns a copy of items with the element at from re-inserted at to.
// Equal, negative or out-of-range indices return an unchanged copy.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from == to || from < 0 || to < 0 || from >= len(items) || to >= len(items) {
		return out
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}

// RemoveIndices drops every element whose pre-deletion index is listed.
// Order and duplicates in indices do not matter.
func RemoveIndices[T any](items []T, indices []int) []T {
	del := indexSet(indices)
	out := make([]T, 0, len(items))
	for i, it := range items {
		if _, gone := del[i]; gone {
			continue
		}
		out = append(out, it)
	}
	return out
}

// OptionRef addresses one option row inside a section.
type OptionRef struct {
	Section int `json:"section"`
	Option  int `json:"option"`
}

// MoveOption reorders an option row inside its section. Drops onto a row of
// another section are ignored.
func MoveOption(sections []OptionSection, from, to OptionRef) []OptionSection {
	out := cloneSections(sections)
	if from.Section != to.Section || from.Section < 0 || from.Section >= len(out) {
		return out
	}
	out[from.Section].Options = Move(out[from.Section].Options, from.Option, to.Option)
	return out
}

// MoveSection reorders whole sections.
func MoveSection(sections []OptionSection, from, to int) []OptionSection {
	return Move(cloneSections(sections), from, to)
}

// MoveVariantWithinGroup reorders the authoritative slice by original
// indices, but only when both variants share a group under groupBy.
func MoveVariantWithinGroup(vs []VariantRecord, groupBy string, from, to int) []VariantRecord {
	if from < 0 || to < 0 || from >= len(vs) || to >= len(vs) {
		return Move(vs, -1, -1)
	}
	if groupBy != "" && GroupValue(vs[from], groupBy) != GroupValue(vs[to], groupBy) {
		return Move(vs, -1, -1)
	}
	return Move(vs, from, to)
}

func cloneSections(sections []OptionSection) []OptionSection {
	out := make([]OptionSection, len(sections))
	for i, s := range sections {
		out[i] = OptionSection{Options: append([]OptionDefinition(nil), s.Options...)}
	}
	return out
}
