package variants

import (
	"strconv"
	"strings"
)

// UngroupedName is the bucket for variants that lack the group-by axis.
const UngroupedName = "Ungrouped"

// flatGroupLimit is the largest partition of one-member groups that is still
// shown without group headers.
const flatGroupLimit = 5

// GroupValue is the bucket a variant falls into under groupBy. With no
// groupBy every variant shares the unnamed group, as in Group.
func GroupValue(v VariantRecord, groupBy string) string {
	if groupBy == "" {
		return ""
	}
	if val, ok := ParseName(v.Name)[groupBy]; ok && val != "" {
		return val
	}
	return UngroupedName
}

// Group partitions variants by the groupBy axis. An empty groupBy yields a
// single unnamed group holding every variant in order. Buckets keep their
// first-seen order and never hold two variants with the same canonical key.
func Group(vs []VariantRecord, groupBy string) []VariantGroup {
	if groupBy == "" {
		g := VariantGroup{Variants: make([]IndexedVariant, 0, len(vs))}
		for i, v := range vs {
			g.Variants = append(g.Variants, IndexedVariant{OriginalIndex: i, Variant: v})
			g.TotalQty += StockQty(v)
		}
		return []VariantGroup{g}
	}

	var groups []VariantGroup
	pos := map[string]int{}
	seen := map[string]map[string]struct{}{}

	for i, v := range vs {
		attrs := ParseName(v.Name)
		name := attrs[groupBy]
		if name == "" {
			name = UngroupedName
		}

		gi, ok := pos[name]
		if !ok {
			gi = len(groups)
			pos[name] = gi
			seen[name] = map[string]struct{}{}
			groups = append(groups, VariantGroup{Name: name})
		}

		key := CanonicalKey(attrs)
		if _, dup := seen[name][key]; dup {
			continue
		}
		seen[name][key] = struct{}{}

		groups[gi].Variants = append(groups[gi].Variants, IndexedVariant{OriginalIndex: i, Variant: v})
		groups[gi].TotalQty += StockQty(v)
	}
	return groups
}

// IsFlatPartition reports whether grouped output degenerated into one
// variant per group, which is shown without headers.
func IsFlatPartition(groups []VariantGroup) bool {
	if len(groups) <= 1 || len(groups) > flatGroupLimit {
		return false
	}
	for _, g := range groups {
		if len(g.Variants) != 1 {
			return false
		}
	}
	return true
}

// StockQty parses the stock quantity, treating anything non-numeric as 0.
func StockQty(v VariantRecord) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.StockQuantity))
	if err != nil {
		return 0
	}
	return n
}

// Matches is the table search: case-insensitive substring on name or SKU.
func Matches(v VariantRecord, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.Name), q) ||
		strings.Contains(strings.ToLower(v.SKU), q)
}

// GroupNames lists the group names in display order.
func GroupNames(groups []VariantGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

// ExpandState remembers which group headers are open.
type ExpandState map[string]bool

// Observe returns a copy in which group names seen for the first time are
// expanded. Names already known keep whatever the admin chose.
func (e ExpandState) Observe(names []string) ExpandState {
	out := make(ExpandState, len(e)+len(names))
	for k, v := range e {
		out[k] = v
	}
	for _, n := range names {
		if _, known := out[n]; !known {
			out[n] = true
		}
	}
	return out
}

// Toggle returns a copy with name flipped. Unknown names start expanded, so
// the first toggle collapses them.
func (e ExpandState) Toggle(name string) ExpandState {
	out := e.Observe([]string{name})
	out[name] = !out[name]
	return out
}

func (e ExpandState) Expanded(name string) bool {
	open, known := e[name]
	return !known || open
}
