package variants

import (
	"sort"
	"strings"
)

const nameSeparator = " / "

// ParseName reads "color: Red / size: M" back into an attribute map.
// Segments without a colon are ignored, except for one legacy form kept for
// old imports: a trailing bare segment is the size value when another
// segment already named a size axis ("size: M / L" -> size=L).
func ParseName(name string) map[string]string {
	attrs := map[string]string{}
	segments := strings.Split(name, nameSeparator)
	sizeKey := ""

	for i, seg := range segments {
		k, v, ok := strings.Cut(seg, ":")
		if !ok {
			bare := strings.TrimSpace(seg)
			if i == len(segments)-1 && i > 0 && sizeKey != "" && bare != "" {
				attrs[sizeKey] = bare
			}
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		attrs[k] = v
		if RoleOf(k) == RoleSize {
			sizeKey = k
		}
	}
	return attrs
}

// CanonicalKey is the identity used for variant deduplication.
func CanonicalKey(attrs map[string]string) string {
	keys := sortedKeys(attrs)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + attrs[k]
	}
	return strings.Join(parts, "|")
}

// DisplayName renders attrs with color first, size second and the rest
// alphabetically.
func DisplayName(attrs map[string]string) string {
	keys := displayOrder(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if attrs[k] == "" {
			continue
		}
		parts = append(parts, k+": "+attrs[k])
	}
	return strings.Join(parts, nameSeparator)
}

// AttributesOf prefers the structured options and falls back to parsing
// the display name.
func AttributesOf(v VariantRecord) map[string]string {
	if len(v.Options) > 0 {
		return v.Options
	}
	return ParseName(v.Name)
}

func displayOrder(attrs map[string]string) []string {
	keys := sortedKeys(attrs)
	sort.SliceStable(keys, func(i, j int) bool {
		return roleRank(RoleOf(keys[i])) < roleRank(RoleOf(keys[j]))
	})
	return keys
}

func roleRank(r AxisRole) int {
	switch r {
	case RoleColor:
		return 0
	case RoleSize:
		return 1
	default:
		return 2
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
