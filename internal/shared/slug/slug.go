package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// FromName turns a product name into a URL slug.
func FromName(s string) string {
	s = Slugify(s)
	if s == "" {
		return "product"
	}
	return s
}

// Slugify is FromName without the fallback.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Code is an upper-case SKU segment: "Navy Blue" -> "NAVY-BLUE", cut to
// max runes (0 = no limit) without leaving a dangling dash.
func Code(s string, max int) string {
	c := strings.ToUpper(Slugify(s))
	if max > 0 && len(c) > max {
		c = strings.TrimRight(c[:max], "-")
	}
	return c
}
