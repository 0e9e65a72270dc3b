package variants

import (
	"regexp"
	"strings"
)

var (
	chipDelim         = regexp.MustCompile(`[,\n]`)
	trailingChipDelim = regexp.MustCompile(`[,\n]\s*$`)
)

// ChipState is the parsed form of an option values buffer.
type ChipState struct {
	Committed []string `json:"committed"`
	Typing    string   `json:"typing"`
}

// ParseChips splits a raw values buffer into committed chips and the
// trailing fragment the admin is still typing.
//
// "Red, Blue, " -> [Red Blue], ""
// "Red, Bl"     -> [Red], "Bl"
func ParseChips(buf string) ChipState {
	parts := chipDelim.Split(buf, -1)
	committedParts := parts
	typing := ""
	if !trailingChipDelim.MatchString(buf) {
		committedParts = parts[:len(parts)-1]
		typing = strings.TrimSpace(parts[len(parts)-1])
	}

	committed := make([]string, 0, len(committedParts))
	seen := make(map[string]struct{}, len(committedParts))
	for _, p := range committedParts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		committed = append(committed, p)
	}
	return ChipState{Committed: committed, Typing: typing}
}

// CommitTyping is the Enter handler: the typing fragment becomes a chip and
// the buffer is left awaiting the next value. A fragment that duplicates an
// existing chip is dropped.
func CommitTyping(buf string) string {
	st := ParseChips(buf)
	values := st.Committed
	if st.Typing != "" && !containsString(values, st.Typing) {
		values = append(values, st.Typing)
	}
	return serializeChips(values)
}

// UncommitLast is the Backspace handler. It only acts when the caret sits
// right after a delimiter, i.e. nothing is being typed.
func UncommitLast(buf string) string {
	st := ParseChips(buf)
	if st.Typing != "" || len(st.Committed) == 0 {
		return buf
	}
	return serializeChips(st.Committed[:len(st.Committed)-1])
}

// RemoveChip drops one committed value and keeps whatever is being typed.
func RemoveChip(buf, value string) string {
	st := ParseChips(buf)
	rest := make([]string, 0, len(st.Committed))
	removed := false
	for _, v := range st.Committed {
		if !removed && v == value {
			removed = true
			continue
		}
		rest = append(rest, v)
	}
	if !removed {
		return buf
	}
	return serializeChips(rest) + st.Typing
}

// CommittedValues is ParseChips(buf).Committed.
func CommittedValues(buf string) []string {
	return ParseChips(buf).Committed
}

func serializeChips(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, ", ") + ", "
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
