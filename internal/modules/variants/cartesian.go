package variants

// Cartesian expands axes into every combination, aligned to axis order.
// Axis 0 varies slowest. Zero axes yield nil.
func Cartesian(axes [][]string) [][]string {
	if len(axes) == 0 {
		return nil
	}

	combos := make([][]string, 0, len(axes[0]))
	for _, v := range axes[0] {
		combos = append(combos, []string{v})
	}

	for _, axis := range axes[1:] {
		next := make([][]string, 0, len(combos)*len(axis))
		for _, c := range combos {
			for _, v := range axis {
				combo := make([]string, len(c), len(c)+1)
				copy(combo, c)
				next = append(next, append(combo, v))
			}
		}
		combos = next
	}
	return combos
}
