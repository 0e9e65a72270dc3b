package products

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errNotNumber = errors.New("not a number")
	errNegative  = errors.New("negative")
	errTooLarge  = errors.New("too large")
)

// maxAmount bounds cents and stock to the INT columns they are stored in.
const maxAmount = math.MaxInt32

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(maxAmount)
)

// ParseCents reads an admin-typed price ("12", "12.5", "12.499") into cents,
// rounding half away from zero. Blank means 0.
func ParseCents(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errNotNumber
	}
	if d.IsNegative() {
		return 0, errNegative
	}
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, errTooLarge
	}
	return int(cents.IntPart()), nil
}

// FormatCents is the inverse of ParseCents: 1250 -> "12.50".
func FormatCents(cents int) string {
	return decimal.New(int64(cents), -2).StringFixed(2)
}

func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotNumber
	}
	if n < 0 {
		return 0, errNegative
	}
	if n > maxAmount {
		return 0, errTooLarge
	}
	return n, nil
}
