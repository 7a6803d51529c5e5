// Package money converts between human readable amounts ("12.50") and the
// integer minor units used by the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of minor-unit digits (cents).
const Scale = 2

// MaxAmount bounds a single buy-in or final stack: 1,000,000.00.
const MaxAmount int64 = 100_000_000

// MaxBalance bounds the magnitude of one net balance accepted from callers:
// 10,000,000,000,000.00.
const MaxBalance int64 = 1_000_000_000_000_000

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrSubCent       = errors.New("amount has more than two decimal places")
	ErrOutOfRange    = errors.New("amount out of range")
)

var hundred = decimal.New(1, Scale)

// Parse converts a decimal string into minor units. It rejects values that
// would need rounding; a ledger built from rounded inputs may not balance.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q", ErrSubCent, s)
	}
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}

	return cents.IntPart(), nil
}

// ParseInRange parses s and checks the result lies in [lo, hi] minor units.
func ParseInRange(s string, lo, hi int64) (int64, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s not between %s and %s", ErrOutOfRange, Format(v), Format(lo), Format(hi))
	}
	return v, nil
}

// Format renders minor units with two decimal places, e.g. 1250 -> "12.50".
func Format(minor int64) string {
	return decimal.New(minor, -Scale).StringFixed(Scale)
}
