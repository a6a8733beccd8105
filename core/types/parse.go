package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the decimal exponent accepted in a cell. Anything
// larger is outside int64 already, and rescaling it costs 10^exp.
const maxExponent = 18

// ParseInt reads a spreadsheet number cell as an integer.
// Fractional values are truncated toward zero ("2.9" -> 2); blank,
// unparsable or out-of-range text yields def.
func ParseInt(raw string, def int64) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return def
	}
	n, ok := Whole(d)
	if !ok {
		return def
	}
	return n
}

// Whole truncates d toward zero. ok is false when the result does not fit
// in an int64.
func Whole(d decimal.Decimal) (n int64, ok bool) {
	if d.IsZero() {
		return 0, true
	}

	exp := d.Exponent()
	if exp > maxExponent {
		return 0, false
	}
	// fewer digits than the negative exponent: |d| < 1
	digits := len(strings.TrimPrefix(d.Coefficient().String(), "-"))
	if exp < 0 && int(-exp) >= digits {
		return 0, true
	}

	b := d.BigInt()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

// ParseCount reads a quantity or coefficient cell. ok is false when the
// cell is blank, unparsable, out of range or not strictly positive.
func ParseCount(raw string) (n int64, ok bool) {
	n = ParseInt(raw, 0)
	return n, n > 0
}
