package output

import (
	"strings"

	"golang.org/x/text/width"
)

// Variant selects one half of a dual-locale name "A/B"
type Variant string

const (
	// VariantA is the part before the slash
	VariantA Variant = "A"

	// VariantB is the part after the slash
	VariantB Variant = "B"
)

// ParseVariant accepts "a"/"b" in any case; anything else is A
func ParseVariant(s string) Variant {
	if strings.EqualFold(strings.TrimSpace(s), string(VariantB)) {
		return VariantB
	}
	return VariantA
}

// LocalizedName returns the variant's half of a "A/B" name. Names
// without a slash are shared by both variants and come back trimmed.
func LocalizedName(raw string, v Variant) string {
	first, second, ok := strings.Cut(raw, "/")
	if !ok {
		return strings.TrimSpace(raw)
	}
	if v == VariantB {
		// anything after a second slash is dropped
		return strings.TrimSpace(strings.SplitN(second, "/", 2)[0])
	}
	return strings.TrimSpace(first)
}

// displayWidth counts terminal columns: wide and fullwidth runes take two
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// padRight pads s with spaces to n columns
func padRight(s string, n int) string {
	if w := displayWidth(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// padLeft right-aligns s in n columns
func padLeft(s string, n int) string {
	if w := displayWidth(s); w < n {
		return strings.Repeat(" ", n-w) + s
	}
	return s
}
