// Package output renders engine results for people and for machines.
// Nothing here computes costs; every number comes from the engine.
package output

import (
	"io"
	"sort"
	"strings"
	"time"

	"craft-cost/core/engine"
	"craft-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is the plain-text cost report
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", errors.Newf(errors.TypeInput, "unknown output format %q (want text or json)", name)
	}
}

// Options control presentation only
type Options struct {
	// Variant picks one half of dual-locale names
	Variant Variant

	// CurrencyLabel is appended to amounts, e.g. "G"
	CurrencyLabel string

	// GeneratedAt stamps the report; zero means time.Now()
	GeneratedAt time.Time
}

// DefaultOptions returns the stock presentation settings
func DefaultOptions() Options {
	return Options{Variant: VariantA, CurrencyLabel: "G"}
}

func (o Options) now() time.Time {
	if o.GeneratedAt.IsZero() {
		return time.Now()
	}
	return o.GeneratedAt
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes one estimate
	Render(w io.Writer, est *engine.Estimate) error
}

// Registry holds formatters by format
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with the text and JSON formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&TextFormatter{Options: opts})
	r.Register(&JSONFormatter{Options: opts})
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, bool) {
	f, ok := r.formatters[format]
	return f, ok
}

// Formats lists the registered formats, sorted
func (r *Registry) Formats() []Format {
	formats := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
