package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"craft-cost/core/cost"
	"craft-cost/core/diff"
)

// RenderDiff writes a price comparison: one line per added, removed or
// changed material, then the before and after totals.
func RenderDiff(w io.Writer, product string, d *diff.Result, opts Options) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "成本对比: %s\n", LocalizedName(product, opts.Variant))
	fmt.Fprintln(bw, ruleLine)

	if !d.HasChanges() {
		fmt.Fprintln(bw, "无变化")
	}
	for _, group := range [][]*diff.MaterialDiff{d.Added, d.Removed, d.Changed} {
		for _, md := range group {
			fmt.Fprintf(bw, "%s %s %s -> %s  (%s)\n",
				diffMarker(md.ChangeType),
				padRight(LocalizedName(md.Name, opts.Variant), 22),
				padLeft(entryCost(md.Before), 10),
				padLeft(entryCost(md.After), 10),
				signed(md.CostDelta))
		}
	}

	fmt.Fprintln(bw, ruleLine)
	fmt.Fprintf(bw, "总成本: %s%s -> %s%s  (%s, %s%%)\n",
		d.TotalBefore.StringFixed(0), opts.CurrencyLabel,
		d.TotalAfter.StringFixed(0), opts.CurrencyLabel,
		signed(d.TotalDelta),
		d.DeltaPercent.StringFixed(1))
	return bw.Flush()
}

func diffMarker(c diff.ChangeType) string {
	switch c {
	case diff.ChangeAdded:
		return "+"
	case diff.ChangeRemoved:
		return "-"
	default:
		return "~"
	}
}

func entryCost(e *cost.Entry) string {
	if e == nil {
		return "-"
	}
	return e.Cost.StringFixed(0)
}

func signed(v decimal.Decimal) string {
	if v.IsPositive() {
		return "+" + v.StringFixed(0)
	}
	return v.StringFixed(0)
}
