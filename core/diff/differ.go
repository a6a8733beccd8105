// Package diff provides material-level cost diffing.
// Compares two cost results for the same product, typically before and
// after a price change or at two success rates.
package diff

import (
	"github.com/shopspring/decimal"

	"craft-cost/core/cost"
	"craft-cost/core/determinism"
)

// ChangeType indicates the type of change
type ChangeType int

const (
	ChangeAdded     ChangeType = iota // Material newly consumed
	ChangeRemoved                     // Material no longer consumed
	ChangeModified                    // Material cost changed
	ChangeUnchanged                   // No cost change
)

// String returns the change type name
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	case ChangeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// MaterialDiff describes changes to one breakdown entry
type MaterialDiff struct {
	MaterialID string
	Name       string
	ChangeType ChangeType

	// Before and After are nil when the material is absent on that side
	Before *cost.Entry
	After  *cost.Entry

	CostDelta     decimal.Decimal
	QuantityDelta decimal.Decimal

	// PriceChanged is set when the implied unit price differs; otherwise
	// the change came from quantities (success rate or recipe edits).
	PriceChanged bool
}

// Result is the complete diff between two cost results
type Result struct {
	TotalBefore  decimal.Decimal
	TotalAfter   decimal.Decimal
	TotalDelta   decimal.Decimal
	DeltaPercent decimal.Decimal

	Added     []*MaterialDiff
	Removed   []*MaterialDiff
	Changed   []*MaterialDiff
	Unchanged []*MaterialDiff
}

// HasChanges reports whether anything beyond Unchanged was found
func (r *Result) HasChanges() bool {
	return len(r.Added)+len(r.Removed)+len(r.Changed) > 0
}

// Differ computes diffs between cost results
type Differ struct {
	// Threshold below which a relative cost change counts as unchanged,
	// e.g. 0.001 = 0.1%
	ChangeThreshold decimal.Decimal
}

// NewDiffer creates a new differ; a non-positive threshold means exact
// comparison.
func NewDiffer(changeThreshold decimal.Decimal) *Differ {
	if changeThreshold.IsNegative() {
		changeThreshold = decimal.Zero
	}
	return &Differ{ChangeThreshold: changeThreshold}
}

var hundred = decimal.NewFromInt(100)

// Diff computes the diff between before and after. Every list is sorted
// by material id.
func (d *Differ) Diff(before, after *cost.Result) *Result {
	result := &Result{
		TotalBefore: before.Total,
		TotalAfter:  after.Total,
		TotalDelta:  after.Total.Sub(before.Total),
	}
	if !before.Total.IsZero() {
		result.DeltaPercent = result.TotalDelta.Div(before.Total).Mul(hundred)
	}

	for _, id := range determinism.SortedKeys(after.Breakdown) {
		a := after.Breakdown[id]
		b, existed := before.Breakdown[id]
		if !existed {
			result.Added = append(result.Added, &MaterialDiff{
				MaterialID:    id,
				Name:          a.Name,
				ChangeType:    ChangeAdded,
				After:         a,
				CostDelta:     a.Cost,
				QuantityDelta: a.Quantity,
			})
			continue
		}

		md := d.compare(b, a)
		if md.ChangeType == ChangeModified {
			result.Changed = append(result.Changed, md)
		} else {
			result.Unchanged = append(result.Unchanged, md)
		}
	}

	for _, id := range determinism.SortedKeys(before.Breakdown) {
		if _, exists := after.Breakdown[id]; exists {
			continue
		}
		b := before.Breakdown[id]
		result.Removed = append(result.Removed, &MaterialDiff{
			MaterialID:    id,
			Name:          b.Name,
			ChangeType:    ChangeRemoved,
			Before:        b,
			CostDelta:     b.Cost.Neg(),
			QuantityDelta: b.Quantity.Neg(),
		})
	}
	return result
}

func (d *Differ) compare(before, after *cost.Entry) *MaterialDiff {
	md := &MaterialDiff{
		MaterialID:    after.MaterialID,
		Name:          after.Name,
		Before:        before,
		After:         after,
		CostDelta:     after.Cost.Sub(before.Cost),
		QuantityDelta: after.Quantity.Sub(before.Quantity),
		ChangeType:    ChangeUnchanged,
	}

	if md.CostDelta.IsZero() && md.QuantityDelta.IsZero() {
		return md
	}
	if !before.Cost.IsZero() && md.QuantityDelta.IsZero() &&
		md.CostDelta.Div(before.Cost).Abs().LessThanOrEqual(d.ChangeThreshold) {
		return md
	}

	md.ChangeType = ChangeModified
	md.PriceChanged = !unitPrice(before).Equal(unitPrice(after))
	return md
}

func unitPrice(e *cost.Entry) decimal.Decimal {
	if e.Quantity.IsZero() {
		return decimal.Zero
	}
	return e.Cost.Div(e.Quantity)
}
