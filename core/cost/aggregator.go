// Package cost - Recursive cost aggregation over recipe graphs.
// Every query recomputes from current catalog prices; nothing is memoised
// across calls. A per-path visited set cuts cycles: a product that would be
// revisited on the current path contributes nothing.
package cost

import (
	"github.com/shopspring/decimal"

	"craft-cost/core/catalog"
	"craft-cost/core/determinism"
	"craft-cost/core/recipe"
)

var (
	hundred = decimal.NewFromInt(100)

	// MinSuccessRate and MaxSuccessRate bound the success rate in percent
	MinSuccessRate = decimal.NewFromInt(1)
	MaxSuccessRate = hundred
)

// MaterialSource resolves material ids to priced materials
type MaterialSource interface {
	Material(id string) (*catalog.Material, bool)
}

// RecipeSource resolves recipe ids
type RecipeSource interface {
	Get(id string) (*recipe.Recipe, bool)
}

// Entry is one material of a flattened breakdown
type Entry struct {
	MaterialID string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"qty"`
	Cost       decimal.Decimal `json:"cost"`
}

// Breakdown maps material id to its accumulated quantity and cost
type Breakdown map[string]*Entry

func (b Breakdown) add(id, name string, qty, cost decimal.Decimal) {
	e, ok := b[id]
	if !ok {
		e = &Entry{MaterialID: id, Name: name}
		b[id] = e
	}
	e.Quantity = e.Quantity.Add(qty)
	e.Cost = e.Cost.Add(cost)
}

// Sorted returns the entries by cost, most expensive first; ties fall back
// to material id.
func (b Breakdown) Sorted() []*Entry {
	entries := make([]*Entry, 0, len(b))
	for _, id := range determinism.SortedKeys(b) {
		entries = append(entries, b[id])
	}
	determinism.SortSlice(entries, func(x, y *Entry) bool {
		return x.Cost.GreaterThan(y.Cost)
	})
	return entries
}

// Result is the answer to one cost query
type Result struct {
	ProductID string `json:"product_id"`

	// SuccessRate is the clamped rate actually used, in percent
	SuccessRate decimal.Decimal `json:"success_rate"`

	// RetryMultiplier is 100 / SuccessRate
	RetryMultiplier decimal.Decimal `json:"retry_multiplier"`

	Total     decimal.Decimal `json:"total"`
	Breakdown Breakdown       `json:"breakdown"`
}

// Share returns an entry's part of the total in percent, or zero when the
// total is zero.
func (r *Result) Share(e *Entry) decimal.Decimal {
	if r.Total.IsZero() {
		return decimal.Zero
	}
	return e.Cost.Div(r.Total).Mul(hundred)
}

// ClampSuccessRate bounds a success rate to [1, 100] percent
func ClampSuccessRate(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(MinSuccessRate) {
		return MinSuccessRate
	}
	if rate.GreaterThan(MaxSuccessRate) {
		return MaxSuccessRate
	}
	return rate
}

// RetryMultiplier is the expected material consumption factor at a success
// rate: 1 at 100%, 2 at 50%, 4 at 25%.
func RetryMultiplier(rate decimal.Decimal) decimal.Decimal {
	return hundred.Div(ClampSuccessRate(rate))
}

// Aggregator computes product costs from a catalog and a recipe arena
type Aggregator struct {
	materials MaterialSource
	recipes   RecipeSource
}

// NewAggregator creates an aggregator over the given sources
func NewAggregator(materials MaterialSource, recipes RecipeSource) *Aggregator {
	return &Aggregator{materials: materials, recipes: recipes}
}

// ComputeCost returns the total cost of one craft of productID and the
// per-material breakdown, at the given success rate in percent.
// Unknown products yield a zero result.
func (a *Aggregator) ComputeCost(productID string, successRate decimal.Decimal) *Result {
	rate := ClampSuccessRate(successRate)
	retry := RetryMultiplier(rate)

	total, breakdown := a.compute(productID, retry, make(map[string]bool))
	return &Result{
		ProductID:       productID,
		SuccessRate:     rate,
		RetryMultiplier: retry,
		Total:           total,
		Breakdown:       breakdown,
	}
}

func (a *Aggregator) compute(id string, retry decimal.Decimal, path map[string]bool) (decimal.Decimal, Breakdown) {
	total := decimal.Zero
	breakdown := make(Breakdown)

	if path[id] {
		return total, breakdown
	}
	r, ok := a.recipes.Get(id)
	if !ok {
		return total, breakdown
	}
	path[id] = true
	defer delete(path, id)

	mult := retry.Mul(decimal.NewFromInt(r.Coefficient))
	for _, line := range r.Lines {
		qty := decimal.NewFromInt(line.Qty()).Mul(mult)

		switch l := line.(type) {
		case recipe.LeafLine:
			m, ok := a.materials.Material(l.MaterialID)
			if !ok {
				continue
			}
			cost := decimal.NewFromInt(m.Price).Mul(qty)
			breakdown.add(m.ID, m.Name, qty, cost)
			total = total.Add(cost)

		case recipe.ComponentLine:
			subTotal, sub := a.compute(l.RecipeID, retry, path)
			total = total.Add(subTotal.Mul(qty))
			for subID, e := range sub {
				breakdown.add(subID, e.Name, e.Quantity.Mul(qty), e.Cost.Mul(qty))
			}
		}
	}
	return total, breakdown
}

// MaterialIDs returns the ids of every catalog material reachable from a
// product, sorted. Cycles are cut the same way ComputeCost cuts them.
func (a *Aggregator) MaterialIDs(productID string) []string {
	ids := make(map[string]bool)
	a.collect(productID, ids, make(map[string]bool))
	return determinism.SortedKeys(ids)
}

func (a *Aggregator) collect(id string, ids, path map[string]bool) {
	if path[id] {
		return
	}
	r, ok := a.recipes.Get(id)
	if !ok {
		return
	}
	path[id] = true
	defer delete(path, id)

	for _, line := range r.Lines {
		switch l := line.(type) {
		case recipe.LeafLine:
			if _, ok := a.materials.Material(l.MaterialID); ok {
				ids[l.MaterialID] = true
			}
		case recipe.ComponentLine:
			a.collect(l.RecipeID, ids, path)
		}
	}
}
