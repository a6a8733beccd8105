package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craft-cost/core/catalog"
	"craft-cost/core/recipe"
	"craft-cost/core/types"
)

func rr(name, coefficient string, slots ...string) types.RecipeRow {
	r := types.RecipeRow{Name: name, Coefficient: coefficient}
	for i := 0; i+1 < len(slots); i += 2 {
		r.Slots[i/2] = types.Slot{Material: slots[i], Quantity: slots[i+1]}
	}
	return r
}

type fixture struct {
	catalog *catalog.Catalog
	set     *recipe.Set
	agg     *Aggregator
}

func newFixture(t *testing.T, rows ...types.RecipeRow) *fixture {
	t.Helper()
	c := catalog.New()
	c.Register("iron", nil, "", 10)
	c.Register("wood", nil, "", 5)
	set, _ := recipe.Build(rows, c)
	return &fixture{catalog: c, set: set, agg: NewAggregator(c, set)}
}

func (f *fixture) id(t *testing.T, name string) string {
	t.Helper()
	r, ok := f.set.Lookup(name)
	require.True(t, ok, "recipe %s not built", name)
	return r.ID
}

func pct(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestSwordAtFullSuccess(t *testing.T) {
	f := newFixture(t, rr("Sword", "2", "iron", "3"))

	res := f.agg.ComputeCost(f.id(t, "Sword"), pct(100))

	assert.True(t, res.Total.Equal(pct(60)), "total = %s", res.Total)
	require.Contains(t, res.Breakdown, "M001")
	assert.True(t, res.Breakdown["M001"].Quantity.Equal(pct(6)))
	assert.True(t, res.RetryMultiplier.Equal(pct(1)))
}

func TestWeaponCaseAtHalfSuccess(t *testing.T) {
	f := newFixture(t,
		rr("Weapon Case", "1", "Sword", "1"),
		rr("Sword", "2", "iron", "3"),
	)

	res := f.agg.ComputeCost(f.id(t, "Weapon Case"), pct(50))

	assert.True(t, res.Total.Equal(pct(240)), "total = %s", res.Total)
	require.Len(t, res.Breakdown, 1)
	e := res.Breakdown["M001"]
	require.NotNil(t, e)
	assert.Equal(t, "iron", e.Name)
	assert.True(t, e.Quantity.Equal(pct(24)), "qty = %s", e.Quantity)
	assert.True(t, e.Cost.Equal(pct(240)), "cost = %s", e.Cost)
}

func TestLeafRecipeCostsNothing(t *testing.T) {
	f := newFixture(t, rr("Empty", "1"))

	res := f.agg.ComputeCost(f.id(t, "Empty"), pct(100))
	assert.True(t, res.Total.IsZero())
	assert.Empty(t, res.Breakdown)
}

func TestUnknownProductIsZero(t *testing.T) {
	f := newFixture(t, rr("Sword", "2", "iron", "3"))

	res := f.agg.ComputeCost("COMP9999", pct(100))
	assert.True(t, res.Total.IsZero())
	assert.Empty(t, res.Breakdown)
}

func TestLeafOnlyTotalIsSumOfLines(t *testing.T) {
	f := newFixture(t, rr("Box", "3", "iron", "2", "wood", "4", "iron", "1"))

	res := f.agg.ComputeCost(f.id(t, "Box"), pct(100))

	// (10*2 + 5*4 + 10*1) * 3
	assert.True(t, res.Total.Equal(pct(150)), "total = %s", res.Total)
	assert.True(t, res.Breakdown["M001"].Quantity.Equal(pct(9)))
	assert.True(t, res.Breakdown["M002"].Cost.Equal(pct(60)))
}

func TestLowerSuccessRateNeverCostsLess(t *testing.T) {
	f := newFixture(t,
		rr("Case", "1", "Sword", "2", "wood", "1"),
		rr("Sword", "2", "iron", "3"),
	)
	id := f.id(t, "Case")

	prev := f.agg.ComputeCost(id, pct(100)).Total
	for _, rate := range []int64{90, 75, 50, 33, 25, 10, 1} {
		cur := f.agg.ComputeCost(id, pct(rate)).Total
		assert.True(t, cur.GreaterThanOrEqual(prev), "rate %d: %s < %s", rate, cur, prev)
		prev = cur
	}
}

func TestSuccessRateIsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   decimal.Decimal
		want decimal.Decimal
	}{
		{"below range", pct(0), pct(1)},
		{"negative", pct(-20), pct(1)},
		{"above range", pct(250), pct(100)},
		{"in range", pct(40), pct(40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ClampSuccessRate(tt.in).Equal(tt.want))
		})
	}

	assert.True(t, RetryMultiplier(pct(25)).Equal(pct(4)))
	assert.True(t, RetryMultiplier(pct(0)).Equal(pct(100)))
}

func TestCycleTerminates(t *testing.T) {
	f := newFixture(t,
		rr("A", "1", "B", "1", "iron", "1"),
		rr("B", "1", "A", "1", "wood", "2"),
	)

	res := f.agg.ComputeCost(f.id(t, "A"), pct(100))

	// A = iron + B, B = 2 wood + (A on path → 0)
	assert.True(t, res.Total.Equal(pct(20)), "total = %s", res.Total)
	assert.False(t, res.Total.IsNegative())
	assert.ElementsMatch(t, []string{"M001", "M002"}, f.agg.MaterialIDs(f.id(t, "A")))
}

func TestPricesAreReadAtCallTime(t *testing.T) {
	f := newFixture(t, rr("Sword", "2", "iron", "3"))
	id := f.id(t, "Sword")

	before := f.agg.ComputeCost(id, pct(100)).Total
	require.True(t, f.catalog.SetPrice("M001", 20))
	after := f.agg.ComputeCost(id, pct(100)).Total

	assert.True(t, before.Equal(pct(60)))
	assert.True(t, after.Equal(pct(120)))
}

func TestBreakdownSorted(t *testing.T) {
	f := newFixture(t, rr("Box", "1", "wood", "1", "iron", "1", "Glue", "1"))
	res := f.agg.ComputeCost(f.id(t, "Box"), pct(100))

	entries := res.Breakdown.Sorted()
	require.Len(t, entries, 2)
	assert.Equal(t, "M001", entries[0].MaterialID)
	assert.Equal(t, "M002", entries[1].MaterialID)
	assert.True(t, res.Share(entries[0]).Round(2).Equal(decimal.RequireFromString("66.67")))
}

func TestMaterialIDsSkipsUnknownNames(t *testing.T) {
	f := newFixture(t,
		rr("Case", "1", "Sword", "1", "gem", "1"),
		rr("Sword", "2", "iron", "3"),
	)
	assert.Equal(t, []string{"M001"}, f.agg.MaterialIDs(f.id(t, "Case")))
	assert.Empty(t, f.agg.MaterialIDs("nope"))
}

func TestTreeMatchesComputeCost(t *testing.T) {
	f := newFixture(t,
		rr("Case", "1", "Sword", "2", "wood", "1"),
		rr("Sword", "2", "iron", "3"),
	)
	id := f.id(t, "Case")

	root, ok := f.agg.Tree(id, pct(50))
	require.True(t, ok)

	total := f.agg.ComputeCost(id, pct(50)).Total
	assert.True(t, root.Subtotal.Equal(total), "tree %s vs cost %s", root.Subtotal, total)

	require.Len(t, root.Children, 2)
	sword := root.Children[0]
	assert.Equal(t, KindProduct, sword.Kind)
	// 2 swords per case at 50% → 4 crafts
	assert.True(t, sword.Quantity.Equal(pct(4)), "sword qty = %s", sword.Quantity)

	require.Len(t, sword.Children, 1)
	iron := sword.Children[0]
	// 3 iron * 4 crafts * retry 2 * coefficient 2
	assert.True(t, iron.Quantity.Equal(pct(48)), "iron qty = %s", iron.Quantity)
	assert.True(t, iron.Subtotal.Equal(pct(480)))

	depths := 0
	root.Walk(func(_ *TreeNode, depth int) {
		if depth > depths {
			depths = depth
		}
	})
	assert.Equal(t, 2, depths)
}

func TestTreeTruncatesCycles(t *testing.T) {
	f := newFixture(t,
		rr("A", "1", "B", "1", "iron", "1"),
		rr("B", "1", "A", "1", "wood", "2"),
	)

	root, ok := f.agg.Tree(f.id(t, "A"), pct(100))
	require.True(t, ok)

	var truncated []string
	root.Walk(func(n *TreeNode, _ int) {
		if n.Truncated {
			truncated = append(truncated, n.Name)
		}
	})
	assert.Equal(t, []string{"A"}, truncated)
	assert.True(t, root.Subtotal.Equal(pct(20)))

	_, ok = f.agg.Tree("M001", pct(100))
	assert.False(t, ok)
}
