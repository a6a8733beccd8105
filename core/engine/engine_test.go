package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"craft-cost/core/graph"
	"craft-cost/core/types"
	"craft-cost/internal/errors"
)

func materials() []types.MaterialRow {
	return []types.MaterialRow{
		{Name: "铁矿石", Professions: "武器/防具/武器", Source: "采集", Price: "10"},
		{Name: "木材", Professions: "武器", Source: "", Price: "5"},
		{Name: "", Price: "99"},
	}
}

func recipeRow(profession, name, level, coefficient string, slots ...string) types.RecipeRow {
	r := types.RecipeRow{Profession: profession, Name: name, Level: level, Coefficient: coefficient}
	for i := 0; i+1 < len(slots); i += 2 {
		r.Slots[i/2] = types.Slot{Material: slots[i], Quantity: slots[i+1]}
	}
	return r
}

func recipes() []types.RecipeRow {
	return []types.RecipeRow{
		recipeRow("武器", "武器箱", "专业10", "1", "长剑", "1"),
		recipeRow("武器", "长剑", "入门5", "2", "铁矿石", "3"),
		recipeRow("防具", "木盾", "入门2", "1", "木材", "4", "铁矿石", "1"),
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := Build(materials(), recipes(), opts...)
	require.NoError(t, err)
	return e
}

func TestBuildRejectsEmptyTables(t *testing.T) {
	_, err := Build(nil, recipes())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = Build(materials(), []types.RecipeRow{{Name: "  "}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestDefaultSourceApplied(t *testing.T) {
	e := newTestEngine(t)
	m, ok := e.Catalog().Material("M002")
	require.True(t, ok)
	assert.Equal(t, "未知", m.Source)

	m, _ = e.Catalog().Material("M001")
	assert.Equal(t, []string{"武器", "防具"}, m.Professions)
}

func TestCostByNameAndID(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	byName, err := e.Cost(ctx, "武器箱", decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, byName.Total.Equal(decimal.NewFromInt(240)), "total = %s", byName.Total)
	assert.Equal(t, "武器箱", byName.Product.Name)

	byID, err := e.Cost(ctx, byName.Product.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, byID.Total.Equal(byName.Total))
}

func TestCostUnknownProduct(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Cost(context.Background(), "不存在", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestCostHonoursCancelledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Cost(ctx, "长剑", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetPriceChangesNextQuery(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.SetPrice("铁矿石", 20))
	est, err := e.Cost(ctx, "长剑", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, est.Total.Equal(decimal.NewFromInt(120)))

	require.NoError(t, e.SetPrice("M001", -5))
	est, err = e.Cost(ctx, "长剑", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, est.Total.IsZero())

	err = e.SetPrice("金币", 1)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestApplyPricesReportsUnmatched(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	e := newTestEngine(t, WithLogger(zap.New(core)))

	unmatched := e.ApplyPrices(map[string]int64{"木材": 7, "宝石": 100, "金币": 1})
	assert.Equal(t, []string{"宝石", "金币"}, unmatched)

	m, _ := e.Catalog().Material("M002")
	assert.Equal(t, int64(7), m.Price)
	assert.Equal(t, 2, logs.FilterMessage("price for unknown material ignored").Len())
}

func TestLogFieldsTagIDs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := newTestEngine(t, WithLogger(zap.New(core)))

	require.NoError(t, e.SetPrice("铁矿石", 12))
	set := logs.FilterMessage("price set").All()
	require.Len(t, set, 1)
	assert.Equal(t, "M001", set[0].ContextMap()["material_id"])

	est, err := e.Cost(context.Background(), "长剑", decimal.NewFromInt(100))
	require.NoError(t, err)
	computed := logs.FilterMessage("cost computed").All()
	require.Len(t, computed, 1)
	assert.Equal(t, est.Product.ID, computed[0].ContextMap()["product_id"])
}

func TestOrderedAndProducts(t *testing.T) {
	e := newTestEngine(t)

	var ordered []string
	for _, r := range e.Ordered() {
		ordered = append(ordered, r.Name)
	}
	assert.Equal(t, []string{"长剑", "木盾", "武器箱"}, ordered)
	assert.Empty(t, e.Cyclic())

	var products []string
	for _, r := range e.Products() {
		products = append(products, r.Name)
	}
	// 武 sorts before 防 by code point; 入门 before 专业 within a profession
	assert.Equal(t, []string{"长剑", "武器箱", "木盾"}, products)
	assert.Equal(t, []string{"武器", "防具"}, e.Professions())
}

func TestUsedMaterialsAndTree(t *testing.T) {
	e := newTestEngine(t)

	used, err := e.UsedMaterials("木盾")
	require.NoError(t, err)
	require.Len(t, used, 2)
	assert.Equal(t, "M001", used[0].ID)
	assert.Equal(t, "M002", used[1].ID)

	root, err := e.Tree(context.Background(), "武器箱", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "长剑", root.Children[0].Name)
	assert.True(t, root.Subtotal.Equal(decimal.NewFromInt(60)))

	_, err = e.UsedMaterials("nope")
	assert.Error(t, err)
}

func TestCyclesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rows := []types.RecipeRow{
		recipeRow("", "A", "", "1", "B", "1", "铁矿石", "1"),
		recipeRow("", "B", "", "1", "A", "1"),
	}
	e, err := Build(materials(), rows, WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, e.Cyclic())
	assert.Equal(t, 1, logs.FilterMessage("recipes caught in component cycles").Len())

	est, err := e.Cost(context.Background(), "A", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, est.Total.Equal(decimal.NewFromInt(10)))

	violations, err := e.Check(false)
	require.NoError(t, err)
	require.Len(t, violations, 2)
	assert.Equal(t, graph.RuleCycle, violations[0].Rule)
}
