package graph

import (
	"testing"

	"craft-cost/core/catalog"
	"craft-cost/core/recipe"
	"craft-cost/core/types"
)

func buildSet(t *testing.T, rows ...types.RecipeRow) *recipe.Set {
	t.Helper()
	c := catalog.New()
	c.Register("ore", nil, "", 1)
	set, _ := recipe.Build(rows, c)
	return set
}

func rr(name string, slots ...string) types.RecipeRow {
	r := types.RecipeRow{Name: name, Coefficient: "1"}
	for i := 0; i+1 < len(slots); i += 2 {
		r.Slots[i/2] = types.Slot{Material: slots[i], Quantity: slots[i+1]}
	}
	return r
}

func names(recipes []*recipe.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func position(order []string) map[string]int {
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	return pos
}

// TestComponentsComeFirst checks that every component precedes its consumer
func TestComponentsComeFirst(t *testing.T) {
	set := buildSet(t,
		rr("case", "sword", "1", "shield", "2"),
		rr("sword", "blade", "1", "hilt", "1"),
		rr("shield", "ore", "4"),
		rr("blade", "ore", "2"),
		rr("hilt", "ore", "1"),
	)

	ord := OrderRecipes(set)
	if len(ord.Cyclic) != 0 {
		t.Fatalf("expected no cyclic recipes, got %v", ord.Cyclic)
	}
	order := names(ord.Recipes)
	if len(order) != 5 {
		t.Fatalf("expected 5 recipes, got %v", order)
	}

	pos := position(order)
	for _, r := range set.All() {
		for _, c := range r.Components() {
			if pos[c] >= pos[r.Name] {
				t.Errorf("%s (at %d) must come before %s (at %d)", c, pos[c], r.Name, pos[r.Name])
			}
		}
	}

	// Seeds are released in input order
	want := []string{"shield", "blade", "hilt", "sword", "case"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s (full order %v)", i, want[i], order[i], order)
		}
	}
}

func TestCyclesAreAppendedInInputOrder(t *testing.T) {
	set := buildSet(t,
		rr("top", "a", "1"),
		rr("a", "b", "1"),
		rr("free", "ore", "1"),
		rr("b", "a", "1"),
		rr("self", "self", "1"),
	)

	ord := OrderRecipes(set)
	order := names(ord.Recipes)

	want := []string{"free", "top", "a", "b", "self"}
	if len(order) != len(want) {
		t.Fatalf("expected %d recipes, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}

	wantCyclic := []string{"top", "a", "b", "self"}
	if len(ord.Cyclic) != len(wantCyclic) {
		t.Fatalf("expected cyclic %v, got %v", wantCyclic, ord.Cyclic)
	}
	for i := range wantCyclic {
		if ord.Cyclic[i] != wantCyclic[i] {
			t.Errorf("cyclic %d: expected %s, got %s", i, wantCyclic[i], ord.Cyclic[i])
		}
	}
}

func TestEveryRecipeAppearsOnce(t *testing.T) {
	set := buildSet(t,
		rr("x", "y", "1", "y", "2"),
		rr("y", "z", "1"),
		rr("z", "x", "1"),
		rr("w", "ore", "1"),
	)

	ord := OrderRecipes(set)
	seen := make(map[string]int)
	for _, r := range ord.Recipes {
		seen[r.Name]++
	}
	for _, r := range set.All() {
		if seen[r.Name] != 1 {
			t.Errorf("%s appears %d times", r.Name, seen[r.Name])
		}
	}
}

func TestDependencyGraphDeduplicatesEdges(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("p", "c")
	g.AddDependency("p", "c")
	g.AddNode("p")

	if g.Size() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Size())
	}
	if len(g.Requires("p")) != 1 || len(g.Dependents("c")) != 1 {
		t.Errorf("expected single edge, got requires=%v dependents=%v", g.Requires("p"), g.Dependents("c"))
	}

	resolved, unresolved := g.Resolve()
	if len(unresolved) != 0 || len(resolved) != 2 || resolved[0] != "c" {
		t.Errorf("unexpected resolution: resolved=%v unresolved=%v", resolved, unresolved)
	}
}
