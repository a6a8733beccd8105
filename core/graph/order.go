// Package graph - Recipe dependency ordering
// Produces a deterministic emission order in which every component is
// listed before the products that consume it. Cycles are tolerated.
package graph

import (
	"craft-cost/core/recipe"
)

// DependencyGraph links product names to the component names they require
type DependencyGraph struct {
	// Nodes in first-seen order
	nodes []string
	known map[string]bool

	// Forward edges (product → components it requires), deduplicated
	requires map[string][]string

	// Reverse edges (component → products that use it)
	dependents map[string][]string
}

// NewDependencyGraph creates an empty graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		known:      make(map[string]bool),
		requires:   make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// AddNode adds a node; adding a known node does nothing
func (g *DependencyGraph) AddNode(name string) {
	if g.known[name] {
		return
	}
	g.known[name] = true
	g.nodes = append(g.nodes, name)
}

// AddDependency records that product requires component. Both nodes are
// created on demand and repeated edges are ignored.
func (g *DependencyGraph) AddDependency(product, component string) {
	g.AddNode(product)
	g.AddNode(component)
	for _, existing := range g.requires[product] {
		if existing == component {
			return
		}
	}
	g.requires[product] = append(g.requires[product], component)
	g.dependents[component] = append(g.dependents[component], product)
}

// Requires returns the components a product depends on
func (g *DependencyGraph) Requires(name string) []string {
	return g.requires[name]
}

// Dependents returns the products that use a component
func (g *DependencyGraph) Dependents(name string) []string {
	return g.dependents[name]
}

// Size returns the number of nodes
func (g *DependencyGraph) Size() int {
	return len(g.nodes)
}

// Resolve runs Kahn's algorithm. Nodes whose dependencies are all resolved
// are released in FIFO order, seeded in node order. It returns the resolved
// nodes and, separately, the nodes that never became ready because they sit
// on or behind a cycle.
func (g *DependencyGraph) Resolve() (resolved, unresolved []string) {
	remaining := make(map[string]int, len(g.nodes))
	queue := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		remaining[n] = len(g.requires[n])
		if remaining[n] == 0 {
			queue = append(queue, n)
		}
	}

	done := make(map[string]bool, len(g.nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		done[cur] = true
		resolved = append(resolved, cur)

		for _, d := range g.dependents[cur] {
			remaining[d]--
			if remaining[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	for _, n := range g.nodes {
		if !done[n] {
			unresolved = append(unresolved, n)
		}
	}
	return resolved, unresolved
}

// Ordering is the emission order of a recipe set
type Ordering struct {
	// Recipes lists every recipe exactly once
	Recipes []*recipe.Recipe

	// Cyclic names the recipes that could not be placed after their
	// components; they trail Recipes in input order.
	Cyclic []string
}

// OrderRecipes orders recipes so that components come before the products
// using them. Recipes caught in a cycle, or depending on one, are appended
// afterwards in input order.
func OrderRecipes(set *recipe.Set) Ordering {
	g := NewDependencyGraph()
	all := set.All()
	for _, r := range all {
		g.AddNode(r.Name)
		for _, c := range r.Components() {
			g.AddDependency(r.Name, c)
		}
	}

	resolved, _ := g.Resolve()

	var ord Ordering
	emitted := make(map[string]bool, len(all))
	for _, name := range resolved {
		r, ok := set.Lookup(name)
		if !ok {
			continue
		}
		emitted[name] = true
		ord.Recipes = append(ord.Recipes, r)
	}
	for _, r := range all {
		if emitted[r.Name] {
			continue
		}
		ord.Cyclic = append(ord.Cyclic, r.Name)
		ord.Recipes = append(ord.Recipes, r)
	}
	return ord
}
