package cost

import (
	"github.com/shopspring/decimal"

	"craft-cost/core/recipe"
)

// NodeKind classifies tree nodes
type NodeKind string

const (
	// KindProduct is a crafted recipe output
	KindProduct NodeKind = "product"

	// KindMaterial is a catalog material
	KindMaterial NodeKind = "material"
)

// TreeNode is one node of an expanded bill of materials.
// Quantity is the effective amount needed for one craft of the root,
// retries and coefficients included. Subtotal is what that amount costs.
type TreeNode struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind NodeKind `json:"kind"`

	// Coefficient of the recipe; zero for materials
	Coefficient int64 `json:"coefficient,omitempty"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`

	// Truncated marks a product already being expanded higher up the path
	Truncated bool `json:"truncated,omitempty"`

	Children []*TreeNode `json:"children,omitempty"`
}

// Walk visits the node and its descendants depth-first. depth is 0 at the
// node Walk was called on.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(*TreeNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Tree expands productID into its bill of materials at the given success
// rate. The root subtotal equals ComputeCost's total for the same inputs.
// It reports false when productID is not a recipe.
func (a *Aggregator) Tree(productID string, successRate decimal.Decimal) (*TreeNode, bool) {
	r, ok := a.recipes.Get(productID)
	if !ok {
		return nil, false
	}
	retry := RetryMultiplier(successRate)
	root := a.expand(r, decimal.NewFromInt(1), retry, make(map[string]bool))
	return root, true
}

// expand builds the node for count crafts of r
func (a *Aggregator) expand(r *recipe.Recipe, count, retry decimal.Decimal, path map[string]bool) *TreeNode {
	node := &TreeNode{
		ID:          r.ID,
		Name:        r.Name,
		Kind:        KindProduct,
		Coefficient: r.Coefficient,
		Quantity:    count,
	}
	if path[r.ID] {
		node.Truncated = true
		return node
	}
	path[r.ID] = true
	defer delete(path, r.ID)

	mult := retry.Mul(decimal.NewFromInt(r.Coefficient)).Mul(count)
	for _, line := range r.Lines {
		qty := decimal.NewFromInt(line.Qty()).Mul(mult)

		var child *TreeNode
		switch l := line.(type) {
		case recipe.LeafLine:
			m, ok := a.materials.Material(l.MaterialID)
			if !ok {
				continue
			}
			price := decimal.NewFromInt(m.Price)
			child = &TreeNode{
				ID:        m.ID,
				Name:      m.Name,
				Kind:      KindMaterial,
				Quantity:  qty,
				UnitPrice: price,
				Subtotal:  price.Mul(qty),
			}
		case recipe.ComponentLine:
			sub, ok := a.recipes.Get(l.RecipeID)
			if !ok {
				continue
			}
			child = a.expand(sub, qty, retry, path)
		}
		node.Children = append(node.Children, child)
		node.Subtotal = node.Subtotal.Add(child.Subtotal)
	}

	if !count.IsZero() {
		node.UnitPrice = node.Subtotal.Div(count)
	}
	return node
}
