// Package graph - Recipe graph health checks
// The engine tolerates all of these conditions silently; the checker
// surfaces them so table authors can fix their data.
package graph

import (
	"fmt"

	"craft-cost/core/catalog"
	"craft-cost/core/recipe"
)

// Rule names reported by the checker
const (
	RuleSelfReference   = "SELF_REFERENCE"
	RuleCycle           = "CYCLE"
	RuleUnknownMaterial = "UNKNOWN_MATERIAL"
	RuleUnpriced        = "UNPRICED_MATERIAL"
	RuleEmptyRecipe     = "EMPTY_RECIPE"
)

// Violation is one detected data problem
type Violation struct {
	Rule    string `json:"rule"`
	Recipe  string `json:"recipe"`
	Details string `json:"details"`
}

func (v *Violation) Error() string {
	return fmt.Sprintf("[%s] %s: %s", v.Rule, v.Recipe, v.Details)
}

// Checker inspects a recipe set against a catalog
type Checker struct {
	violations []Violation
	strictMode bool
}

// NewChecker creates a checker. In strict mode Run stops at the first
// violation and returns it.
func NewChecker(strictMode bool) *Checker {
	return &Checker{strictMode: strictMode}
}

func (c *Checker) fail(rule, recipeName, details string) error {
	v := Violation{Rule: rule, Recipe: recipeName, Details: details}
	c.violations = append(c.violations, v)
	if c.strictMode {
		return &v
	}
	return nil
}

// Violations returns all recorded violations in detection order
func (c *Checker) Violations() []Violation {
	return c.violations
}

// HasViolations returns true if any violations occurred
func (c *Checker) HasViolations() bool {
	return len(c.violations) > 0
}

// Run checks every recipe in input order, then reports the cyclic recipes
// of order, which must have been computed from set.
// Unpriced materials are reported once, at the first recipe using them.
func (c *Checker) Run(set *recipe.Set, cat *catalog.Catalog, order Ordering) error {
	reported := make(map[string]bool)

	for _, r := range set.All() {
		if r.IsLeaf() {
			if err := c.fail(RuleEmptyRecipe, r.Name, "recipe has no material lines"); err != nil {
				return err
			}
		}

		for _, line := range r.Lines {
			switch l := line.(type) {
			case recipe.ComponentLine:
				if l.RecipeID == r.ID {
					if err := c.fail(RuleSelfReference, r.Name, "recipe lists itself as a component"); err != nil {
						return err
					}
				}
			case recipe.LeafLine:
				m, ok := cat.Material(l.MaterialID)
				if !ok {
					if err := c.fail(RuleUnknownMaterial, r.Name,
						fmt.Sprintf("%q is neither a catalog material nor a recipe", l.Name)); err != nil {
						return err
					}
					continue
				}
				if m.Price == 0 && !reported[m.ID] {
					reported[m.ID] = true
					if err := c.fail(RuleUnpriced, r.Name,
						fmt.Sprintf("material %s (%s) has no price", m.ID, m.Name)); err != nil {
						return err
					}
				}
			}
		}
	}

	for _, name := range order.Cyclic {
		if err := c.fail(RuleCycle, name, "recipe is on or depends on a component cycle"); err != nil {
			return err
		}
	}
	return nil
}
