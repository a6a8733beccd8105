package recipe

import (
	"strings"

	"craft-cost/core/catalog"
	"craft-cost/core/types"
)

// BuildReport summarises what the builder dropped or could not resolve
type BuildReport struct {
	// SkippedRows counts rows with a blank product name
	SkippedRows int

	// SkippedLines counts slots with a name but no positive quantity
	SkippedLines int

	// DuplicateNames lists product names declared by more than one row
	DuplicateNames []string

	// UnknownMaterials lists leaf names absent from the catalog, in first-seen order
	UnknownMaterials []string
}

// Build turns recipe rows into a recipe set, resolving every line against
// the catalog and against the other recipes. Ids are assigned in row
// order, so identical input always yields identical ids.
func Build(rows []types.RecipeRow, cat *catalog.Catalog) (*Set, BuildReport) {
	var report BuildReport
	names := cat.NameIndex()

	// Every product name is known before any line is resolved, and owns an
	// id before any slot can mint one.
	products := make(map[string]bool)
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if products[name] {
			report.DuplicateNames = append(report.DuplicateNames, name)
		}
		products[name] = true
		names.Ensure(name)
	}

	set := newSet()
	unknown := make(map[string]bool)

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			report.SkippedRows++
			continue
		}

		lines := make([]Line, 0, types.MaxMaterialSlots)
		for _, slot := range row.Slots {
			slotName := strings.TrimSpace(slot.Material)
			if slotName == "" {
				continue
			}
			qty, ok := types.ParseCount(slot.Quantity)
			if !ok {
				report.SkippedLines++
				continue
			}

			id := names.Ensure(slotName)
			if products[slotName] {
				lines = append(lines, ComponentLine{RecipeID: id, Quantity: qty, Name: slotName})
				continue
			}
			if _, inCatalog := cat.Lookup(slotName); !inCatalog && !unknown[slotName] {
				unknown[slotName] = true
				report.UnknownMaterials = append(report.UnknownMaterials, slotName)
			}
			lines = append(lines, LeafLine{MaterialID: id, Quantity: qty, Name: slotName})
		}

		level := strings.TrimSpace(row.Level)
		prefix, num := ParseLevel(level)

		id, _ := names.Lookup(name)
		set.put(&Recipe{
			ID:          id,
			Name:        name,
			Level:       level,
			LevelPrefix: prefix,
			LevelNum:    num,
			Profession:  strings.TrimSpace(row.Profession),
			Coefficient: parseCoefficient(row.Coefficient),
			Lines:       lines,
		})
	}

	set.names = names.Snapshot()
	return set, report
}

// parseCoefficient floors non-positive or unparsable coefficients to 1
func parseCoefficient(raw string) int64 {
	if n, ok := types.ParseCount(raw); ok {
		return n
	}
	return 1
}
