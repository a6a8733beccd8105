// Package types defines the row shapes exchanged between ingestion and the engine.
// This package contains NO business logic - only type definitions and field parsing.
package types

import "fmt"

// MaxMaterialSlots is the number of material/quantity column pairs in a recipe row
const MaxMaterialSlots = 9

// MaterialRow is one raw material record as read from the material table.
// Every field is kept as the raw cell text; the catalog parses it.
type MaterialRow struct {
	// Name may carry two locale variants separated by "/"
	Name string `json:"name"`

	// Professions is the raw "/"-delimited profession list
	Professions string `json:"professions"`

	// Source is free-text provenance (shop, drop, gathered ...)
	Source string `json:"source"`

	// Price is the raw unit price cell
	Price string `json:"price"`
}

// Slot is one material/quantity pair of a recipe row
type Slot struct {
	Material string `json:"material"`
	Quantity string `json:"quantity"`
}

// RecipeRow is one bill-of-materials record as read from the recipe table
type RecipeRow struct {
	Profession  string                 `json:"profession"`
	Name        string                 `json:"name"`
	Level       string                 `json:"level"`
	Coefficient string                 `json:"coefficient"`
	Slots       [MaxMaterialSlots]Slot `json:"slots"`
}

// Columns names the table headers for each logical field
type Columns struct {
	MaterialName        string `json:"material_name" yaml:"material_name"`
	MaterialProfessions string `json:"material_professions" yaml:"material_professions"`
	MaterialSource      string `json:"material_source" yaml:"material_source"`
	MaterialPrice       string `json:"material_price" yaml:"material_price"`

	RecipeProfession  string `json:"recipe_profession" yaml:"recipe_profession"`
	RecipeName        string `json:"recipe_name" yaml:"recipe_name"`
	RecipeLevel       string `json:"recipe_level" yaml:"recipe_level"`
	RecipeCoefficient string `json:"recipe_coefficient" yaml:"recipe_coefficient"`

	// SlotMaterialPrefix and SlotQuantityPrefix are suffixed with 1..9
	SlotMaterialPrefix string `json:"slot_material_prefix" yaml:"slot_material_prefix"`
	SlotQuantityPrefix string `json:"slot_quantity_prefix" yaml:"slot_quantity_prefix"`
}

// DefaultColumns returns the headers used by the stock spreadsheets
func DefaultColumns() Columns {
	return Columns{
		MaterialName:        "原料名称",
		MaterialProfessions: "制作职业",
		MaterialSource:      "来源",
		MaterialPrice:       "单价",

		RecipeProfession:  "制作职业",
		RecipeName:        "名称",
		RecipeLevel:       "需求等级",
		RecipeCoefficient: "计算系数",

		SlotMaterialPrefix: "材料",
		SlotQuantityPrefix: "数量",
	}
}

// SlotMaterial returns the header of material slot i (1-based)
func (c Columns) SlotMaterial(i int) string {
	return fmt.Sprintf("%s%d", c.SlotMaterialPrefix, i)
}

// SlotQuantity returns the header of quantity slot i (1-based)
func (c Columns) SlotQuantity(i int) string {
	return fmt.Sprintf("%s%d", c.SlotQuantityPrefix, i)
}

// MaterialHeaders lists the headers a material table must carry
func (c Columns) MaterialHeaders() []string {
	return []string{c.MaterialName, c.MaterialProfessions, c.MaterialSource, c.MaterialPrice}
}

// RecipeHeaders lists the headers a recipe table must carry
func (c Columns) RecipeHeaders() []string {
	headers := []string{c.RecipeProfession, c.RecipeName, c.RecipeLevel, c.RecipeCoefficient}
	for i := 1; i <= MaxMaterialSlots; i++ {
		headers = append(headers, c.SlotMaterial(i), c.SlotQuantity(i))
	}
	return headers
}
