// Package catalog - Material catalog and the shared name-to-id index.
// Materials are leaf resources; every material gets a stable id in
// first-seen order and a mutable unit price.
package catalog

import (
	"fmt"
	"strings"

	"craft-cost/core/types"
)

// Material is a leaf resource that can be bought, dropped or gathered
type Material struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Professions that use this material, deduplicated
	Professions []string `json:"professions"`

	Source string `json:"source"`

	// Price is the unit price; never negative
	Price int64 `json:"price"`
}

// Catalog holds the materials of one computation pass
type Catalog struct {
	materials map[string]*Material
	byName    map[string]string
	order     []string
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		materials: make(map[string]*Material),
		byName:    make(map[string]string),
	}
}

// FromRows builds a catalog from raw material rows in input order.
// Rows with a blank name are skipped; a blank source becomes defaultSource.
func FromRows(rows []types.MaterialRow, defaultSource string) *Catalog {
	c := New()
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		source := strings.TrimSpace(row.Source)
		if source == "" {
			source = defaultSource
		}
		c.Register(name, SplitProfessions(row.Professions), source, types.ParseInt(row.Price, 0))
	}
	return c
}

// Register adds a material and returns its id. Ids are M001, M002, ...
// in first-seen order. Registering a known name replaces the stored record
// but keeps the id assigned the first time.
func (c *Catalog) Register(name string, professions []string, source string, price int64) string {
	id, exists := c.byName[name]
	if !exists {
		id = fmt.Sprintf("M%03d", len(c.order)+1)
		c.byName[name] = id
		c.order = append(c.order, id)
	}
	c.materials[id] = &Material{
		ID:          id,
		Name:        name,
		Professions: dedupe(professions),
		Source:      source,
		Price:       clampPrice(price),
	}
	return id
}

// Lookup returns the id registered for a material name
func (c *Catalog) Lookup(name string) (string, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Material returns a material by id
func (c *Catalog) Material(id string) (*Material, bool) {
	m, ok := c.materials[id]
	return m, ok
}

// Materials returns all materials in registration order
func (c *Catalog) Materials() []*Material {
	result := make([]*Material, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.materials[id])
	}
	return result
}

// Len returns the number of materials
func (c *Catalog) Len() int {
	return len(c.order)
}

// SetPrice overwrites the unit price of a material. Negative prices are
// stored as 0. It reports whether the id is known.
func (c *Catalog) SetPrice(id string, price int64) bool {
	m, ok := c.materials[id]
	if !ok {
		return false
	}
	m.Price = clampPrice(price)
	return true
}

// ApplyPrices sets prices by material name and returns the names that
// matched no material, in the order given by names.
func (c *Catalog) ApplyPrices(prices map[string]int64, names []string) []string {
	var unmatched []string
	for _, name := range names {
		price, ok := prices[name]
		if !ok {
			continue
		}
		id, ok := c.byName[name]
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		c.SetPrice(id, price)
	}
	return unmatched
}

// NameIndex returns a fresh name-to-id index seeded with every material
func (c *Catalog) NameIndex() *NameIndex {
	idx := NewNameIndex()
	for _, id := range c.order {
		idx.Assign(c.materials[id].Name, id)
	}
	return idx
}

// SplitProfessions splits a raw "/"-delimited profession cell
func SplitProfessions(raw string) []string {
	var result []string
	for _, p := range strings.Split(raw, "/") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return dedupe(result)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

func clampPrice(price int64) int64 {
	if price < 0 {
		return 0
	}
	return price
}
