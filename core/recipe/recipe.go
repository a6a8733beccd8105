// Package recipe - Craftable products and their bills of materials.
// A recipe line points either at a catalog material (LeafLine) or at the
// output of another recipe (ComponentLine). Recipes are stored in an arena
// keyed by id so cyclic bills of materials stay representable.
package recipe

// Line is one material line of a recipe. It is either a LeafLine or a
// ComponentLine; the set is closed.
type Line interface {
	// RefID is the material id (leaf) or recipe id (component)
	RefID() string

	// DisplayName is the name the line was declared with
	DisplayName() string

	// Qty is the raw per-craft quantity, always > 0
	Qty() int64

	isLine()
}

// LeafLine consumes a catalog material
type LeafLine struct {
	MaterialID string `json:"id"`
	Quantity   int64  `json:"qty"`
	Name       string `json:"name"`
}

func (l LeafLine) RefID() string       { return l.MaterialID }
func (l LeafLine) DisplayName() string { return l.Name }
func (l LeafLine) Qty() int64          { return l.Quantity }
func (LeafLine) isLine()               {}

// ComponentLine consumes the output of another recipe
type ComponentLine struct {
	RecipeID string `json:"ref"`
	Quantity int64  `json:"qty"`
	Name     string `json:"name"`
}

func (l ComponentLine) RefID() string       { return l.RecipeID }
func (l ComponentLine) DisplayName() string { return l.Name }
func (l ComponentLine) Qty() int64          { return l.Quantity }
func (ComponentLine) isLine()               {}

// Recipe is a craftable product
type Recipe struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Level is the raw level label; LevelPrefix/LevelNum are parsed from it
	Level       string `json:"level"`
	LevelPrefix string `json:"-"`
	LevelNum    int    `json:"levelNum"`

	Profession string `json:"profession"`

	// Coefficient multiplies every line quantity; at least 1
	Coefficient int64 `json:"calculation_coefficient"`

	Lines []Line `json:"materials"`
}

// IsLeaf reports whether the recipe has no material lines
func (r *Recipe) IsLeaf() bool {
	return len(r.Lines) == 0
}

// Components returns the distinct recipe names this recipe uses as
// components, in line order.
func (r *Recipe) Components() []string {
	seen := make(map[string]bool)
	var names []string
	for _, line := range r.Lines {
		c, ok := line.(ComponentLine)
		if !ok || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	return names
}

// Set is the arena of recipes built in one pass
type Set struct {
	byID   map[string]*Recipe
	byName map[string]string
	order  []string

	// names is the full name-to-id index after building
	names map[string]string
}

func newSet() *Set {
	return &Set{
		byID:   make(map[string]*Recipe),
		byName: make(map[string]string),
	}
}

func (s *Set) put(r *Recipe) {
	if _, exists := s.byID[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.byID[r.ID] = r
	s.byName[r.Name] = r.ID
}

// Get returns a recipe by id
func (s *Set) Get(id string) (*Recipe, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Lookup returns the recipe with the given name
func (s *Set) Lookup(name string) (*Recipe, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.byID[id], true
}

// All returns recipes in input order (first appearance of each name)
func (s *Set) All() []*Recipe {
	result := make([]*Recipe, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// Len returns the number of recipes
func (s *Set) Len() int {
	return len(s.order)
}

// IDs returns a copy of the name-to-id assignment produced while building,
// covering materials, products and every referenced name.
func (s *Set) IDs() map[string]string {
	out := make(map[string]string, len(s.names))
	for k, v := range s.names {
		out[k] = v
	}
	return out
}
