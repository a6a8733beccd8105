package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"craft-cost/core/catalog"
	"craft-cost/core/determinism"
	"craft-cost/core/engine"
	"craft-cost/core/recipe"
	"craft-cost/internal/errors"
)

// Snapshot is a self-contained export of one computation pass: every
// material with its current price and every recipe in emission order.
type Snapshot struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	// ContentHash covers Materials and Recipes only, so two exports of the
	// same data at the same prices share a hash.
	ContentHash string `json:"content_hash"`

	Materials []*catalog.Material `json:"materials"`
	Recipes   []*recipe.Recipe    `json:"recipes"`
	Cyclic    []string            `json:"cyclic,omitempty"`
}

type snapshotContent struct {
	Materials []*catalog.Material `json:"materials"`
	Recipes   []*recipe.Recipe    `json:"recipes"`
}

// NewSnapshot captures the engine's catalog and ordered recipes
func NewSnapshot(e *engine.Engine, opts Options) (*Snapshot, error) {
	content := snapshotContent{
		Materials: e.Catalog().Materials(),
		Recipes:   e.Ordered(),
	}
	data, err := json.Marshal(content)
	if err != nil {
		return nil, errors.Internal("encoding snapshot content", err)
	}

	return &Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: opts.now().UTC(),
		ContentHash: determinism.ComputeHash(data).Hex(),
		Materials:   content.Materials,
		Recipes:     content.Recipes,
		Cyclic:      e.Cyclic(),
	}, nil
}

// WriteJSON writes the snapshot as indented JSON
func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}
