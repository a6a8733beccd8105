package table

import (
	"bytes"
	"context"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"craft-cost/core/types"
	"craft-cost/internal/errors"
	"craft-cost/internal/logging"
)

// Tables is the decoded content of both input tables
type Tables struct {
	Materials []types.MaterialRow
	Recipes   []types.RecipeRow

	// Encodings detected per table
	MaterialsEncoding string
	RecipesEncoding   string
}

// Load reads the material and recipe tables concurrently. Both must load
// for Load to succeed; the first failure cancels the other read.
func Load(ctx context.Context, materialsPath, recipesPath string, opts Options) (*Tables, error) {
	log := opts.logger()
	tables := &Tables{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, enc, err := readFile(ctx, materialsPath)
		if err != nil {
			return err
		}
		rows, err := ReadMaterials(bytes.NewReader(data), opts)
		if err != nil {
			return err
		}
		tables.Materials = rows
		tables.MaterialsEncoding = enc
		log.Debug("table loaded",
			logging.Table(MaterialsTable),
			zap.String("encoding", enc),
			zap.Int("rows", len(rows)))
		return nil
	})

	g.Go(func() error {
		data, enc, err := readFile(ctx, recipesPath)
		if err != nil {
			return err
		}
		rows, err := ReadRecipes(bytes.NewReader(data), opts)
		if err != nil {
			return err
		}
		tables.Recipes = rows
		tables.RecipesEncoding = enc
		log.Debug("table loaded",
			logging.Table(RecipesTable),
			zap.String("encoding", enc),
			zap.Int("rows", len(rows)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func readFile(ctx context.Context, path string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.NotFound("table", path)
		}
		return nil, "", errors.Wrapf(errors.TypeInput, err, "reading %s", path)
	}
	data, enc, err := Decode(raw)
	if err != nil {
		return nil, enc, err
	}
	return data, enc, nil
}
