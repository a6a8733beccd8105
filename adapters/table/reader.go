package table

import (
	"encoding/csv"
	"io"
	"strings"

	"go.uber.org/zap"

	"craft-cost/core/types"
	"craft-cost/internal/errors"
)

// Table names used in errors and logs
const (
	MaterialsTable = "materials"
	RecipesTable   = "recipes"
)

// Options controls how tables are read
type Options struct {
	// Columns names the headers of both tables
	Columns types.Columns

	// Delimiter separates fields; zero means ','
	Delimiter rune

	// Logger receives ingestion events; nil discards them
	Logger *zap.Logger
}

// DefaultOptions returns options for the stock spreadsheets
func DefaultOptions() Options {
	return Options{
		Columns:   types.DefaultColumns(),
		Delimiter: ',',
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// sheet is a header-indexed view over CSV records
type sheet struct {
	index   map[string]int
	records [][]string
}

func readSheet(r io.Reader, table string, delimiter rune, required []string) (*sheet, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Parsing("malformed "+table+" table", err)
	}
	if len(records) == 0 {
		return nil, errors.EmptyTable(table)
	}

	s := &sheet{index: make(map[string]int, len(records[0])), records: records[1:]}
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if _, dup := s.index[h]; !dup {
			s.index[h] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := s.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.MissingColumns(table, missing)
	}
	if len(s.records) == 0 {
		return nil, errors.EmptyTable(table)
	}
	return s, nil
}

// cell returns the trimmed value of column col in record, or "" when the
// record is short.
func (s *sheet) cell(record []string, col string) string {
	i, ok := s.index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadMaterials parses a UTF-8 material table
func ReadMaterials(r io.Reader, opts Options) ([]types.MaterialRow, error) {
	cols := opts.Columns
	s, err := readSheet(r, MaterialsTable, opts.Delimiter, cols.MaterialHeaders())
	if err != nil {
		return nil, err
	}

	rows := make([]types.MaterialRow, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, types.MaterialRow{
			Name:        s.cell(rec, cols.MaterialName),
			Professions: s.cell(rec, cols.MaterialProfessions),
			Source:      s.cell(rec, cols.MaterialSource),
			Price:       s.cell(rec, cols.MaterialPrice),
		})
	}
	return rows, nil
}

// ReadRecipes parses a UTF-8 recipe table. All nine material/quantity
// column pairs must be present even when unused.
func ReadRecipes(r io.Reader, opts Options) ([]types.RecipeRow, error) {
	cols := opts.Columns
	s, err := readSheet(r, RecipesTable, opts.Delimiter, cols.RecipeHeaders())
	if err != nil {
		return nil, err
	}

	rows := make([]types.RecipeRow, 0, len(s.records))
	for _, rec := range s.records {
		row := types.RecipeRow{
			Profession:  s.cell(rec, cols.RecipeProfession),
			Name:        s.cell(rec, cols.RecipeName),
			Level:       s.cell(rec, cols.RecipeLevel),
			Coefficient: s.cell(rec, cols.RecipeCoefficient),
		}
		for i := range row.Slots {
			row.Slots[i] = types.Slot{
				Material: s.cell(rec, cols.SlotMaterial(i+1)),
				Quantity: s.cell(rec, cols.SlotQuantity(i+1)),
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
