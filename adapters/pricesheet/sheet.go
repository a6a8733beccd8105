// Package pricesheet reads and writes HCL price override files.
//
//	success_rate = 80
//
//	price "铁矿石" {
//	  value = 12
//	}
//
// Prices are keyed by material name so a sheet survives id reassignment
// when the material table is reordered.
package pricesheet

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"craft-cost/internal/errors"
)

// Sheet is a decoded price file
type Sheet struct {
	// Prices maps material name to unit price
	Prices map[string]int64

	// Names lists the priced materials in declaration order
	Names []string

	// SuccessRate is the optional default rate in percent
	SuccessRate *decimal.Decimal

	// Filename the sheet was read from
	Filename string
}

type hclSheetFile struct {
	SuccessRate hcl.Expression `hcl:"success_rate,optional"`
	Prices      []*hclPrice    `hcl:"price,block"`
}

type hclPrice struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
	Note  string         `hcl:"note,optional"`
}

// Load reads a sheet from disk
func Load(path string) (*Sheet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("price sheet", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "reading %s", path)
	}
	return Parse(src, path)
}

// Parse decodes sheet source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Sheet, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("failed to parse price sheet "+filename, diags)
	}

	var parsed hclSheetFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, errors.Parsing("failed to decode price sheet "+filename, diags)
	}

	sheet := &Sheet{
		Prices:   make(map[string]int64, len(parsed.Prices)),
		Filename: filename,
	}

	var all hcl.Diagnostics
	declared := make(map[string]*hcl.Range)
	for _, p := range parsed.Prices {
		rng := p.Value.Range()
		if prev, dup := declared[p.Name]; dup {
			all = append(all, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate price block",
				Detail:   fmt.Sprintf("A price for %q was already declared at %s.", p.Name, prev),
				Subject:  &rng,
			})
			continue
		}
		declared[p.Name] = &rng

		val, diags := p.Value.Value(nil)
		if diags.HasErrors() {
			all = append(all, diags...)
			continue
		}
		price, err := wholeNumber(val)
		if err != nil {
			all = append(all, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid price",
				Detail:   fmt.Sprintf("Price for %q: %s.", p.Name, err),
				Subject:  &rng,
			})
			continue
		}
		sheet.Prices[p.Name] = price
		sheet.Names = append(sheet.Names, p.Name)
	}

	if rate, diags := decodeSuccessRate(parsed.SuccessRate); diags.HasErrors() {
		all = append(all, diags...)
	} else {
		sheet.SuccessRate = rate
	}

	if all.HasErrors() {
		return nil, errors.Parsing("invalid price sheet "+filename, all)
	}
	return sheet, nil
}

// decodeSuccessRate evaluates the optional top-level rate. An absent
// attribute decodes to a null value and yields nil.
func decodeSuccessRate(expr hcl.Expression) (*decimal.Decimal, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	rate, err := numberValue(val)
	if err != nil {
		rng := expr.Range()
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid success_rate",
			Detail:   err.Error() + ".",
			Subject:  &rng,
		}}
	}
	return &rate, nil
}
