package pricesheet

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"craft-cost/core/catalog"
)

// Template renders a sheet pricing every material at its current price,
// in catalog order. A nil rate omits success_rate.
func Template(materials []*catalog.Material, rate *decimal.Decimal) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if rate != nil {
		body.SetAttributeValue("success_rate", cty.NumberVal(rate.BigFloat()))
		body.AppendNewline()
	}

	for i, m := range materials {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("price", []string{m.Name})
		block.Body().SetAttributeValue("value", cty.NumberIntVal(m.Price))
		if m.Source != "" {
			block.Body().SetAttributeValue("note", cty.StringVal(m.Source))
		}
	}
	return f.Bytes()
}

// WriteTemplate writes Template output to w
func WriteTemplate(w io.Writer, materials []*catalog.Material, rate *decimal.Decimal) error {
	_, err := w.Write(Template(materials, rate))
	return err
}
