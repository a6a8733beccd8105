package pricesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"craft-cost/core/types"
)

const maxBinaryExponent = 128

// numberValue converts an evaluated attribute to a decimal.
// Unknown values are rejected before anything else is inspected; numeric
// strings such as "12" are accepted the same way spreadsheet cells are.
func numberValue(val cty.Value) (decimal.Decimal, error) {
	if !val.IsKnown() {
		return decimal.Zero, fmt.Errorf("value is not known")
	}
	if val.IsNull() {
		return decimal.Zero, fmt.Errorf("value is null")
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expected a number, got %s", val.Type().FriendlyName())
	}

	bf := num.AsBigFloat()
	if bf.IsInf() {
		return decimal.Zero, fmt.Errorf("value is infinite")
	}
	// decimal conversion is linear in the binary exponent
	switch exp := bf.MantExp(nil); {
	case exp > maxBinaryExponent:
		return decimal.Zero, fmt.Errorf("value is out of range")
	case exp < -maxBinaryExponent:
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(bf.Text('g', -1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrepresentable number: %w", err)
	}
	return d, nil
}

// wholeNumber converts an evaluated attribute to an integer, truncating
// any fractional part toward zero.
func wholeNumber(val cty.Value) (int64, error) {
	d, err := numberValue(val)
	if err != nil {
		return 0, err
	}
	n, ok := types.Whole(d)
	if !ok {
		return 0, fmt.Errorf("%s is out of range", d.String())
	}
	return n, nil
}
