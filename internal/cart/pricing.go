package cart

import "github.com/shopspring/decimal"

// Discount types for the sale-level discount.
const (
	DiscountNone    = ""
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Discount is a sale-level discount applied to the gross total.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// Totals is the pricing engine's output.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	// Net is the final charge: gross minus discount, floored at zero. A
	// discount may never invert the sale into a negative total.
	Net decimal.Decimal
}

// ComputeTotals prices the cart:
//
//	subtotal = Σ(unitPrice × qty − lineDiscount)
//	tax      = subtotal × taxRatePercent / 100
//	gross    = subtotal + tax
//	discount = percent ? gross × value/100 : value
//	net      = max(0, gross − discount)
//
// Pure given the current line data; no side effects.
func (c *Cart) ComputeTotals(taxRatePercent decimal.Decimal, d Discount) Totals {
	subtotal := decimal.Zero
	for _, l := range c.lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	hundred := decimal.NewFromInt(100)
	tax := subtotal.Mul(taxRatePercent).Div(hundred).Round(2)
	gross := subtotal.Add(tax)

	var discount decimal.Decimal
	switch d.Type {
	case DiscountPercent:
		discount = gross.Mul(d.Value).Div(hundred).Round(2)
	case DiscountFixed:
		discount = d.Value
	default:
		discount = decimal.Zero
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	net := gross.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		Gross:          gross,
		DiscountAmount: discount,
		Net:            net,
	}
}
