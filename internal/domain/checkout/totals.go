package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
)

// Totals holds the aggregated order amounts. All fields are non-negative;
// GrandTotal is floored at zero regardless of discount magnitude.
type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	GrandTotal  decimal.Decimal
}

// Aggregate computes order totals from priced cart lines, a shipping fee
// already looked up from the delivery option, and a discount amount already
// resolved by the discount collaborator (zero when no code is applied).
//
// It is a pure full recomputation: callers re-run it whenever any cart
// line, delivery option, or discount changes instead of patching a previous
// result. An empty cart yields a zero subtotal. Amounts are rounded to two
// decimal places.
func Aggregate(lines []cart.Line, shippingFee, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	grand := subtotal.Add(shippingFee).Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:    subtotal.Round(2),
		ShippingFee: shippingFee.Round(2),
		Discount:    discount.Round(2),
		GrandTotal:  grand.Round(2),
	}
}
