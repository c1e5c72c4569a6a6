package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/catalog"
)

// RawLine is a cart entry as stored by the cart service: a product
// reference, the shopper's attribute selection at add-to-cart time, and a
// quantity that may be missing or garbage.
type RawLine struct {
	ID        string
	ProductID string
	Selection catalog.Selection
	Quantity  int
}

// Line is a priced cart entry ready for aggregation. Quantity is always at
// least 1 and UnitPrice is always defined.
type Line struct {
	ID        string
	ProductID string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity times unit price for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NormalizeQuantity clamps a raw quantity to the valid range. Zero,
// negative, and unset quantities all become 1; a cart line never rejects.
func NormalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// PriceLines resolves and prices raw cart lines against the given product
// snapshots. Lines whose product is absent from the snapshot map are
// skipped: per the read-interface contract, missing data means "no data",
// not a failure. PriceLines never returns an error.
func PriceLines(products map[string]*catalog.Product, raw []RawLine) []Line {
	lines := make([]Line, 0, len(raw))
	for _, rl := range raw {
		p, ok := products[rl.ProductID]
		if !ok {
			continue
		}
		v := catalog.Resolve(p.Variants, rl.Selection)
		line := Line{
			ID:        rl.ID,
			ProductID: rl.ProductID,
			Quantity:  NormalizeQuantity(rl.Quantity),
			UnitPrice: catalog.UnitPrice(p, v),
		}
		if v != nil {
			line.VariantID = v.ID
		}
		lines = append(lines, line)
	}
	return lines
}

// Repository reads the externally owned cart snapshot. An unknown user has
// an empty cart, not an error.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]RawLine, error)
}
