package catalog

import "github.com/shopspring/decimal"

// UnitPrice returns the effective unit price for a product given the
// resolved variant, which may be nil.
//
// Fallback order: variant selling price, then the product's offer price
// when it is strictly positive, then the product's selling price. A zero or
// negative offer price means "no offer" and never wins over the selling
// price. UnitPrice always returns a defined price; a resolution miss is not
// an error.
func UnitPrice(p *Product, v *Variant) decimal.Decimal {
	if v != nil {
		return v.SellingPrice
	}
	if p.OfferPrice.IsPositive() {
		return p.OfferPrice
	}
	return p.SellingPrice
}

// DisplayImage returns the image to present for the current resolution:
// the variant's override when set, else the product's main image.
func DisplayImage(p *Product, v *Variant) string {
	if v != nil && v.Image != "" {
		return v.Image
	}
	return p.MainImage
}
