package order

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/checkout"
)

// Payload is the order-creation wire shape. Line entries carry only the
// product reference and quantity; prices are not re-sent per line because
// the aggregated totals are authoritative. PaymentMethod is present only
// for pay-on-delivery; its absence signals the online-gateway flow.
type Payload struct {
	User           string          `json:"user"`
	Products       []Item          `json:"products"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryOption string          `json:"deliveryOption"`
	Code           string          `json:"code,omitempty"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	PaymentMethod  string          `json:"paymentMethod,omitempty"`
}

// AssembleOptions carries the non-line inputs of payload assembly.
type AssembleOptions struct {
	DeliveryOption checkout.DeliveryOption
	DiscountCode   string
	PaymentKind    PaymentKind
}

// AssemblePayload builds the order-creation payload from the priced cart
// lines and aggregated totals.
func AssemblePayload(userID string, lines []cart.Line, totals checkout.Totals, opts AssembleOptions) Payload {
	products := make([]Item, len(lines))
	for i, l := range lines {
		products[i] = Item{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
		}
	}

	p := Payload{
		User:           userID,
		Products:       products,
		ShippingFee:    totals.ShippingFee,
		Discount:       totals.Discount,
		DeliveryOption: string(opts.DeliveryOption),
		Code:           opts.DiscountCode,
		SubTotal:       totals.Subtotal,
		GrandTotal:     totals.GrandTotal,
	}
	if opts.PaymentKind == PaymentCOD {
		p.PaymentMethod = string(PaymentCOD)
	}
	return p
}
