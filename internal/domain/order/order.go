package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/checkout"
)

// PaymentKind selects the checkout flow.
type PaymentKind string

const (
	// PaymentOnline routes the shopper through the payment gateway.
	PaymentOnline PaymentKind = "online"
	// PaymentCOD is pay on delivery; no gateway session is created.
	PaymentCOD PaymentKind = "cod"
)

// Order statuses.
const (
	StatusPending = "pending"
	StatusPlaced  = "placed"
	StatusFailed  = "failed"
)

// Sentinel errors for order submission.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrSubmissionInFlight = errors.New("a submission for this cart is already in flight")
	ErrUnknownPaymentKind = errors.New("unknown payment kind")
)

// Item is a single order line: the product, the resolved variant when the
// shopper picked one, and the quantity. Per-line prices are intentionally
// absent; the order totals are authoritative.
type Item struct {
	ProductID string `json:"product"`
	VariantID string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Recipient is the delivery contact captured from the checkout form.
type Recipient struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is a persisted customer order with server-computed totals.
type Order struct {
	ID             string
	UserID         string
	Items          []Item
	SubTotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	Discount       decimal.Decimal
	GrandTotal     decimal.Decimal
	DeliveryOption checkout.DeliveryOption
	Recipient      Recipient
	DiscountCode   string
	PaymentMethod  string
	Status         string
	CreatedAt      time.Time
}

// Receipt is the outcome of a successful submission. GatewayURL is set only
// for online payment; the caller must redirect the shopper there before
// treating the flow as terminal.
type Receipt struct {
	OrderID      string
	Message      string
	GatewayURL   string
	DiscountNote string
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	GetByID(ctx context.Context, id string) (*Order, error)
}

// Gateway requests a hosted payment session for an assembled order payload
// and returns the redirect URL the shopper must visit.
type Gateway interface {
	CreateSession(ctx context.Context, orderID string, p Payload) (string, error)
}
