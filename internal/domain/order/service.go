package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/catalog"
	"github.com/xenking/storefront-engine/internal/domain/checkout"
	"github.com/xenking/storefront-engine/internal/domain/discount"
)

// SubmitRequest holds the input for a single order submission attempt.
type SubmitRequest struct {
	UserID         string
	Recipient      Recipient
	DeliveryOption checkout.DeliveryOption
	DiscountCode   string
	PaymentKind    PaymentKind
}

// Service encapsulates order submission: it prices the cart from current
// catalog snapshots, aggregates totals server-side, persists the order, and
// drives the gateway exchange for online payment.
type Service struct {
	products  catalog.Repository
	carts     cart.Repository
	discounts discount.Resolver
	orders    Repository
	gateway   Gateway
	fees      checkout.FeeTable
	now       func() time.Time
}

// NewService creates an order Service with the required collaborators.
func NewService(
	products catalog.Repository,
	carts cart.Repository,
	discounts discount.Resolver,
	orders Repository,
	gateway Gateway,
	fees checkout.FeeTable,
) *Service {
	return &Service{
		products:  products,
		carts:     carts,
		discounts: discounts,
		orders:    orders,
		gateway:   gateway,
		fees:      fees,
		now:       time.Now,
	}
}

// Submit executes one submission attempt end to end.
//
// Totals are always recomputed here from the live cart and catalog, never
// trusted from the caller. An invalid or expired discount code does not
// block submission: the order proceeds with a zero discount and the reason
// is carried on the receipt for display. Gateway failures surface as typed
// errors and leave the order row in the failed state; no partial order is
// reported created.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Receipt, error) {
	switch req.PaymentKind {
	case PaymentOnline, PaymentCOD:
	default:
		return nil, errors.Wrapf(ErrUnknownPaymentKind, "%q", req.PaymentKind)
	}

	fee, err := s.fees.Fee(req.DeliveryOption)
	if err != nil {
		return nil, err
	}

	lines, err := s.pricedLines(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := decimal.Zero
	itemCount := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
		itemCount += l.Quantity
	}

	discountAmount := decimal.Zero
	discountNote := ""
	discountApplied := false
	if req.DiscountCode != "" {
		resolved, err := s.discounts.Resolve(ctx, req.DiscountCode, subtotal, itemCount)
		switch {
		case err == nil:
			discountAmount = resolved.Amount
			discountApplied = true
		case errors.Is(err, discount.ErrInvalidCode),
			errors.Is(err, discount.ErrExpired),
			errors.Is(err, discount.ErrUsageLimit):
			// Rejected codes reduce nothing but never block the order.
			discountNote = err.Error()
		default:
			return nil, errors.Wrap(err, "resolve discount")
		}
	}

	totals := checkout.Aggregate(lines, fee, discountAmount)

	p := AssemblePayload(req.UserID, lines, totals, AssembleOptions{
		DeliveryOption: req.DeliveryOption,
		DiscountCode:   req.DiscountCode,
		PaymentKind:    req.PaymentKind,
	})

	o := &Order{
		ID:             uuid.New().String(),
		UserID:         p.User,
		Items:          p.Products,
		SubTotal:       p.SubTotal,
		ShippingFee:    p.ShippingFee,
		Discount:       p.Discount,
		GrandTotal:     p.GrandTotal,
		DeliveryOption: req.DeliveryOption,
		Recipient:      req.Recipient,
		DiscountCode:   p.Code,
		PaymentMethod:  p.PaymentMethod,
		Status:         StatusPending,
		CreatedAt:      s.now(),
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if req.PaymentKind == PaymentCOD {
		if err := s.orders.UpdateStatus(ctx, o.ID, StatusPlaced); err != nil {
			return nil, errors.Wrap(err, "place order")
		}
		s.consumeDiscount(ctx, req.DiscountCode, discountApplied)
		return &Receipt{
			OrderID:      o.ID,
			Message:      "Order placed successfully",
			DiscountNote: discountNote,
		}, nil
	}

	redirectURL, err := s.gateway.CreateSession(ctx, o.ID, p)
	if err != nil {
		// Best effort: the submission already failed, keep that error even
		// if the status write fails too. The discount use stays unspent.
		_ = s.orders.UpdateStatus(ctx, o.ID, StatusFailed)
		return nil, err
	}

	s.consumeDiscount(ctx, req.DiscountCode, discountApplied)
	return &Receipt{
		OrderID:      o.ID,
		Message:      "Order created, redirecting to payment",
		GatewayURL:   redirectURL,
		DiscountNote: discountNote,
	}, nil
}

// consumeDiscount spends one use of the applied code once the order is
// terminal. The order is already placed at this point; a failed counter
// write must not undo it.
func (s *Service) consumeDiscount(ctx context.Context, code string, applied bool) {
	if !applied {
		return
	}
	_ = s.discounts.Consume(ctx, code)
}

// Quote prices the user's cart and aggregates totals without submitting.
// It backs the cart totals endpoint the storefront re-queries on every
// delivery or discount change.
func (s *Service) Quote(ctx context.Context, userID string, opt checkout.DeliveryOption, code string) ([]cart.Line, checkout.Totals, string, error) {
	fee, err := s.fees.Fee(opt)
	if err != nil {
		return nil, checkout.Totals{}, "", err
	}

	lines, err := s.pricedLines(ctx, userID)
	if err != nil {
		return nil, checkout.Totals{}, "", err
	}

	subtotal := decimal.Zero
	itemCount := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
		itemCount += l.Quantity
	}

	discountAmount := decimal.Zero
	discountNote := ""
	if code != "" {
		resolved, rerr := s.discounts.Resolve(ctx, code, subtotal, itemCount)
		switch {
		case rerr == nil:
			discountAmount = resolved.Amount
		case errors.Is(rerr, discount.ErrInvalidCode),
			errors.Is(rerr, discount.ErrExpired),
			errors.Is(rerr, discount.ErrUsageLimit):
			discountNote = rerr.Error()
		default:
			return nil, checkout.Totals{}, "", errors.Wrap(rerr, "resolve discount")
		}
	}

	return lines, checkout.Aggregate(lines, fee, discountAmount), discountNote, nil
}

// pricedLines loads the cart snapshot and prices every line against the
// current catalog. A missing cart yields no lines.
func (s *Service) pricedLines(ctx context.Context, userID string) ([]cart.Line, error) {
	raw, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]string, len(raw))
	for i, rl := range raw {
		ids[i] = rl.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	products := make(map[string]*catalog.Product, len(fetched))
	for i := range fetched {
		products[fetched[i].ID] = &fetched[i]
	}

	return cart.PriceLines(products, raw), nil
}
