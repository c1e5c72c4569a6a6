package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported discount rule strategies.
type Type string

const (
	// TypePercentage applies a percentage-based discount to the subtotal.
	TypePercentage Type = "percentage"
	// TypeFixed applies a fixed monetary discount capped at the subtotal.
	TypeFixed Type = "fixed"
)

var (
	// ErrInvalidCode is returned when a code is not found or the cart does
	// not satisfy the rule's minimum item requirement.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrExpired is returned when a code is outside its valid time window.
	ErrExpired = errors.New("discount code expired")
	// ErrUsageLimit is returned when a code has exhausted its allowed uses.
	ErrUsageLimit = errors.New("discount code usage limit reached")
)

// Rule defines a discount code's behaviour and eligibility constraints.
type Rule struct {
	Code        string
	Type        Type
	Value       decimal.Decimal
	MinItems    int
	Description string
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	MaxUses     int
	Uses        int
}

// Resolved is the outcome of resolving a code: an absolute currency amount
// the totals aggregator consumes as-is, plus a display description.
type Resolved struct {
	Amount      decimal.Decimal
	Description string
}

// Repository provides lookup and mutation of discount rules.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	IncrementUses(ctx context.Context, code string) error
}

// Resolver turns an opaque code string into a resolved discount amount for
// a cart with the given subtotal and total item count. The totals engine
// never evaluates rules itself; it only consumes the resolved number.
//
// Resolve is read-only so callers can re-quote totals freely; a code's
// usage budget is spent through Consume, once per placed order.
type Resolver interface {
	Resolve(ctx context.Context, code string, subtotal decimal.Decimal, itemCount int) (*Resolved, error)
	Consume(ctx context.Context, code string) error
}
