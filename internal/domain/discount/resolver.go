package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RepoResolver implements Resolver by looking up rules from a Repository
// and applying them to the cart subtotal.
type RepoResolver struct {
	repo Repository
	now  func() time.Time
}

// NewRepoResolver creates a RepoResolver backed by the given Repository.
func NewRepoResolver(repo Repository) *RepoResolver {
	return &RepoResolver{repo: repo, now: time.Now}
}

// Resolve looks up the rule for the given code, checks temporal validity,
// usage limits, and the minimum item requirement, and applies it to the
// subtotal. It never mutates the rule; identical inputs yield identical
// results no matter how often totals are re-quoted.
func (r *RepoResolver) Resolve(ctx context.Context, code string, subtotal decimal.Decimal, itemCount int) (*Resolved, error) {
	rule, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		return nil, errors.Wrap(err, "lookup discount rule")
	}

	now := r.now()

	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return nil, ErrExpired
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return nil, ErrExpired
	}

	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrUsageLimit
	}

	res, err := Apply(rule, subtotal, itemCount)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// Consume spends one use of the code's budget. Called once per placed
// order, never during quoting.
func (r *RepoResolver) Consume(ctx context.Context, code string) error {
	if err := r.repo.IncrementUses(ctx, code); err != nil {
		return errors.Wrap(err, "increment discount uses")
	}
	return nil
}

// Apply calculates the discount amount for the given rule and cart
// subtotal. It returns ErrInvalidCode when the cart does not satisfy the
// rule's minimum item count requirement.
func Apply(rule *Rule, subtotal decimal.Decimal, itemCount int) (Resolved, error) {
	if rule.MinItems > 0 && itemCount < rule.MinItems {
		return Resolved{}, ErrInvalidCode
	}

	var amount decimal.Decimal
	switch rule.Type {
	case TypePercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
	case TypeFixed:
		amount = decimal.Min(rule.Value, subtotal)
	default:
		return Resolved{}, errors.Errorf("unsupported discount type: %q", rule.Type)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return Resolved{
		Amount:      amount.Round(2),
		Description: rule.Description,
	}, nil
}
