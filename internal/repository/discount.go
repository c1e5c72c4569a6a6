package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront-engine/internal/domain/discount"
)

const (
	findRuleSQL = `SELECT code, discount_type, value, min_items, description,
		valid_from, valid_until, max_uses, uses
		FROM discount_rules WHERE code = $1`

	incrementUsesSQL = `UPDATE discount_rules SET uses = uses + 1 WHERE code = $1`
)

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// FindByCode returns the rule for a code, or discount.ErrInvalidCode when
// no such code exists.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Rule, error) {
	rows, err := r.pool.Query(ctx, findRuleSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding discount rule %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrInvalidCode
		}
		return nil, fmt.Errorf("finding discount rule %q: %w", code, err)
	}
	return &rule, nil
}

// IncrementUses bumps the usage counter for a code.
func (r *DiscountRepository) IncrementUses(ctx context.Context, code string) error {
	if _, err := r.pool.Exec(ctx, incrementUsesSQL, code); err != nil {
		return fmt.Errorf("incrementing uses for %q: %w", code, err)
	}
	return nil
}

func scanRule(row pgx.CollectableRow) (discount.Rule, error) {
	var (
		rule     discount.Rule
		ruleType string
	)
	err := row.Scan(
		&rule.Code, &ruleType, &rule.Value, &rule.MinItems, &rule.Description,
		&rule.ValidFrom, &rule.ValidUntil, &rule.MaxUses, &rule.Uses,
	)
	rule.Type = discount.Type(ruleType)
	return rule, err
}
