package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/catalog"
)

const listCartLinesSQL = `SELECT id, product_id, selection, quantity
	FROM cart_lines WHERE user_id = $1 ORDER BY created_at, id`

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository reads cart snapshots from PostgreSQL. The cart is owned by
// the external cart service; this repository only reads it for pricing.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// ListByUser returns the user's cart lines in insertion order. An unknown
// user yields an empty slice.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]cart.RawLine, error) {
	rows, err := r.pool.Query(ctx, listCartLinesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanCartLine)
}

func scanCartLine(row pgx.CollectableRow) (cart.RawLine, error) {
	var (
		l            cart.RawLine
		selectionRaw []byte
	)
	if err := row.Scan(&l.ID, &l.ProductID, &selectionRaw, &l.Quantity); err != nil {
		return l, err
	}

	selection := catalog.Selection{}
	if err := json.Unmarshal(selectionRaw, &selection); err != nil {
		return l, fmt.Errorf("decoding selection for cart line %q: %w", l.ID, err)
	}
	if len(selection) > 0 {
		l.Selection = selection
	}
	return l, nil
}
