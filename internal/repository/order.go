package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront-engine/internal/domain/checkout"
	"github.com/xenking/storefront-engine/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, user_id, items, sub_total, shipping_fee, discount, grand_total,
		 delivery_option, recipient, discount_code, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	getOrderByIDSQL = `SELECT id, user_id, items, sub_total, shipping_fee, discount,
		grand_total, delivery_option, recipient, discount_code, payment_method, status, created_at
		FROM orders WHERE id = $1`
)

// ErrOrderNotFound is returned when a requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Order
// items are serialized to JSON for the JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}
	recipientJSON, err := json.Marshal(o.Recipient)
	if err != nil {
		return fmt.Errorf("marshaling order recipient: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.SubTotal, o.ShippingFee, o.Discount,
		o.GrandTotal, string(o.DeliveryOption), recipientJSON, o.DiscountCode,
		o.PaymentMethod, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// UpdateStatus transitions an order to a new status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o              order.Order
		itemsRaw       []byte
		recipientRaw   []byte
		deliveryOption string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &itemsRaw, &o.SubTotal, &o.ShippingFee, &o.Discount,
		&o.GrandTotal, &deliveryOption, &recipientRaw, &o.DiscountCode,
		&o.PaymentMethod, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}

	o.DeliveryOption = checkout.DeliveryOption(deliveryOption)
	if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
		return o, fmt.Errorf("decoding items for order %q: %w", o.ID, err)
	}
	if err := json.Unmarshal(recipientRaw, &o.Recipient); err != nil {
		return o, fmt.Errorf("decoding recipient for order %q: %w", o.ID, err)
	}
	return o, nil
}
