package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-engine/internal/domain/cart"
)

func line(price int64, qty int) cart.Line {
	return cart.Line{UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name         string
		lines        []cart.Line
		shippingFee  int64
		discount     int64
		wantSubtotal int64
		wantGrand    int64
	}{
		{
			name:         "empty cart yields zero subtotal",
			lines:        nil,
			shippingFee:  5,
			wantSubtotal: 0,
			wantGrand:    5,
		},
		{
			name:         "subtotal sums price times quantity",
			lines:        []cart.Line{line(10, 2), line(5, 1)},
			shippingFee:  5,
			wantSubtotal: 25,
			wantGrand:    30,
		},
		{
			name:         "discount reduces grand total",
			lines:        []cart.Line{line(10, 2), line(5, 1)},
			shippingFee:  5,
			discount:     10,
			wantSubtotal: 25,
			wantGrand:    20,
		},
		{
			name:         "oversized discount clamps grand total to zero",
			lines:        []cart.Line{line(10, 2), line(5, 1)},
			shippingFee:  5,
			discount:     40,
			wantSubtotal: 25,
			wantGrand:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.lines,
				decimal.NewFromInt(tt.shippingFee),
				decimal.NewFromInt(tt.discount))

			assert.True(t, decimal.NewFromInt(tt.wantSubtotal).Equal(got.Subtotal),
				"subtotal: want %d, got %s", tt.wantSubtotal, got.Subtotal)
			assert.True(t, decimal.NewFromInt(tt.shippingFee).Equal(got.ShippingFee))
			assert.True(t, decimal.NewFromInt(tt.discount).Equal(got.Discount))
			assert.True(t, decimal.NewFromInt(tt.wantGrand).Equal(got.GrandTotal),
				"grand total: want %d, got %s", tt.wantGrand, got.GrandTotal)
			assert.False(t, got.GrandTotal.IsNegative())
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	lines := []cart.Line{line(10, 2), line(5, 3)}
	fee := decimal.NewFromInt(7)
	discount := decimal.NewFromInt(4)

	first := Aggregate(lines, fee, discount)
	second := Aggregate(lines, fee, discount)
	assert.Equal(t, first, second)
}

func TestParseDeliveryOption(t *testing.T) {
	opt, err := ParseDeliveryOption("insideZone")
	require.NoError(t, err)
	assert.Equal(t, DeliveryInsideZone, opt)

	opt, err = ParseDeliveryOption("outsideZone")
	require.NoError(t, err)
	assert.Equal(t, DeliveryOutsideZone, opt)

	_, err = ParseDeliveryOption("sameDay")
	assert.ErrorIs(t, err, ErrUnknownDeliveryOption)
}

func TestFeeTable(t *testing.T) {
	table := FeeTable{
		InsideZone:  decimal.NewFromInt(5),
		OutsideZone: decimal.NewFromInt(12),
	}

	fee, err := table.Fee(DeliveryInsideZone)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(fee))

	fee, err = table.Fee(DeliveryOutsideZone)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(fee))

	_, err = table.Fee(DeliveryOption("unknown"))
	assert.ErrorIs(t, err, ErrUnknownDeliveryOption)
}
