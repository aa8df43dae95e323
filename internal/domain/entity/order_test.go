package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCalculateTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Quantity: 3, DiscountPrice: 8.00, Subtotal: 24.00},
		},
		DeliveryFee: 2.00,
		ServiceFee:  1.00,
	}

	order.CalculateTotal()

	assert.InDelta(t, 24.00, order.Subtotal, 1e-9)
	assert.InDelta(t, 27.00, order.TotalAmount, 1e-9)
}

func TestOrderCalculateTotal_WithOrderLevelDiscount(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Subtotal: 50.00},
			{Subtotal: 30.00},
		},
		DeliveryFee:   5.00,
		ServiceFee:    2.00,
		TotalDiscount: 7.00,
	}

	order.CalculateTotal()

	assert.InDelta(t, 80.00, order.Subtotal, 1e-9)
	assert.InDelta(t, 80.00, order.TotalAmount, 1e-9)
}

func TestOrderCancel(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		status  OrderStatus
		wantErr bool
	}{
		{name: "pending payment", status: OrderPendingPayment},
		{name: "paid", status: OrderPaid},
		{name: "processing", status: OrderProcessing},
		{name: "shipped", status: OrderShipped},
		{name: "delivered", status: OrderDelivered, wantErr: true},
		{name: "cancelled", status: OrderCancelled, wantErr: true},
		{name: "refunded", status: OrderRefunded, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.status}

			err := order.Cancel("changed my mind", now)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrOrderNotCancellable)
				assert.Equal(t, tt.status, order.Status)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, OrderCancelled, order.Status)
			require.NotNil(t, order.CancelledAt)
			assert.Equal(t, "changed my mind", order.CancelReason)
		})
	}
}

func TestOrderRefundForCancellation(t *testing.T) {
	t.Run("unpaid order yields no refund", func(t *testing.T) {
		order := &Order{TotalAmount: 27.00}

		assert.Nil(t, order.RefundForCancellation())
	})

	t.Run("paid order yields full refund", func(t *testing.T) {
		paidAt := time.Now().Add(-time.Hour)
		order := &Order{TotalAmount: 27.00, PaymentMethod: "BANK_TRANSFER", PaidAt: &paidAt}

		refund := order.RefundForCancellation()

		require.NotNil(t, refund)
		assert.InDelta(t, 27.00, refund.Amount, 1e-9)
		assert.Equal(t, "BANK_TRANSFER", refund.Method)
		assert.Equal(t, 7, refund.EstimatedDays)
	})
}

func TestOrderSetStatus_StampsTimestamps(t *testing.T) {
	now := time.Now()

	order := &Order{Status: OrderPendingPayment}
	order.SetStatus(OrderPaid, now)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, now, *order.PaidAt)

	later := now.Add(time.Hour)
	order.SetStatus(OrderDelivered, later)
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, later, *order.DeliveredAt)

	// A second pass through PAID must not move the original stamp.
	order.SetStatus(OrderPaid, later)
	assert.Equal(t, now, *order.PaidAt)
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderCancelled.IsTerminal())
	assert.True(t, OrderDelivered.IsTerminal())
	assert.True(t, OrderRefunded.IsTerminal())
	assert.False(t, OrderPendingPayment.IsTerminal())
	assert.False(t, OrderPaid.IsTerminal())
	assert.False(t, OrderProcessing.IsTerminal())
	assert.False(t, OrderShipped.IsTerminal())
}
