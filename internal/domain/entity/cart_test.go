package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{Quantity: 3, DiscountPrice: 8.00, Subtotal: 24.00, IsSelected: true},
			{Quantity: 2, DiscountPrice: 5.00, Subtotal: 10.00, IsSelected: false},
			{Quantity: 1, DiscountPrice: 4.50, Subtotal: 4.50, IsSelected: true},
		},
	}

	// Three lines count as three items no matter how many units each holds.
	assert.Equal(t, 3, cart.TotalItems())
	assert.InDelta(t, 38.50, cart.GrandTotal(), 1e-9)
	assert.InDelta(t, 28.50, cart.SelectedItemsTotal(), 1e-9)
	assert.Len(t, cart.SelectedItems(), 2)
}

func TestCartTotals_Empty(t *testing.T) {
	cart := &Cart{}

	assert.Equal(t, 0, cart.TotalItems())
	assert.InDelta(t, 0, cart.GrandTotal(), 1e-9)
	assert.InDelta(t, 0, cart.SelectedItemsTotal(), 1e-9)
	assert.Empty(t, cart.SelectedItems())
}

func TestCartItemRecalculate(t *testing.T) {
	item := &CartItem{Quantity: 4, DiscountPrice: 2.25, Subtotal: 0}

	item.Recalculate()

	assert.InDelta(t, 9.00, item.Subtotal, 1e-9)
}
