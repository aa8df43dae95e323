// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line inside a user's cart.
// Prices are snapshotted when the line is created or merged, so the cart keeps
// the price the buyer saw even if the listing changes afterwards.
type CartItem struct {
	ID            uuid.UUID // The unique ID for this cart line.
	CartID        uuid.UUID // Links this line to its cart.
	ProductID     uuid.UUID // The product this line refers to. Unique per cart.
	Quantity      int       // Units of the product in the cart.
	UnitPrice     float64   // The product's base unit price at snapshot time.
	DiscountPrice float64   // The effective unit price after the winning discount at snapshot time.
	Subtotal      float64   // DiscountPrice multiplied by Quantity.
	IsSelected    bool      // Whether this line participates in checkout.
	Notes         string    // Free-form buyer note for this line, e.g. "ripe ones please".
	Product       *Product  // The referenced product, loaded for read views. May be nil.
	CreatedAt     time.Time // Timestamp of when this line was first added.
	UpdatedAt     time.Time // Timestamp of the last quantity or selection change.
}

// Recalculate refreshes the subtotal from the stored effective unit price.
func (i *CartItem) Recalculate() {
	i.Subtotal = i.DiscountPrice * float64(i.Quantity)
}

// Cart is the per-user shopping cart aggregate.
type Cart struct {
	ID        uuid.UUID  // The unique ID for the cart.
	UserID    uuid.UUID  // The consumer this cart belongs to. One cart per user.
	Items     []CartItem // The lines currently in the cart.
	CreatedAt time.Time  // Timestamp of when the cart was created.
	UpdatedAt time.Time  // Timestamp of the last mutation.
}

// TotalItems returns the number of distinct lines in the cart, regardless of
// each line's quantity.
func (c *Cart) TotalItems() int {
	return len(c.Items)
}

// GrandTotal returns the sum of all line subtotals.
func (c *Cart) GrandTotal() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].Subtotal
	}

	return total
}

// SelectedItemsTotal returns the sum of subtotals for selected lines only.
func (c *Cart) SelectedItemsTotal() float64 {
	var total float64
	for i := range c.Items {
		if c.Items[i].IsSelected {
			total += c.Items[i].Subtotal
		}
	}

	return total
}

// SelectedItems returns the lines that participate in checkout.
func (c *Cart) SelectedItems() []CartItem {
	selected := make([]CartItem, 0, len(c.Items))
	for i := range c.Items {
		if c.Items[i].IsSelected {
			selected = append(selected, c.Items[i])
		}
	}

	return selected
}
