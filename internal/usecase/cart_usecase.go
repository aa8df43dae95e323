// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddCartItemInput defines the data required to add a product to the cart.
type AddCartItemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Notes     string
}

// UpdateCartItemInput defines the data required to change a line. Nil fields
// are left untouched.
type UpdateCartItemInput struct {
	UserID   uuid.UUID
	ItemID   uuid.UUID
	Quantity *int
	Notes    *string
}

// SelectCartItemInput defines the data required to toggle a line's selection.
type SelectCartItemInput struct {
	UserID     uuid.UUID
	ItemID     uuid.UUID
	IsSelected bool
}

// --- Output DTOs ---

// CartOutput is the cart with its aggregate totals resolved.
type CartOutput struct {
	Cart               *entity.Cart
	TotalItems         int
	GrandTotal         float64
	SelectedItemsTotal float64
}

// CartItemOutput is one mutated line plus the cart-level counters the
// storefront needs to update its badge without refetching the cart.
type CartItemOutput struct {
	Item               *entity.CartItem
	CartTotalItems     int
	CartGrandTotal     float64
	SelectedItemsTotal float64
}

// CartUsecase defines the interface for shopping cart operations.
// Every mutation verifies the line exists before checking ownership,
// so unknown lines surface as not-found rather than forbidden.
type CartUsecase interface {
	// GetCart returns the caller's cart, creating an empty one on first use.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)

	// AddItem puts a product into the cart at its current effective price.
	// Adding a product already in the cart merges quantities atomically.
	AddItem(ctx context.Context, input *AddCartItemInput) (*CartItemOutput, error)

	// UpdateItem changes a line's quantity or note. A quantity change recomputes
	// the subtotal from the price stored on the line.
	UpdateItem(ctx context.Context, input *UpdateCartItemInput) (*CartItemOutput, error)

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartOutput, error)

	// SetSelected toggles whether a line participates in checkout.
	SetSelected(ctx context.Context, input *SelectCartItemInput) (*CartItemOutput, error)

	// ClearCart removes every line from the caller's cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
