// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a user has no cart yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when a cart line is not found.
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart persistence.
type CartRepository interface {
	// FindCartByUserID retrieves a user's cart with its lines and their products.
	// Returns ErrCartNotFound when the user has never carted anything.
	FindCartByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// GetOrCreateCart retrieves the user's cart, creating an empty one if absent.
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// UpsertItem inserts a cart line or, when a line for the same product exists,
	// increments its quantity and recomputes the subtotal in a single statement.
	// The returned line reflects the merged state.
	UpsertItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)

	// FindItemByID retrieves a single cart line with its parent cart's owner resolved.
	FindItemByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)

	// FindCartOwner returns the user owning the cart the line belongs to.
	FindCartOwner(ctx context.Context, cartID uuid.UUID) (uuid.UUID, error)

	// UpdateItem updates a cart line's quantity, subtotal and selection.
	UpdateItem(ctx context.Context, item *entity.CartItem) error

	// DeleteItem removes a cart line by its ID.
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// DeleteItems removes a set of cart lines by their IDs.
	// Used when selected lines are converted into orders.
	DeleteItems(ctx context.Context, ids []uuid.UUID) error

	// ClearCart removes every line from a cart.
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}
