// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// ListOrdersQuery narrows and pages an order listing.
// Exactly one of BuyerID or SellerID is set, depending on the caller's role.
type ListOrdersQuery struct {
	BuyerID  *uuid.UUID          // Orders placed by this consumer, when set.
	SellerID *uuid.UUID          // Orders fulfilled by this producer, when set.
	Status   *entity.OrderStatus // Only orders in this status, when set.
	Page     int                 // 1-based page number.
	PerPage  int                 // Page size.
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// CreateOrder persists a new order together with its line items.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrderByID retrieves an order with its line items by its unique ID.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListOrders retrieves a page of orders with their line items, newest first,
	// plus the total row count for pagination.
	ListOrders(ctx context.Context, query ListOrdersQuery) ([]*entity.Order, int64, error)

	// UpdateOrder updates an order's mutable lifecycle fields.
	UpdateOrder(ctx context.Context, order *entity.Order) error
}
