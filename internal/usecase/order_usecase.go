// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CheckoutInput defines the data required to convert the cart into orders.
type CheckoutInput struct {
	UserID    uuid.UUID
	AddressID *uuid.UUID // Delivery address. Defaults to the primary address when nil.
	Notes     string
}

// ListOrdersInput narrows and pages an order listing for one caller.
type ListOrdersInput struct {
	UserID  uuid.UUID
	Role    entity.Role
	Status  *entity.OrderStatus
	Page    int
	PerPage int
}

// CancelOrderInput defines the data required to cancel an order.
type CancelOrderInput struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Reason  string
	Details string // Optional elaboration, appended to the stored reason.
}

// SetOrderStatusInput defines the data for an operator status overwrite.
type SetOrderStatusInput struct {
	OrderID uuid.UUID
	Status  entity.OrderStatus
}

// --- Output DTOs ---

// PaymentInfo describes how the buyer settles the created orders.
type PaymentInfo struct {
	Method       string
	TotalAmount  float64
	Instructions string
	QRCode       string // Base64-encoded PNG, empty when generation is unavailable.
}

// CheckoutOutput returns the orders created by one checkout.
// The cart splits into one order per distinct seller.
type CheckoutOutput struct {
	Orders  []*entity.Order
	Payment *PaymentInfo
}

// CancelOrderOutput returns the cancelled order and the refund owed, if any.
type CancelOrderOutput struct {
	Order  *entity.Order
	Refund *entity.Refund
}

// OrderListOutput is a page of orders plus pagination counters.
type OrderListOutput struct {
	Orders  []*entity.Order
	Total   int64
	Page    int
	PerPage int
}

// OrderUsecase defines the interface for order lifecycle operations.
type OrderUsecase interface {
	// Checkout converts the cart's selected lines into orders, one per seller,
	// freezing line snapshots and totals, then empties those lines.
	Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutOutput, error)

	// ListOrders returns the caller's orders: placed orders for consumers,
	// received orders for producers.
	ListOrders(ctx context.Context, input *ListOrdersInput) (*OrderListOutput, error)

	// GetOrder returns one order. Only the buyer, the seller or an admin may view it.
	GetOrder(ctx context.Context, userID uuid.UUID, role entity.Role, orderID uuid.UUID) (*entity.Order, error)

	// CancelOrder cancels a non-terminal order. Either party to the order,
	// the buyer or the seller, may cancel.
	CancelOrder(ctx context.Context, input *CancelOrderInput) (*CancelOrderOutput, error)

	// SetOrderStatus overwrites an order's status without transition checks.
	// Operator-only.
	SetOrderStatus(ctx context.Context, input *SetOrderStatusInput) (*entity.Order, error)
}
