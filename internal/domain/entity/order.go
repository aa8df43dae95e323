// Package entity contains the core business objects of the project.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents where an order sits in its lifecycle.
type OrderStatus string

const (
	// OrderPendingPayment is the initial status; the buyer has not paid yet.
	OrderPendingPayment OrderStatus = "PENDING_PAYMENT"
	// OrderPaid means payment has been confirmed.
	OrderPaid OrderStatus = "PAID"
	// OrderProcessing means the producer is preparing the goods.
	OrderProcessing OrderStatus = "PROCESSING"
	// OrderShipped means the goods are on their way to the buyer.
	OrderShipped OrderStatus = "SHIPPED"
	// OrderDelivered means the buyer has received the goods. Terminal.
	OrderDelivered OrderStatus = "DELIVERED"
	// OrderCancelled means the order was cancelled before completion. Terminal.
	OrderCancelled OrderStatus = "CANCELLED"
	// OrderRefunded means a paid order was reversed. Terminal.
	OrderRefunded OrderStatus = "REFUNDED"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPendingPayment, OrderPaid, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the lifecycle.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderCancelled, OrderDelivered, OrderRefunded:
		return true
	default:
		return false
	}
}

// ErrOrderNotCancellable is returned when cancelling an order in a terminal status.
var ErrOrderNotCancellable = errors.New("order is in a terminal status")

// OrderItem is one frozen product line inside an order.
// All fields are snapshots taken at checkout; later catalog edits never touch them.
type OrderItem struct {
	ID            uuid.UUID // The unique ID for this order line.
	OrderID       uuid.UUID // Links this line to its order.
	ProductID     uuid.UUID // The product this line was created from.
	ProductName   string    // The product name at checkout time.
	ProductImage  string    // The product image URL at checkout time.
	Unit          string    // The selling unit at checkout time.
	Quantity      int       // Units purchased.
	UnitPrice     float64   // The base unit price at checkout time.
	DiscountPrice float64   // The effective unit price at checkout time.
	Subtotal      float64   // DiscountPrice multiplied by Quantity.
}

// Order is one purchase from a single seller, produced by splitting the cart
// at checkout. Totals and line items are frozen at creation.
type Order struct {
	ID              uuid.UUID   // The Global Unique Identifier (GUID) for the order.
	OrderNumber     string      // Human-facing number, "FM" + yyyymmdd + 6 digits.
	BuyerID         uuid.UUID   // The consumer who placed the order.
	SellerID        uuid.UUID   // The producer fulfilling the order.
	Status          OrderStatus // Current lifecycle status.
	Items           []OrderItem // Frozen line snapshots.
	Subtotal        float64     // Sum of line subtotals.
	DeliveryFee     float64     // Delivery fee applied to this order.
	ServiceFee      float64     // Platform service fee applied to this order.
	TotalDiscount   float64     // Order-level discount. Line discounts are already inside Subtotal.
	TotalAmount     float64     // Subtotal + DeliveryFee + ServiceFee - TotalDiscount.
	DeliveryAddress string      // Snapshot of the delivery address text.
	Notes           string      // Free-form buyer note to the seller.
	PaymentMethod   string      // How the buyer pays, e.g., "BANK_TRANSFER".
	PaidAt          *time.Time  // When payment was confirmed. Nil until then.
	DeliveredAt     *time.Time  // When the goods were delivered. Nil until then.
	CancelledAt     *time.Time  // When the order was cancelled. Nil unless cancelled.
	CancelReason    string      // The buyer-supplied reason for cancellation.
	CreatedAt       time.Time   // Timestamp of when this order was placed.
	UpdatedAt       time.Time   // Timestamp of the last status change.
}

// CalculateTotal recomputes Subtotal from the line items and derives TotalAmount.
func (o *Order) CalculateTotal() {
	var subtotal float64
	for i := range o.Items {
		subtotal += o.Items[i].Subtotal
	}
	o.Subtotal = subtotal
	o.TotalAmount = o.Subtotal + o.DeliveryFee + o.ServiceFee - o.TotalDiscount
}

// Cancel transitions the order to CANCELLED.
// Orders in a terminal status cannot be cancelled.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status.IsTerminal() {
		return ErrOrderNotCancellable
	}

	o.Status = OrderCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	return nil
}

// SetStatus overwrites the lifecycle status without transition checks.
// Reserved for platform operators. Entering PAID or DELIVERED stamps the
// corresponding timestamp if it is not already set.
func (o *Order) SetStatus(status OrderStatus, now time.Time) {
	o.Status = status
	o.UpdatedAt = now

	switch status {
	case OrderPaid:
		if o.PaidAt == nil {
			o.PaidAt = &now
		}
	case OrderDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
}

// Refund describes the money returned to the buyer after cancelling a paid order.
type Refund struct {
	Amount        float64 // The amount to be returned, equal to the order's total.
	Method        string  // How the refund is issued, mirroring the order's payment method.
	EstimatedDays int     // Expected processing time in days.
}

// RefundForCancellation returns the refund owed for this cancellation,
// or nil when the order was never paid.
func (o *Order) RefundForCancellation() *Refund {
	if o.PaidAt == nil {
		return nil
	}

	return &Refund{
		Amount:        o.TotalAmount,
		Method:        o.PaymentMethod,
		EstimatedDays: 7,
	}
}
