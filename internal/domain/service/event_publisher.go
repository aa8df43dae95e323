package service

import (
	"context"
)

// Order event types published to the message queue.
const (
	OrderEventCreated       = "order.created"
	OrderEventCancelled     = "order.cancelled"
	OrderEventStatusChanged = "order.status_changed"
)

// OrderEvent represents an order lifecycle event for async consumers
// (fulfilment dashboards, bookkeeping exports).
type OrderEvent struct {
	RequestID   string  `json:"request_id,omitempty"` // For distributed tracing
	Type        string  `json:"type"`
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	BuyerID     string  `json:"buyer_id"`
	SellerID    string  `json:"seller_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order lifecycle event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
