// Package delivery defines the contract every inbound transport implements.
package delivery

import "context"

// Delivery is a server that accepts requests until its context is cancelled.
// Implementations are collected by the composition root and started together.
type Delivery interface {
	Serve(ctx context.Context) error
}
