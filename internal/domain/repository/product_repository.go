// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ListProductsQuery narrows and pages a product listing.
type ListProductsQuery struct {
	SellerID      *uuid.UUID // Only products owned by this seller, when set.
	AvailableOnly bool       // Only products with IsAvailable=true.
	Page          int        // 1-based page number.
	PerPage       int        // Page size.
}

// ProductRepository defines the interface for catalog persistence.
// Reads load the product's discounts so effective prices can be resolved in memory.
type ProductRepository interface {
	// CreateProduct persists a new product listing.
	CreateProduct(ctx context.Context, product *entity.Product) error

	// FindProductByID retrieves a product with its discounts by its unique ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListProducts retrieves a page of products with their discounts,
	// plus the total row count for pagination.
	ListProducts(ctx context.Context, query ListProductsQuery) ([]*entity.Product, int64, error)

	// UpdateProduct updates an existing product listing.
	UpdateProduct(ctx context.Context, product *entity.Product) error

	// DeleteProduct removes a product listing by its ID.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// CreateDiscount attaches a new discount to a product.
	CreateDiscount(ctx context.Context, discount *entity.Discount) error
}
