// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListProductsInput narrows and pages the public catalog listing.
type ListProductsInput struct {
	AvailableOnly bool
	SellerID      *uuid.UUID
	Page          int
	PerPage       int
}

// CreateProductInput defines the data required to create a listing.
type CreateProductInput struct {
	SellerID    uuid.UUID
	Name        string
	Description string
	Price       float64
	Unit        string
	Stock       int
	ImageURL    string
}

// UpdateProductInput defines the data required to update a listing.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	ProductID   uuid.UUID
	SellerID    uuid.UUID
	Name        *string
	Description *string
	Price       *float64
	Unit        *string
	Stock       *int
	ImageURL    *string
	IsAvailable *bool
}

// AddDiscountInput defines the data required to attach a discount.
type AddDiscountInput struct {
	ProductID  uuid.UUID
	SellerID   uuid.UUID
	Type       entity.DiscountType
	Value      float64
	ValidFrom  time.Time
	ValidUntil time.Time
}

// --- Output DTOs ---

// ProductOutput is a product with its price resolved at read time.
type ProductOutput struct {
	Product *entity.Product
	Quote   entity.PriceQuote
}

// ProductListOutput is a page of resolved products plus pagination counters.
type ProductListOutput struct {
	Products []*ProductOutput
	Total    int64
	Page     int
	PerPage  int
}

// CatalogUsecase defines the interface for product catalog operations.
type CatalogUsecase interface {
	// ListProducts returns a page of products with effective prices resolved.
	ListProducts(ctx context.Context, input *ListProductsInput) (*ProductListOutput, error)

	// GetProduct returns one product with its effective price resolved.
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductOutput, error)

	// CreateProduct creates a listing owned by the calling producer.
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// UpdateProduct updates a listing. Only the owning producer may update it.
	UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error)

	// DeleteProduct removes a listing. Only the owning producer may delete it.
	DeleteProduct(ctx context.Context, productID, sellerID uuid.UUID) error

	// AddDiscount attaches a discount to a listing the producer owns.
	AddDiscount(ctx context.Context, input *AddDiscountInput) (*entity.Discount, error)
}
