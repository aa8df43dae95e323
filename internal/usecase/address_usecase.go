// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateAddressInput defines the data required to create an address.
type CreateAddressInput struct {
	UserID      uuid.UUID
	Label       string
	Recipient   string
	Phone       string
	FullAddress string
	Latitude    float64
	Longitude   float64
	IsPrimary   bool
}

// UpdateAddressInput defines the data required to update an address.
// Nil fields are left unchanged.
type UpdateAddressInput struct {
	UserID      uuid.UUID
	AddressID   uuid.UUID
	Label       *string
	Recipient   *string
	Phone       *string
	FullAddress *string
	Latitude    *float64
	Longitude   *float64
}

// AddressUsecase defines the interface for delivery address management.
type AddressUsecase interface {
	// ListAddresses returns all of the caller's addresses, primary first.
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// CreateAddress adds an address. The caller's first address becomes primary.
	CreateAddress(ctx context.Context, input *CreateAddressInput) (*entity.Address, error)

	// UpdateAddress updates an address the caller owns.
	UpdateAddress(ctx context.Context, input *UpdateAddressInput) (*entity.Address, error)

	// DeleteAddress removes an address the caller owns.
	// Deleting the primary address does not promote another one.
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error

	// SetPrimaryAddress promotes an address to primary, demoting the others
	// in the same transaction.
	SetPrimaryAddress(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error)
}
