// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address is not found.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the interface for address-related database operations.
type AddressRepository interface {
	// CreateAddress persists a new address for a user.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUserID retrieves all addresses for a user, primary first.
	FindAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// FindPrimaryAddressByUserID retrieves the user's primary address.
	// Returns ErrAddressNotFound if no primary address exists.
	FindPrimaryAddressByUserID(ctx context.Context, userID uuid.UUID) (*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address by its ID.
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// UnsetPrimaryByUserID clears the primary flag on all of the user's addresses.
	// Called inside the same transaction that promotes the new primary.
	UnsetPrimaryByUserID(ctx context.Context, userID uuid.UUID) error

	// CountAddressesByUserID returns the total count of addresses for a user.
	// A user's first address becomes primary automatically.
	CountAddressesByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
