// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "harvest/internal/delivery/context"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/repository"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for addressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAddresses returns all of the caller's addresses, primary first.
func (srv *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.FindAddressesByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list addresses", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// CreateAddress adds an address. The caller's first address becomes primary,
// and an explicit primary request demotes the others in the same transaction.
func (srv *addressService) CreateAddress(ctx context.Context, input *usecase.CreateAddressInput) (*entity.Address, error) {
	var created *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		count, err := addressRepo.CountAddressesByUserID(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to count addresses")
		}

		isPrimary := input.IsPrimary || count == 0
		if isPrimary && count > 0 {
			if err := addressRepo.UnsetPrimaryByUserID(ctx, input.UserID); err != nil {
				return errors.Wrap(err, "failed to demote existing primary")
			}
		}

		address := &entity.Address{
			ID:          uuid.New(),
			UserID:      input.UserID,
			Label:       input.Label,
			Recipient:   input.Recipient,
			Phone:       input.Phone,
			FullAddress: input.FullAddress,
			Latitude:    input.Latitude,
			Longitude:   input.Longitude,
			IsPrimary:   isPrimary,
		}
		if err := addressRepo.CreateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to create address")
		}
		created = address

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create address", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return nil, errors.Wrap(err, "failed to create address")
	}

	return created, nil
}

// UpdateAddress updates an address the caller owns.
func (srv *addressService) UpdateAddress(ctx context.Context, input *usecase.UpdateAddressInput) (*entity.Address, error) {
	var updated *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		address, err := srv.findOwnedAddress(ctx, addressRepo, input.UserID, input.AddressID)
		if err != nil {
			return err
		}

		if input.Label != nil {
			address.Label = *input.Label
		}
		if input.Recipient != nil {
			address.Recipient = *input.Recipient
		}
		if input.Phone != nil {
			address.Phone = *input.Phone
		}
		if input.FullAddress != nil {
			address.FullAddress = *input.FullAddress
		}
		if input.Latitude != nil {
			address.Latitude = *input.Latitude
		}
		if input.Longitude != nil {
			address.Longitude = *input.Longitude
		}

		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address")
		}
		updated = address

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update address", slog.Any("error", err), slog.Any("address_id", input.AddressID))

		return nil, errors.Wrap(err, "failed to update address")
	}

	return updated, nil
}

// DeleteAddress removes an address the caller owns.
// Deleting the primary address does not promote another one.
func (srv *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		address, err := srv.findOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.DeleteAddress(ctx, address.ID); err != nil {
			return errors.Wrap(err, "failed to delete address")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete address", slog.Any("error", err), slog.Any("address_id", addressID))

		return errors.Wrap(err, "failed to delete address")
	}

	return nil
}

// SetPrimaryAddress promotes an address to primary. The demote-then-promote
// pair runs inside one transaction so two primaries can never coexist.
func (srv *addressService) SetPrimaryAddress(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error) {
	var promoted *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()

		address, err := srv.findOwnedAddress(ctx, addressRepo, userID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.UnsetPrimaryByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to demote existing primary")
		}

		address.IsPrimary = true
		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to promote address")
		}
		promoted = address

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to set primary address", slog.Any("error", err), slog.Any("address_id", addressID))

		return nil, errors.Wrap(err, "failed to set primary address")
	}

	return promoted, nil
}

// findOwnedAddress loads an address and verifies the caller owns it.
// Unknown addresses surface as not-found before any ownership check runs.
func (srv *addressService) findOwnedAddress(ctx context.Context, addressRepo repository.AddressRepository, userID, addressID uuid.UUID) (*entity.Address, error) {
	address, err := addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, domainerrors.ErrAddressNotFound.WrapMessage("address lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find address")
	}
	if address.UserID != userID {
		return nil, domainerrors.ErrForbidden.WrapMessage("address belongs to another user")
	}

	return address, nil
}
