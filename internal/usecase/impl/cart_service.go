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

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the caller's cart, creating an empty one on first use.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	cart, err := srv.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to load cart", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, errors.Wrap(err, "failed to load cart")
	}

	return cartOutput(cart), nil
}

// AddItem puts a product into the cart at its current effective price.
// Adding a product already carted merges quantities in a single upsert at the
// current effective price, so concurrent adds never lose an increment.
func (srv *cartService) AddItem(ctx context.Context, input *usecase.AddCartItemInput) (*usecase.CartItemOutput, error) {
	srv.log(ctx).Debug("Adding cart item", slog.Any("user_id", input.UserID), slog.Any("product_id", input.ProductID))

	var output *usecase.CartItemOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		cartRepo := repoFactory.NewCartRepository()

		// 1. The product must exist and be purchasable
		product, err := productRepo.FindProductByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}
		if !product.IsAvailable {
			return domainerrors.ErrProductUnavailable.WrapMessage("product is not available")
		}

		cart, err := cartRepo.GetOrCreateCart(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}

		// 2. Snapshot the price the buyer sees right now
		quote := product.EffectivePrice(timeNow())
		item := &entity.CartItem{
			ID:            uuid.New(),
			CartID:        cart.ID,
			ProductID:     product.ID,
			Quantity:      input.Quantity,
			UnitPrice:     quote.OriginalPrice,
			DiscountPrice: quote.EffectivePrice,
			Subtotal:      quote.EffectivePrice * float64(input.Quantity),
			IsSelected:    true,
			Notes:         input.Notes,
		}

		// 3. Insert or merge with the existing line for this product
		merged, err := cartRepo.UpsertItem(ctx, item)
		if err != nil {
			return errors.Wrap(err, "failed to upsert cart item")
		}

		refreshed, err := cartRepo.FindCartByUserID(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}

		output = cartItemOutput(merged, refreshed)

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add cart item", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return nil, errors.Wrap(err, "failed to add cart item")
	}

	return output, nil
}

// UpdateItem changes a line's quantity or note. A quantity change recomputes
// the subtotal from the effective price stored on the line; the product is
// never re-read.
func (srv *cartService) UpdateItem(ctx context.Context, input *usecase.UpdateCartItemInput) (*usecase.CartItemOutput, error) {
	var output *usecase.CartItemOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		item, err := srv.findOwnedItem(ctx, cartRepo, input.UserID, input.ItemID)
		if err != nil {
			return err
		}

		if input.Quantity != nil {
			item.Quantity = *input.Quantity
			item.Recalculate()
		}
		if input.Notes != nil {
			item.Notes = *input.Notes
		}
		if err := cartRepo.UpdateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update cart item")
		}

		refreshed, err := cartRepo.FindCartByUserID(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}
		output = cartItemOutput(item, refreshed)

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update cart item", slog.Any("error", err), slog.Any("item_id", input.ItemID))

		return nil, errors.Wrap(err, "failed to update cart item")
	}

	return output, nil
}

// RemoveItem deletes a line from the cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*usecase.CartOutput, error) {
	var output *usecase.CartOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		item, err := srv.findOwnedItem(ctx, cartRepo, userID, itemID)
		if err != nil {
			return err
		}

		if err := cartRepo.DeleteItem(ctx, item.ID); err != nil {
			return errors.Wrap(err, "failed to delete cart item")
		}

		refreshed, err := cartRepo.FindCartByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}
		output = cartOutput(refreshed)

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to remove cart item", slog.Any("error", err), slog.Any("item_id", itemID))

		return nil, errors.Wrap(err, "failed to remove cart item")
	}

	return output, nil
}

// SetSelected toggles whether a line participates in checkout.
func (srv *cartService) SetSelected(ctx context.Context, input *usecase.SelectCartItemInput) (*usecase.CartItemOutput, error) {
	var output *usecase.CartItemOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		item, err := srv.findOwnedItem(ctx, cartRepo, input.UserID, input.ItemID)
		if err != nil {
			return err
		}

		item.IsSelected = input.IsSelected
		if err := cartRepo.UpdateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update cart item")
		}

		refreshed, err := cartRepo.FindCartByUserID(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}
		output = cartItemOutput(item, refreshed)

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to select cart item", slog.Any("error", err), slog.Any("item_id", input.ItemID))

		return nil, errors.Wrap(err, "failed to select cart item")
	}

	return output, nil
}

// ClearCart removes every line from the caller's cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		cart, err := cartRepo.FindCartByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				// No cart means nothing to clear.
				return nil
			}

			return errors.Wrap(err, "failed to load cart")
		}

		if err := cartRepo.ClearCart(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to clear cart")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to clear cart", slog.Any("error", err), slog.Any("user_id", userID))

		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}

// findOwnedItem loads a line and verifies the caller owns its cart.
// Unknown lines surface as not-found before any ownership check runs.
func (srv *cartService) findOwnedItem(ctx context.Context, cartRepo repository.CartRepository, userID, itemID uuid.UUID) (*entity.CartItem, error) {
	item, err := cartRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, domainerrors.ErrCartItemNotFound.WrapMessage("cart item lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find cart item")
	}

	owner, err := cartRepo.FindCartOwner(ctx, item.CartID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve cart owner")
	}
	if owner != userID {
		return nil, domainerrors.ErrForbidden.WrapMessage("cart item belongs to another user")
	}

	return item, nil
}

func cartOutput(cart *entity.Cart) *usecase.CartOutput {
	return &usecase.CartOutput{
		Cart:               cart,
		TotalItems:         cart.TotalItems(),
		GrandTotal:         cart.GrandTotal(),
		SelectedItemsTotal: cart.SelectedItemsTotal(),
	}
}

func cartItemOutput(item *entity.CartItem, cart *entity.Cart) *usecase.CartItemOutput {
	return &usecase.CartItemOutput{
		Item:               item,
		CartTotalItems:     cart.TotalItems(),
		CartGrandTotal:     cart.GrandTotal(),
		SelectedItemsTotal: cart.SelectedItemsTotal(),
	}
}
