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

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns a page of products with effective prices resolved.
func (srv *catalogService) ListProducts(ctx context.Context, input *usecase.ListProductsInput) (*usecase.ProductListOutput, error) {
	page, perPage := normalizePage(input.Page, input.PerPage)

	products, total, err := srv.productRepo.ListProducts(ctx, repository.ListProductsQuery{
		SellerID:      input.SellerID,
		AvailableOnly: input.AvailableOnly,
		Page:          page,
		PerPage:       perPage,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list products")
	}

	now := timeNow()
	resolved := make([]*usecase.ProductOutput, 0, len(products))
	for _, product := range products {
		resolved = append(resolved, &usecase.ProductOutput{
			Product: product,
			Quote:   product.EffectivePrice(now),
		})
	}

	return &usecase.ProductListOutput{
		Products: resolved,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// GetProduct returns one product with its effective price resolved.
func (srv *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*usecase.ProductOutput, error) {
	product, err := srv.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return &usecase.ProductOutput{
		Product: product,
		Quote:   product.EffectivePrice(timeNow()),
	}, nil
}

// CreateProduct creates a listing owned by the calling producer.
func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Creating product", slog.Any("seller_id", input.SellerID), slog.String("name", input.Name))

	product := &entity.Product{
		ID:          uuid.New(),
		SellerID:    input.SellerID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Unit:        input.Unit,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		IsAvailable: true,
	}
	if err := srv.productRepo.CreateProduct(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	return product, nil
}

// UpdateProduct updates a listing. Only the owning producer may update it.
func (srv *catalogService) UpdateProduct(ctx context.Context, input *usecase.UpdateProductInput) (*entity.Product, error) {
	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		// 1. Existence before ownership
		product, err := productRepo.FindProductByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}
		if product.SellerID != input.SellerID {
			return domainerrors.ErrForbidden.WrapMessage("product belongs to another seller")
		}

		// 2. Apply only the provided fields
		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Unit != nil {
			product.Unit = *input.Unit
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.ImageURL != nil {
			product.ImageURL = *input.ImageURL
		}
		if input.IsAvailable != nil {
			product.IsAvailable = *input.IsAvailable
		}

		if err := productRepo.UpdateProduct(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}
		updated = product

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("error", err), slog.Any("product_id", input.ProductID))

		return nil, errors.Wrap(err, "failed to update product")
	}

	return updated, nil
}

// DeleteProduct removes a listing. Only the owning producer may delete it.
func (srv *catalogService) DeleteProduct(ctx context.Context, productID, sellerID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		product, err := productRepo.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}
		if product.SellerID != sellerID {
			return domainerrors.ErrForbidden.WrapMessage("product belongs to another seller")
		}

		if err := productRepo.DeleteProduct(ctx, productID); err != nil {
			return errors.Wrap(err, "failed to delete product")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete product", slog.Any("error", err), slog.Any("product_id", productID))

		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

// AddDiscount attaches a discount to a listing the producer owns.
func (srv *catalogService) AddDiscount(ctx context.Context, input *usecase.AddDiscountInput) (*entity.Discount, error) {
	if !input.Type.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown discount type")
	}
	if input.Type == entity.DiscountPercentage && (input.Value <= 0 || input.Value > 100) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("percentage value must be within (0, 100]")
	}
	if !input.ValidUntil.After(input.ValidFrom) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("validUntil must be after validFrom")
	}

	var discount *entity.Discount
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		product, err := productRepo.FindProductByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}
		if product.SellerID != input.SellerID {
			return domainerrors.ErrForbidden.WrapMessage("product belongs to another seller")
		}

		discount = &entity.Discount{
			ID:         uuid.New(),
			ProductID:  input.ProductID,
			Type:       input.Type,
			Value:      input.Value,
			IsActive:   true,
			ValidFrom:  input.ValidFrom,
			ValidUntil: input.ValidUntil,
		}
		if err := productRepo.CreateDiscount(ctx, discount); err != nil {
			return errors.Wrap(err, "failed to create discount")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add discount", slog.Any("error", err), slog.Any("product_id", input.ProductID))

		return nil, errors.Wrap(err, "failed to add discount")
	}

	return discount, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}
