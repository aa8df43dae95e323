// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/repository"
	"harvest/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the domain's ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// CreateProduct persists a new product listing.
func (repo *productRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid seller reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindProductByID retrieves a product with its discounts by its unique ID.
func (repo *productRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Preload("Discounts").
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// ListProducts retrieves a page of products with their discounts, newest first,
// plus the total row count for pagination.
func (repo *productRepository) ListProducts(ctx context.Context, query repository.ListProductsQuery) ([]*entity.Product, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.ProductModel{})
	if query.SellerID != nil {
		tx = tx.Where("seller_id = ?", *query.SellerID)
	}
	if query.AvailableOnly {
		tx = tx.Where("is_available = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	var productModels []*model.ProductModel
	err := tx.
		Preload("Discounts").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&productModels).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, total, nil
}

// UpdateProduct updates an existing product listing.
// Discounts are managed through CreateDiscount and are not saved here.
func (repo *productRepository) UpdateProduct(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Omit("Discounts").Save(productM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// DeleteProduct removes a product listing by its ID.
func (repo *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// CreateDiscount attaches a new discount to a product.
func (repo *productRepository) CreateDiscount(ctx context.Context, discount *entity.Discount) error {
	discountM := fromDiscountDomain(discount)

	if err := repo.db.WithContext(ctx).Create(discountM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create discount")
	}

	discount.ID = discountM.ID
	discount.CreatedAt = discountM.CreatedAt

	return nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	discounts := make([]entity.Discount, 0, len(data.Discounts))
	for i := range data.Discounts {
		discounts = append(discounts, *toDiscountDomain(&data.Discounts[i]))
	}

	return &entity.Product{
		ID:          data.ID,
		SellerID:    data.SellerID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Unit:        data.Unit,
		Stock:       data.Stock,
		ImageURL:    data.ImageURL,
		IsAvailable: data.IsAvailable,
		Discounts:   discounts,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		SellerID:    data.SellerID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Unit:        data.Unit,
		Stock:       data.Stock,
		ImageURL:    data.ImageURL,
		IsAvailable: data.IsAvailable,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// toDiscountDomain converts a GORM DiscountModel to a domain Discount entity.
func toDiscountDomain(data *model.DiscountModel) *entity.Discount {
	if data == nil {
		return nil
	}

	return &entity.Discount{
		ID:         data.ID,
		ProductID:  data.ProductID,
		Type:       entity.DiscountType(data.Type),
		Value:      data.Value,
		IsActive:   data.IsActive,
		ValidFrom:  data.ValidFrom,
		ValidUntil: data.ValidUntil,
		CreatedAt:  data.CreatedAt,
	}
}

// fromDiscountDomain converts a domain Discount entity to a GORM DiscountModel.
func fromDiscountDomain(data *entity.Discount) *model.DiscountModel {
	if data == nil {
		return nil
	}

	return &model.DiscountModel{
		ID:         data.ID,
		ProductID:  data.ProductID,
		Type:       string(data.Type),
		Value:      data.Value,
		IsActive:   data.IsActive,
		ValidFrom:  data.ValidFrom,
		ValidUntil: data.ValidUntil,
		CreatedAt:  data.CreatedAt,
	}
}
