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
	"gorm.io/gorm/clause"
)

// cartRepository implements the domain's CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// FindCartByUserID retrieves a user's cart with its lines and their products.
func (repo *cartRepository) FindCartByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product.Discounts").
		Where("user_id = ?", userID).
		First(&cartM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by user id")
	}

	return toCartDomain(&cartM), nil
}

// GetOrCreateCart retrieves the user's cart, creating an empty one if absent.
func (repo *cartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := repo.FindCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	cartM := &model.CartModel{UserID: userID}
	// ON CONFLICT DO NOTHING covers the race where two requests create the
	// cart at the same time; the refetch below returns the winner's row.
	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(cartM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	return repo.FindCartByUserID(ctx, userID)
}

// UpsertItem inserts a cart line or, when a line for the same product exists,
// increments its quantity and recomputes the subtotal in a single statement.
// The merge takes the incoming price snapshot, so a price change between adds
// is reflected in the merged line. An empty incoming note keeps the stored one.
func (repo *cartRepository) UpsertItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	itemM := fromCartItemDomain(item)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":       gorm.Expr("cart_items.quantity + excluded.quantity"),
				"unit_price":     gorm.Expr("excluded.unit_price"),
				"discount_price": gorm.Expr("excluded.discount_price"),
				"subtotal":       gorm.Expr("excluded.discount_price * (cart_items.quantity + excluded.quantity)"),
				"notes":          gorm.Expr("CASE WHEN excluded.notes <> '' THEN excluded.notes ELSE cart_items.notes END"),
				"is_selected":    true,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).
		Create(itemM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return nil, repository.ErrProductNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to upsert cart item")
	}

	// The INSERT does not report the merged row on conflict, so read it back.
	var merged model.CartItemModel
	err = repo.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
		First(&merged).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload cart item")
	}

	return toCartItemDomain(&merged), nil
}

// FindItemByID retrieves a single cart line.
func (repo *cartRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&itemM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item by id")
	}

	return toCartItemDomain(&itemM), nil
}

// FindCartOwner returns the user owning the given cart.
func (repo *cartRepository) FindCartOwner(ctx context.Context, cartID uuid.UUID) (uuid.UUID, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Select("user_id").
		Where("id = ?", cartID).
		First(&cartM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, repository.ErrCartNotFound
		}

		return uuid.Nil, errors.Wrap(err, "failed to find cart owner")
	}

	return cartM.UserID, nil
}

// UpdateItem updates a cart line's quantity, subtotal and selection.
func (repo *cartRepository) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	err := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":    item.Quantity,
			"subtotal":    item.Subtotal,
			"is_selected": item.IsSelected,
			"notes":       item.Notes,
		}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update cart item")
	}

	return nil
}

// DeleteItem removes a cart line by its ID.
func (repo *cartRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CartItemModel{})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// DeleteItems removes a set of cart lines by their IDs.
func (repo *cartRepository) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&model.CartItemModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ClearCart removes every line from a cart.
func (repo *cartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItemModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

// toCartDomain converts a GORM CartModel to a domain Cart entity.
func toCartDomain(data *model.CartModel) *entity.Cart {
	if data == nil {
		return nil
	}

	items := make([]entity.CartItem, 0, len(data.Items))
	for i := range data.Items {
		items = append(items, *toCartItemDomain(&data.Items[i]))
	}

	return &entity.Cart{
		ID:        data.ID,
		UserID:    data.UserID,
		Items:     items,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// toCartItemDomain converts a GORM CartItemModel to a domain CartItem entity.
func toCartItemDomain(data *model.CartItemModel) *entity.CartItem {
	if data == nil {
		return nil
	}

	return &entity.CartItem{
		ID:            data.ID,
		CartID:        data.CartID,
		ProductID:     data.ProductID,
		Quantity:      data.Quantity,
		UnitPrice:     data.UnitPrice,
		DiscountPrice: data.DiscountPrice,
		Subtotal:      data.Subtotal,
		IsSelected:    data.IsSelected,
		Notes:         data.Notes,
		Product:       toProductDomain(data.Product),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromCartItemDomain converts a domain CartItem entity to a GORM CartItemModel.
func fromCartItemDomain(data *entity.CartItem) *model.CartItemModel {
	if data == nil {
		return nil
	}

	return &model.CartItemModel{
		ID:            data.ID,
		CartID:        data.CartID,
		ProductID:     data.ProductID,
		Quantity:      data.Quantity,
		UnitPrice:     data.UnitPrice,
		DiscountPrice: data.DiscountPrice,
		Subtotal:      data.Subtotal,
		IsSelected:    data.IsSelected,
		Notes:         data.Notes,
	}
}
