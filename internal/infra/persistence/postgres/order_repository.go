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

// orderRepository implements the domain's OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder persists a new order together with its line items.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid buyer or seller reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i := range orderM.Items {
		order.Items[i].ID = orderM.Items[i].ID
		order.Items[i].OrderID = orderM.Items[i].OrderID
	}

	return nil
}

// FindOrderByID retrieves an order with its line items by its unique ID.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// ListOrders retrieves a page of orders with their line items, newest first,
// plus the total row count for pagination.
func (repo *orderRepository) ListOrders(ctx context.Context, query repository.ListOrdersQuery) ([]*entity.Order, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if query.BuyerID != nil {
		tx = tx.Where("buyer_id = ?", *query.BuyerID)
	}
	if query.SellerID != nil {
		tx = tx.Where("seller_id = ?", *query.SellerID)
	}
	if query.Status != nil {
		tx = tx.Where("status = ?", query.Status.String())
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	var orderModels []*model.OrderModel
	err := tx.
		Preload("Items").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, total, nil
}

// UpdateOrder updates an order's mutable lifecycle fields.
// Line items are immutable snapshots and are never touched here.
func (repo *orderRepository) UpdateOrder(ctx context.Context, order *entity.Order) error {
	err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":        order.Status.String(),
			"cancel_reason": order.CancelReason,
			"paid_at":       order.PaidAt,
			"delivered_at":  order.DeliveredAt,
			"cancelled_at":  order.CancelledAt,
			"updated_at":    order.UpdatedAt,
		}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for i := range data.Items {
		itemM := &data.Items[i]
		items = append(items, entity.OrderItem{
			ID:            itemM.ID,
			OrderID:       itemM.OrderID,
			ProductID:     itemM.ProductID,
			ProductName:   itemM.ProductName,
			ProductImage:  itemM.ProductImage,
			Unit:          itemM.Unit,
			Quantity:      itemM.Quantity,
			UnitPrice:     itemM.UnitPrice,
			DiscountPrice: itemM.DiscountPrice,
			Subtotal:      itemM.Subtotal,
		})
	}

	return &entity.Order{
		ID:              data.ID,
		OrderNumber:     data.OrderNumber,
		BuyerID:         data.BuyerID,
		SellerID:        data.SellerID,
		Status:          entity.OrderStatus(data.Status),
		Items:           items,
		Subtotal:        data.Subtotal,
		DeliveryFee:     data.DeliveryFee,
		ServiceFee:      data.ServiceFee,
		TotalDiscount:   data.TotalDiscount,
		TotalAmount:     data.TotalAmount,
		DeliveryAddress: data.DeliveryAddr,
		Notes:           data.Notes,
		PaymentMethod:   data.PaymentMethod,
		PaidAt:          data.PaidAt,
		DeliveredAt:     data.DeliveredAt,
		CancelledAt:     data.CancelledAt,
		CancelReason:    data.CancelReason,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for i := range data.Items {
		item := &data.Items[i]
		items = append(items, model.OrderItemModel{
			ID:            item.ID,
			OrderID:       item.OrderID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductImage:  item.ProductImage,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountPrice: item.DiscountPrice,
			Subtotal:      item.Subtotal,
		})
	}

	return &model.OrderModel{
		ID:            data.ID,
		OrderNumber:   data.OrderNumber,
		BuyerID:       data.BuyerID,
		SellerID:      data.SellerID,
		Status:        data.Status.String(),
		Subtotal:      data.Subtotal,
		DeliveryFee:   data.DeliveryFee,
		ServiceFee:    data.ServiceFee,
		TotalDiscount: data.TotalDiscount,
		TotalAmount:   data.TotalAmount,
		DeliveryAddr:  data.DeliveryAddress,
		Notes:         data.Notes,
		PaymentMethod: data.PaymentMethod,
		PaidAt:        data.PaidAt,
		DeliveredAt:   data.DeliveredAt,
		CancelledAt:   data.CancelledAt,
		CancelReason:  data.CancelReason,
		Items:         items,
	}
}
