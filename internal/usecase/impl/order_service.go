// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"harvest/config"
	deliverycontext "harvest/internal/delivery/context"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/repository"
	"harvest/internal/domain/service"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const paymentMethodBankTransfer = "BANK_TRANSFER"

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	publisher   service.EventPublisher
	qrService   service.QRCodeService
	quoter      service.DeliveryQuoter
	deliveryFee float64
	serviceFee  float64
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	QRService service.QRCodeService
	Quoter    service.DeliveryQuoter
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	var deliveryFee, serviceFee float64
	if params.Config != nil && params.Config.Pricing != nil {
		deliveryFee = params.Config.Pricing.DeliveryFee
		serviceFee = params.Config.Pricing.ServiceFee
	}

	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		publisher:   params.Publisher,
		qrService:   params.QRService,
		quoter:      params.Quoter,
		deliveryFee: deliveryFee,
		serviceFee:  serviceFee,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout converts the cart's selected lines into orders, one per distinct
// seller. Line prices come from the cart snapshots; the catalog is not
// re-read. The converted lines are removed in the same transaction.
func (srv *orderService) Checkout(ctx context.Context, input *usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	srv.log(ctx).Info("Checkout", slog.Any("user_id", input.UserID))

	var created []*entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()
		orderRepo := repoFactory.NewOrderRepository()
		addressRepo := repoFactory.NewAddressRepository()

		// 1. Gather the selected lines
		cart, err := cartRepo.FindCartByUserID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return domainerrors.ErrCartEmptySelection.WrapMessage("no cart")
			}

			return errors.Wrap(err, "failed to load cart")
		}
		selected := cart.SelectedItems()
		if len(selected) == 0 {
			return domainerrors.ErrCartEmptySelection.WrapMessage("no selected lines")
		}

		// 2. Resolve the delivery address
		address, err := srv.resolveAddress(ctx, addressRepo, input)
		if err != nil {
			return err
		}

		// 3. One order per distinct seller
		grouped, err := groupBySeller(selected)
		if err != nil {
			return err
		}

		now := timeNow()
		for sellerID, items := range grouped {
			order := &entity.Order{
				ID:              uuid.New(),
				OrderNumber:     generateOrderNumber(now),
				BuyerID:         input.UserID,
				SellerID:        sellerID,
				Status:          entity.OrderPendingPayment,
				Items:           buildOrderItems(items),
				DeliveryFee:     srv.deliveryFeeFor(ctx, addressRepo, sellerID, address),
				ServiceFee:      srv.serviceFee,
				DeliveryAddress: address.FullAddress,
				Notes:           input.Notes,
				PaymentMethod:   paymentMethodBankTransfer,
			}
			order.CalculateTotal()

			if err := orderRepo.CreateOrder(ctx, order); err != nil {
				return errors.Wrap(err, "failed to create order")
			}
			created = append(created, order)
		}

		// 4. The converted lines leave the cart atomically with order creation
		ids := make([]uuid.UUID, 0, len(selected))
		for i := range selected {
			ids = append(ids, selected[i].ID)
		}
		if err := cartRepo.DeleteItems(ctx, ids); err != nil {
			return errors.Wrap(err, "failed to remove converted cart items")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Checkout failed", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return nil, errors.Wrap(err, "failed to checkout")
	}

	for _, order := range created {
		srv.publishOrderEvent(ctx, service.OrderEventCreated, order)
	}

	output := &usecase.CheckoutOutput{
		Orders:  created,
		Payment: srv.buildPaymentInfo(ctx, created),
	}
	srv.log(ctx).Info("Checkout complete", slog.Any("user_id", input.UserID), slog.Int("orders", len(created)))

	return output, nil
}

// ListOrders returns the caller's orders: placed orders for consumers,
// received orders for producers, everything for admins.
func (srv *orderService) ListOrders(ctx context.Context, input *usecase.ListOrdersInput) (*usecase.OrderListOutput, error) {
	page, perPage := normalizePage(input.Page, input.PerPage)

	query := repository.ListOrdersQuery{
		Status:  input.Status,
		Page:    page,
		PerPage: perPage,
	}
	switch input.Role {
	case entity.RoleProducer:
		query.SellerID = &input.UserID
	case entity.RoleAdmin:
		// No party filter.
	default:
		query.BuyerID = &input.UserID
	}

	orders, total, err := srv.orderRepo.ListOrders(ctx, query)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderListOutput{
		Orders:  orders,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// GetOrder returns one order. Only the buyer, the seller or an admin may view it.
func (srv *orderService) GetOrder(ctx context.Context, userID uuid.UUID, role entity.Role, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound.WrapMessage("order lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if role != entity.RoleAdmin && order.BuyerID != userID && order.SellerID != userID {
		return nil, domainerrors.ErrForbidden.WrapMessage("order belongs to other parties")
	}

	return order, nil
}

// CancelOrder cancels a non-terminal order. Either party to the order, the
// buyer or the seller, may cancel; optional details are folded into the
// stored reason.
func (srv *orderService) CancelOrder(ctx context.Context, input *usecase.CancelOrderInput) (*usecase.CancelOrderOutput, error) {
	srv.log(ctx).Info("Cancelling order", slog.Any("order_id", input.OrderID), slog.Any("user_id", input.UserID))

	var cancelled *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		// 1. Existence before ownership
		order, err := orderRepo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound.WrapMessage("order lookup failed")
			}

			return errors.Wrap(err, "failed to find order")
		}
		if order.BuyerID != input.UserID && order.SellerID != input.UserID {
			return domainerrors.ErrForbidden.WrapMessage("only the buyer or seller may cancel")
		}

		// 2. The entity guards terminal statuses
		if err := order.Cancel(cancelReason(input.Reason, input.Details), timeNow()); err != nil {
			return domainerrors.ErrOrderNotCancellable.WrapMessage(err.Error())
		}

		if err := orderRepo.UpdateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to persist cancellation")
		}
		cancelled = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Cancel failed", slog.Any("error", err), slog.Any("order_id", input.OrderID))

		return nil, errors.Wrap(err, "failed to cancel order")
	}

	srv.publishOrderEvent(ctx, service.OrderEventCancelled, cancelled)

	return &usecase.CancelOrderOutput{
		Order:  cancelled,
		Refund: cancelled.RefundForCancellation(),
	}, nil
}

// SetOrderStatus overwrites an order's status without transition checks. Operator-only.
func (srv *orderService) SetOrderStatus(ctx context.Context, input *usecase.SetOrderStatusInput) (*entity.Order, error) {
	if !input.Status.IsValid() {
		return nil, domainerrors.ErrInvalidOrderStatus.WrapMessage("unknown status")
	}

	var updated *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := orderRepo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound.WrapMessage("order lookup failed")
			}

			return errors.Wrap(err, "failed to find order")
		}

		order.SetStatus(input.Status, timeNow())
		if err := orderRepo.UpdateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to persist status")
		}
		updated = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Status overwrite failed", slog.Any("error", err), slog.Any("order_id", input.OrderID))

		return nil, errors.Wrap(err, "failed to set order status")
	}

	srv.publishOrderEvent(ctx, service.OrderEventStatusChanged, updated)

	return updated, nil
}

// resolveAddress picks the delivery address: the requested one (owned by the
// caller) or the caller's primary address.
func (srv *orderService) resolveAddress(ctx context.Context, addressRepo repository.AddressRepository, input *usecase.CheckoutInput) (*entity.Address, error) {
	if input.AddressID != nil {
		address, err := addressRepo.FindAddressByID(ctx, *input.AddressID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return nil, domainerrors.ErrAddressNotFound.WrapMessage("address lookup failed")
			}

			return nil, errors.Wrap(err, "failed to find address")
		}
		if address.UserID != input.UserID {
			return nil, domainerrors.ErrForbidden.WrapMessage("address belongs to another user")
		}

		return address, nil
	}

	address, err := addressRepo.FindPrimaryAddressByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, domainerrors.ErrDeliveryAddressRequired.WrapMessage("no primary address")
		}

		return nil, errors.Wrap(err, "failed to find primary address")
	}

	return address, nil
}

// deliveryFeeFor quotes the delivery fee for one seller's shipment.
// Without a quoter, or when either endpoint lacks coordinates, the flat fee applies.
func (srv *orderService) deliveryFeeFor(ctx context.Context, addressRepo repository.AddressRepository, sellerID uuid.UUID, to *entity.Address) float64 {
	if srv.quoter == nil {
		return srv.deliveryFee
	}

	from, err := addressRepo.FindPrimaryAddressByUserID(ctx, sellerID)
	if err != nil {
		return srv.deliveryFee
	}

	return srv.quoter.Quote(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

func (srv *orderService) buildPaymentInfo(ctx context.Context, orders []*entity.Order) *usecase.PaymentInfo {
	var total float64
	for _, order := range orders {
		total += order.TotalAmount
	}

	info := &usecase.PaymentInfo{
		Method:       paymentMethodBankTransfer,
		TotalAmount:  total,
		Instructions: "Transfer the total amount and reference your order number. Orders unpaid after 24 hours are released.",
	}

	if srv.qrService != nil && len(orders) > 0 {
		png, err := srv.qrService.GeneratePaymentQR(orders[0].OrderNumber, total)
		if err != nil {
			srv.log(ctx).Warn("Payment QR generation failed", slog.Any("error", err))
		} else {
			info.QRCode = base64.StdEncoding.EncodeToString(png)
		}
	}

	return info
}

// publishOrderEvent emits a lifecycle event after the surrounding transaction
// committed. Publish failures are logged, never surfaced to the caller.
func (srv *orderService) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	if srv.publisher == nil {
		return
	}

	event := &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Type:        eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID.String(),
		SellerID:    order.SellerID.String(),
		Status:      order.Status.String(),
		TotalAmount: order.TotalAmount,
	}
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.Any("error", err), slog.String("type", eventType), slog.String("order_number", order.OrderNumber))
	}
}

// groupBySeller splits cart lines by the seller of their product.
// Lines whose product is gone cannot be priced to a seller and fail the checkout.
func groupBySeller(items []entity.CartItem) (map[uuid.UUID][]entity.CartItem, error) {
	grouped := make(map[uuid.UUID][]entity.CartItem)
	for i := range items {
		if items[i].Product == nil {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("cart line references a removed product")
		}
		sellerID := items[i].Product.SellerID
		grouped[sellerID] = append(grouped[sellerID], items[i])
	}

	return grouped, nil
}

// buildOrderItems freezes cart lines into order line snapshots.
func buildOrderItems(items []entity.CartItem) []entity.OrderItem {
	frozen := make([]entity.OrderItem, 0, len(items))
	for i := range items {
		item := items[i]
		frozen = append(frozen, entity.OrderItem{
			ID:            uuid.New(),
			ProductID:     item.ProductID,
			ProductName:   item.Product.Name,
			ProductImage:  item.Product.ImageURL,
			Unit:          item.Product.Unit,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountPrice: item.DiscountPrice,
			Subtotal:      item.Subtotal,
		})
	}

	return frozen
}

// cancelReason combines the caller's reason with its optional elaboration.
func cancelReason(reason, details string) string {
	if details == "" {
		return reason
	}

	return reason + ": " + details
}

// generateOrderNumber builds a human-facing order number: "FM", the date,
// and six random digits.
func generateOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		n = big.NewInt(0)
	}

	return fmt.Sprintf("FM%s%06d", now.Format("20060102"), n.Int64())
}
