// Package handler contains the HTTP handlers for the application.
package handler

import (
	"strconv"
	"time"

	"harvest/internal/domain/entity"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
)

// parsePagination reads the page and per_page query parameters.
// Out-of-range values are normalized again by the use case layer.
func parsePagination(c echo.Context) (int, int) {
	page := defaultPage
	if raw := c.QueryParam("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page = v
		}
	}

	perPage := defaultPerPage
	if raw := c.QueryParam("per_page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			perPage = v
		}
	}

	return page, perPage
}

// --- User ---

// UserResponse is the public view of an account. Credentials never leave the server.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	IsOnline  bool       `json:"is_online"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Role:      user.Role.String(),
		AvatarURL: user.AvatarURL,
		IsOnline:  user.IsOnline,
		LastSeen:  user.LastSeen,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse carries the token pair and the account it belongs to.
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

func toAuthResponse(output *usecase.AuthOutput) *AuthResponse {
	return &AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         toUserResponse(output.User),
	}
}

// --- Catalog ---

// DiscountResponse is the public view of a discount.
type DiscountResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	IsActive   bool      `json:"is_active"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
}

func toDiscountResponse(discount *entity.Discount) *DiscountResponse {
	if discount == nil {
		return nil
	}

	return &DiscountResponse{
		ID:         discount.ID,
		ProductID:  discount.ProductID,
		Type:       string(discount.Type),
		Value:      discount.Value,
		IsActive:   discount.IsActive,
		ValidFrom:  discount.ValidFrom,
		ValidUntil: discount.ValidUntil,
	}
}

// ProductResponse is the public view of a listing. The price block reflects
// the effective price resolved at read time.
type ProductResponse struct {
	ID             uuid.UUID         `json:"id"`
	SellerID       uuid.UUID         `json:"seller_id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Price          float64           `json:"price"`
	EffectivePrice float64           `json:"effective_price"`
	Discount       *DiscountResponse `json:"discount,omitempty"`
	Unit           string            `json:"unit"`
	Stock          int               `json:"stock"`
	ImageURL       string            `json:"image_url,omitempty"`
	IsAvailable    bool              `json:"is_available"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func toProductResponse(product *entity.Product) *ProductResponse {
	if product == nil {
		return nil
	}

	return &ProductResponse{
		ID:             product.ID,
		SellerID:       product.SellerID,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		EffectivePrice: product.Price,
		Unit:           product.Unit,
		Stock:          product.Stock,
		ImageURL:       product.ImageURL,
		IsAvailable:    product.IsAvailable,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func toQuotedProductResponse(output *usecase.ProductOutput) *ProductResponse {
	resp := toProductResponse(output.Product)
	resp.Price = output.Quote.OriginalPrice
	resp.EffectivePrice = output.Quote.EffectivePrice
	resp.Discount = toDiscountResponse(output.Quote.Discount)

	return resp
}

func toQuotedProductResponses(outputs []*usecase.ProductOutput) []*ProductResponse {
	responses := make([]*ProductResponse, 0, len(outputs))
	for _, output := range outputs {
		responses = append(responses, toQuotedProductResponse(output))
	}

	return responses
}

// --- Cart ---

// CartItemResponse is one line of the cart view.
type CartItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	Quantity      int              `json:"quantity"`
	UnitPrice     float64          `json:"unit_price"`
	DiscountPrice float64          `json:"discount_price"`
	Subtotal      float64          `json:"subtotal"`
	IsSelected    bool             `json:"is_selected"`
	Notes         string           `json:"notes,omitempty"`
	Product       *ProductResponse `json:"product,omitempty"`
}

func toCartItemResponse(item *entity.CartItem) *CartItemResponse {
	if item == nil {
		return nil
	}

	return &CartItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		DiscountPrice: item.DiscountPrice,
		Subtotal:      item.Subtotal,
		IsSelected:    item.IsSelected,
		Notes:         item.Notes,
		Product:       toProductResponse(item.Product),
	}
}

// CartResponse is the full cart view with aggregate totals.
type CartResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Items              []*CartItemResponse `json:"items"`
	TotalItems         int                 `json:"total_items"`
	GrandTotal         float64             `json:"grand_total"`
	SelectedItemsTotal float64             `json:"selected_items_total"`
}

func toCartResponse(output *usecase.CartOutput) *CartResponse {
	items := make([]*CartItemResponse, 0, len(output.Cart.Items))
	for i := range output.Cart.Items {
		items = append(items, toCartItemResponse(&output.Cart.Items[i]))
	}

	return &CartResponse{
		ID:                 output.Cart.ID,
		Items:              items,
		TotalItems:         output.TotalItems,
		GrandTotal:         output.GrandTotal,
		SelectedItemsTotal: output.SelectedItemsTotal,
	}
}

// CartItemMutationResponse returns the mutated line plus the cart counters the
// storefront needs to refresh its badge.
type CartItemMutationResponse struct {
	Item               *CartItemResponse `json:"item"`
	CartTotalItems     int               `json:"cart_total_items"`
	CartGrandTotal     float64           `json:"cart_grand_total"`
	SelectedItemsTotal float64           `json:"selected_items_total"`
}

func toCartItemMutationResponse(output *usecase.CartItemOutput) *CartItemMutationResponse {
	return &CartItemMutationResponse{
		Item:               toCartItemResponse(output.Item),
		CartTotalItems:     output.CartTotalItems,
		CartGrandTotal:     output.CartGrandTotal,
		SelectedItemsTotal: output.SelectedItemsTotal,
	}
}

// --- Orders ---

// OrderItemResponse is one frozen line of an order.
type OrderItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductImage  string    `json:"product_image,omitempty"`
	Unit          string    `json:"unit"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	DiscountPrice float64   `json:"discount_price"`
	Subtotal      float64   `json:"subtotal"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     string               `json:"order_number"`
	BuyerID         uuid.UUID            `json:"buyer_id"`
	SellerID        uuid.UUID            `json:"seller_id"`
	Status          string               `json:"status"`
	Items           []*OrderItemResponse `json:"items"`
	Subtotal        float64              `json:"subtotal"`
	DeliveryFee     float64              `json:"delivery_fee"`
	ServiceFee      float64              `json:"service_fee"`
	TotalDiscount   float64              `json:"total_discount"`
	TotalAmount     float64              `json:"total_amount"`
	DeliveryAddress string               `json:"delivery_address"`
	Notes           string               `json:"notes,omitempty"`
	PaymentMethod   string               `json:"payment_method"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	DeliveredAt     *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toOrderResponse(order *entity.Order) *OrderResponse {
	if order == nil {
		return nil
	}

	items := make([]*OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, &OrderItemResponse{
			ID:            item.ID,
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

	return &OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		SellerID:        order.SellerID,
		Status:          order.Status.String(),
		Items:           items,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		ServiceFee:      order.ServiceFee,
		TotalDiscount:   order.TotalDiscount,
		TotalAmount:     order.TotalAmount,
		DeliveryAddress: order.DeliveryAddress,
		Notes:           order.Notes,
		PaymentMethod:   order.PaymentMethod,
		PaidAt:          order.PaidAt,
		DeliveredAt:     order.DeliveredAt,
		CancelledAt:     order.CancelledAt,
		CancelReason:    order.CancelReason,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toOrderResponses(orders []*entity.Order) []*OrderResponse {
	responses := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	return responses
}

// OrderTimelineEntry marks one lifecycle milestone of an order.
type OrderTimelineEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderDetailResponse is the single-order view: the order plus the timeline
// of milestones it has passed through.
type OrderDetailResponse struct {
	*OrderResponse
	Timeline []OrderTimelineEntry `json:"timeline"`
}

func toOrderDetailResponse(order *entity.Order) *OrderDetailResponse {
	if order == nil {
		return nil
	}

	timeline := []OrderTimelineEntry{
		{Status: entity.OrderPendingPayment.String(), Timestamp: order.CreatedAt},
	}
	if order.PaidAt != nil {
		timeline = append(timeline, OrderTimelineEntry{Status: entity.OrderPaid.String(), Timestamp: *order.PaidAt})
	}
	if order.CancelledAt != nil {
		timeline = append(timeline, OrderTimelineEntry{Status: entity.OrderCancelled.String(), Timestamp: *order.CancelledAt})
	}

	return &OrderDetailResponse{
		OrderResponse: toOrderResponse(order),
		Timeline:      timeline,
	}
}

// PaymentResponse describes how the buyer settles the created orders.
type PaymentResponse struct {
	Method       string  `json:"method"`
	TotalAmount  float64 `json:"total_amount"`
	Instructions string  `json:"instructions,omitempty"`
	QRCode       string  `json:"qr_code,omitempty"`
}

// CheckoutResponse returns the orders created by one checkout.
type CheckoutResponse struct {
	Orders  []*OrderResponse `json:"orders"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}

func toCheckoutResponse(output *usecase.CheckoutOutput) *CheckoutResponse {
	resp := &CheckoutResponse{
		Orders: toOrderResponses(output.Orders),
	}

	if output.Payment != nil {
		resp.Payment = &PaymentResponse{
			Method:       output.Payment.Method,
			TotalAmount:  output.Payment.TotalAmount,
			Instructions: output.Payment.Instructions,
			QRCode:       output.Payment.QRCode,
		}
	}

	return resp
}

// RefundResponse describes the money returned after cancelling a paid order.
type RefundResponse struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	EstimatedDays int     `json:"estimated_days"`
}

// CancelOrderResponse returns the cancelled order and the refund owed, if any.
type CancelOrderResponse struct {
	Order  *OrderResponse  `json:"order"`
	Refund *RefundResponse `json:"refund,omitempty"`
}

func toCancelOrderResponse(output *usecase.CancelOrderOutput) *CancelOrderResponse {
	resp := &CancelOrderResponse{
		Order: toOrderResponse(output.Order),
	}

	if output.Refund != nil {
		resp.Refund = &RefundResponse{
			Amount:        output.Refund.Amount,
			Method:        output.Refund.Method,
			EstimatedDays: output.Refund.EstimatedDays,
		}
	}

	return resp
}

// --- Addresses ---

// AddressResponse is the public view of a delivery address.
type AddressResponse struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label,omitempty"`
	Recipient   string    `json:"recipient"`
	Phone       string    `json:"phone"`
	FullAddress string    `json:"full_address"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAddressResponse(address *entity.Address) *AddressResponse {
	if address == nil {
		return nil
	}

	return &AddressResponse{
		ID:          address.ID,
		Label:       address.Label,
		Recipient:   address.Recipient,
		Phone:       address.Phone,
		FullAddress: address.FullAddress,
		Latitude:    address.Latitude,
		Longitude:   address.Longitude,
		IsPrimary:   address.IsPrimary,
		CreatedAt:   address.CreatedAt,
	}
}

func toAddressResponses(addresses []*entity.Address) []*AddressResponse {
	responses := make([]*AddressResponse, 0, len(addresses))
	for _, address := range addresses {
		responses = append(responses, toAddressResponse(address))
	}

	return responses
}
