package handler

import (
	"net/http"

	"harvest/internal/delivery/http/middleware"
	"harvest/internal/delivery/http/response"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order lifecycle handlers.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type checkoutRequest struct {
	AddressID *uuid.UUID `json:"address_id"`
	Notes     string     `json:"notes"`
}

// Checkout converts the cart's selected lines into orders, one per seller.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}

	output, err := h.uc.Checkout(c.Request().Context(), &usecase.CheckoutInput{
		UserID:    userID,
		AddressID: req.AddressID,
		Notes:     req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCheckoutResponse(output), "Order placed successfully")
}

// List returns the caller's orders: placed orders for consumers, received
// orders for producers.
func (h *OrderHandler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	page, perPage := parsePagination(c)

	input := &usecase.ListOrdersInput{
		UserID:  userID,
		Role:    middleware.RoleFromContext(c),
		Page:    page,
		PerPage: perPage,
	}

	if raw := c.QueryParam("status"); raw != "" {
		status := entity.OrderStatus(raw)
		if !status.IsValid() {
			return response.BadRequest(c, "INVALID_ORDER_STATUS", "Invalid order status")
		}
		input.Status = &status
	}

	output, err := h.uc.ListOrders(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Paginated(c,
		toOrderResponses(output.Orders),
		response.NewPagination(output.Page, output.PerPage, output.Total),
		"",
	)
}

// Get returns one order. Only the buyer, the seller or an admin may view it.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), userID, middleware.RoleFromContext(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderDetailResponse(order), "")
}

type cancelOrderRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

// Cancel cancels a non-terminal order. Either the buyer or the seller may cancel.
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cancellation input")
	}

	output, err := h.uc.CancelOrder(c.Request().Context(), &usecase.CancelOrderInput{
		UserID:  userID,
		OrderID: orderID,
		Reason:  req.Reason,
		Details: req.Details,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCancelOrderResponse(output), "Order cancelled")
}

type setOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus overwrites an order's status without transition checks. Admin only.
func (h *OrderHandler) SetStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var req setOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	status := entity.OrderStatus(req.Status)
	if !status.IsValid() {
		return response.BadRequest(c, "INVALID_ORDER_STATUS", "Invalid order status")
	}

	order, err := h.uc.SetOrderStatus(c.Request().Context(), &usecase.SetOrderStatusInput{
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "Order status updated")
}
