package handler

import (
	"net/http"

	"harvest/internal/delivery/http/middleware"
	"harvest/internal/delivery/http/response"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CartHandler holds dependencies for shopping cart handlers.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get returns the caller's cart, creating an empty one on first use.
func (h *CartHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	output, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(output), "")
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Notes     string    `json:"notes"`
}

// AddItem puts a product into the cart at its current effective price.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.AddItem(c.Request().Context(), &usecase.AddCartItemInput{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCartItemMutationResponse(output), "Item added to cart")
}

type updateCartItemRequest struct {
	Quantity *int    `json:"quantity" validate:"omitempty,gt=0"`
	Notes    *string `json:"notes"`
}

// UpdateItem changes a line's quantity or note. Omitted fields stay as they are.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cart item ID")
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UpdateItem(c.Request().Context(), &usecase.UpdateCartItemInput{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartItemMutationResponse(output), "Cart item updated")
}

// RemoveItem deletes a line from the cart and returns the updated cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cart item ID")
	}

	output, err := h.uc.RemoveItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(output), "Cart item removed")
}

type selectCartItemRequest struct {
	IsSelected *bool `json:"is_selected" validate:"required"`
}

// SetSelected toggles whether a line participates in checkout.
func (h *CartHandler) SetSelected(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cart item ID")
	}

	var req selectCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid selection input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.SetSelected(c.Request().Context(), &usecase.SelectCartItemInput{
		UserID:     userID,
		ItemID:     itemID,
		IsSelected: *req.IsSelected,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartItemMutationResponse(output), "Cart item selection updated")
}

// Clear removes every line from the caller's cart.
func (h *CartHandler) Clear(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart cleared")
}
