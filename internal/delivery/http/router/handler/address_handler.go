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

// AddressHandler holds dependencies for delivery address handlers.
type AddressHandler struct {
	uc usecase.AddressUsecase
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

// List returns all of the caller's addresses, primary first.
func (h *AddressHandler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	addresses, err := h.uc.ListAddresses(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAddressResponses(addresses), "")
}

type createAddressRequest struct {
	Label       string  `json:"label"`
	Recipient   string  `json:"recipient" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	FullAddress string  `json:"full_address" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   float64 `json:"longitude" validate:"omitempty,longitude"`
	IsPrimary   bool    `json:"is_primary"`
}

// Create adds an address. The caller's first address becomes primary.
func (h *AddressHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	var req createAddressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	address, err := h.uc.CreateAddress(c.Request().Context(), &usecase.CreateAddressInput{
		UserID:      userID,
		Label:       req.Label,
		Recipient:   req.Recipient,
		Phone:       req.Phone,
		FullAddress: req.FullAddress,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAddressResponse(address), "Address created successfully")
}

type updateAddressRequest struct {
	Label       *string  `json:"label"`
	Recipient   *string  `json:"recipient"`
	Phone       *string  `json:"phone"`
	FullAddress *string  `json:"full_address"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// Update patches an address the caller owns. Absent fields are left unchanged.
func (h *AddressHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	var req updateAddressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	address, err := h.uc.UpdateAddress(c.Request().Context(), &usecase.UpdateAddressInput{
		UserID:      userID,
		AddressID:   addressID,
		Label:       req.Label,
		Recipient:   req.Recipient,
		Phone:       req.Phone,
		FullAddress: req.FullAddress,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAddressResponse(address), "Address updated successfully")
}

// Delete removes an address the caller owns.
func (h *AddressHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Address deleted successfully")
}

// SetPrimary promotes an address to primary, demoting the others.
func (h *AddressHandler) SetPrimary(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid address ID")
	}

	address, err := h.uc.SetPrimaryAddress(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAddressResponse(address), "Primary address updated")
}
