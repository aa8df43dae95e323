package handler

import (
	"net/http"
	"time"

	"harvest/internal/delivery/http/middleware"
	"harvest/internal/delivery/http/response"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc usecase.CatalogUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List returns a page of the catalog with effective prices resolved.
// Unavailable listings are hidden unless available=false is passed,
// which sellers use to review their own drafts.
func (h *ProductHandler) List(c echo.Context) error {
	page, perPage := parsePagination(c)

	input := &usecase.ListProductsInput{
		AvailableOnly: c.QueryParam("available") != "false",
		Page:          page,
		PerPage:       perPage,
	}

	if raw := c.QueryParam("seller_id"); raw != "" {
		sellerID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid seller_id")
		}
		input.SellerID = &sellerID
	}

	output, err := h.uc.ListProducts(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Paginated(c,
		toQuotedProductResponses(output.Products),
		response.NewPagination(output.Page, output.PerPage, output.Total),
		"",
	)
}

// Get returns one product with its effective price resolved.
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	output, err := h.uc.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toQuotedProductResponse(output), "")
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
}

// Create adds a listing owned by the calling producer.
func (h *ProductHandler) Create(c echo.Context) error {
	sellerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), &usecase.CreateProductInput{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductResponse(product), "Product created successfully")
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Unit        *string  `json:"unit"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
}

// Update patches a listing the calling producer owns. Absent fields are left unchanged.
func (h *ProductHandler) Update(c echo.Context) error {
	sellerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), &usecase.UpdateProductInput{
		ProductID:   productID,
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product), "Product updated successfully")
}

// Delete removes a listing the calling producer owns.
func (h *ProductHandler) Delete(c echo.Context) error {
	sellerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), productID, sellerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

type addDiscountRequest struct {
	Type       string    `json:"type" validate:"required,oneof=PERCENTAGE FIXED"`
	Value      float64   `json:"value" validate:"required,gt=0"`
	ValidFrom  time.Time `json:"valid_from" validate:"required"`
	ValidUntil time.Time `json:"valid_until" validate:"required"`
}

// AddDiscount attaches a discount to a listing the calling producer owns.
func (h *ProductHandler) AddDiscount(c echo.Context) error {
	sellerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var req addDiscountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid discount input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	discount, err := h.uc.AddDiscount(c.Request().Context(), &usecase.AddDiscountInput{
		ProductID:  productID,
		SellerID:   sellerID,
		Type:       entity.DiscountType(req.Type),
		Value:      req.Value,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toDiscountResponse(discount), "Discount added successfully")
}
