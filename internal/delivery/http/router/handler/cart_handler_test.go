package handler

import (
	"context"
	"net/http"
	"testing"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Get(t *testing.T) {
	userID := uuid.New()
	uc := &fakeCartUsecase{
		GetCartFn: func(_ context.Context, id uuid.UUID) (*usecase.CartOutput, error) {
			assert.Equal(t, userID, id)

			return &usecase.CartOutput{
				Cart: &entity.Cart{
					ID:     uuid.New(),
					UserID: id,
					Items: []entity.CartItem{
						{ID: uuid.New(), Quantity: 2, DiscountPrice: 8, Subtotal: 16, IsSelected: true},
					},
				},
				TotalItems:         1,
				GrandTotal:         16,
				SelectedItemsTotal: 16,
			}, nil
		},
	}
	h := NewCartHandler(uc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/cart", "")
	authenticate(c, userID, entity.RoleConsumer)

	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	// One line of two units counts as one item.
	assert.Contains(t, body, `"total_items":1`)
	assert.Contains(t, body, `"grand_total":16`)
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	uc := &fakeCartUsecase{
		AddItemFn: func(_ context.Context, input *usecase.AddCartItemInput) (*usecase.CartItemOutput, error) {
			assert.Equal(t, productID, input.ProductID)
			assert.Equal(t, 3, input.Quantity)
			assert.Equal(t, "ripe ones please", input.Notes)

			return &usecase.CartItemOutput{
				Item:           &entity.CartItem{ID: uuid.New(), ProductID: productID, Quantity: 3, Subtotal: 24, Notes: input.Notes},
				CartTotalItems: 1,
				CartGrandTotal: 24,
			}, nil
		},
	}
	h := NewCartHandler(uc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"`+productID.String()+`","quantity":3,"notes":"ripe ones please"}`)
	authenticate(c, userID, entity.RoleConsumer)

	require.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"cart_total_items":1`)
	assert.Contains(t, body, `"notes":"ripe ones please"`)
}

func TestCartHandler_AddItem_RejectsZeroQuantity(t *testing.T) {
	h := NewCartHandler(&fakeCartUsecase{})

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"`+uuid.New().String()+`","quantity":0}`)
	authenticate(c, uuid.New(), entity.RoleConsumer)

	err := h.AddItem(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestCartHandler_UpdateItem_NotesOnly(t *testing.T) {
	itemID := uuid.New()
	uc := &fakeCartUsecase{
		UpdateItemFn: func(_ context.Context, input *usecase.UpdateCartItemInput) (*usecase.CartItemOutput, error) {
			assert.Nil(t, input.Quantity)
			require.NotNil(t, input.Notes)
			assert.Equal(t, "smaller box this time", *input.Notes)

			return &usecase.CartItemOutput{
				Item: &entity.CartItem{ID: itemID, Quantity: 3, Notes: *input.Notes},
			}, nil
		},
	}
	h := NewCartHandler(uc)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/cart/items/"+itemID.String(),
		`{"notes":"smaller box this time"}`)
	c.SetParamNames("id")
	c.SetParamValues(itemID.String())
	authenticate(c, uuid.New(), entity.RoleConsumer)

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notes":"smaller box this time"`)
}

func TestCartHandler_SetSelected_RequiresFlag(t *testing.T) {
	h := NewCartHandler(&fakeCartUsecase{})

	itemID := uuid.New()
	c, _ := newTestContext(t, http.MethodPatch, "/api/v1/cart/items/"+itemID.String()+"/select", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(itemID.String())
	authenticate(c, uuid.New(), entity.RoleConsumer)

	err := h.SetSelected(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestCartHandler_SetSelected_AcceptsFalse(t *testing.T) {
	itemID := uuid.New()
	uc := &fakeCartUsecase{
		SetSelectedFn: func(_ context.Context, input *usecase.SelectCartItemInput) (*usecase.CartItemOutput, error) {
			assert.False(t, input.IsSelected)

			return &usecase.CartItemOutput{
				Item: &entity.CartItem{ID: itemID, IsSelected: false},
			}, nil
		},
	}
	h := NewCartHandler(uc)

	c, rec := newTestContext(t, http.MethodPatch, "/api/v1/cart/items/"+itemID.String()+"/select",
		`{"is_selected":false}`)
	c.SetParamNames("id")
	c.SetParamValues(itemID.String())
	authenticate(c, uuid.New(), entity.RoleConsumer)

	require.NoError(t, h.SetSelected(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_RemoveItem_UnknownLineIsNotFound(t *testing.T) {
	uc := &fakeCartUsecase{
		RemoveItemFn: func(_ context.Context, _, _ uuid.UUID) (*usecase.CartOutput, error) {
			return nil, domainerrors.ErrCartItemNotFound
		},
	}
	h := NewCartHandler(uc)

	itemID := uuid.New()
	c, _ := newTestContext(t, http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(itemID.String())
	authenticate(c, uuid.New(), entity.RoleConsumer)

	err := h.RemoveItem(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode())
}
