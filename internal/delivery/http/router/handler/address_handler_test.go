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

func TestAddressHandler_Create(t *testing.T) {
	userID := uuid.New()
	uc := &fakeAddressUsecase{
		CreateAddressFn: func(_ context.Context, input *usecase.CreateAddressInput) (*entity.Address, error) {
			assert.Equal(t, userID, input.UserID)
			assert.InDelta(t, 25.0330, input.Latitude, 1e-9)

			return &entity.Address{
				ID:          uuid.New(),
				UserID:      input.UserID,
				Recipient:   input.Recipient,
				Phone:       input.Phone,
				FullAddress: input.FullAddress,
				IsPrimary:   true,
			}, nil
		},
	}
	h := NewAddressHandler(uc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/addresses",
		`{"recipient":"Amy","phone":"0912345678","full_address":"1 Market St","latitude":25.0330,"longitude":121.5654}`)
	authenticate(c, userID, entity.RoleConsumer)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_primary":true`)
}

func TestAddressHandler_Create_RejectsMissingRecipient(t *testing.T) {
	h := NewAddressHandler(&fakeAddressUsecase{})

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/addresses",
		`{"phone":"0912345678","full_address":"1 Market St"}`)
	authenticate(c, uuid.New(), entity.RoleConsumer)

	err := h.Create(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAddressHandler_SetPrimary(t *testing.T) {
	userID := uuid.New()
	addressID := uuid.New()
	uc := &fakeAddressUsecase{
		SetPrimaryAddressFn: func(_ context.Context, uid, aid uuid.UUID) (*entity.Address, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, addressID, aid)

			return &entity.Address{ID: aid, UserID: uid, IsPrimary: true}, nil
		},
	}
	h := NewAddressHandler(uc)

	c, rec := newTestContext(t, http.MethodPatch, "/api/v1/addresses/"+addressID.String()+"/primary", "")
	c.SetParamNames("id")
	c.SetParamValues(addressID.String())
	authenticate(c, userID, entity.RoleConsumer)

	require.NoError(t, h.SetPrimary(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_primary":true`)
}

func TestAddressHandler_Delete_ForeignAddress(t *testing.T) {
	uc := &fakeAddressUsecase{
		DeleteAddressFn: func(_ context.Context, _, _ uuid.UUID) error {
			return domainerrors.ErrForbidden
		},
	}
	h := NewAddressHandler(uc)

	addressID := uuid.New()
	c, _ := newTestContext(t, http.MethodDelete, "/api/v1/addresses/"+addressID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(addressID.String())
	authenticate(c, uuid.New(), entity.RoleConsumer)

	err := h.Delete(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode())
}
