package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "harvest/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newErrorContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestHandleHTTPError_AppError(t *testing.T) {
	m := NewErrorMiddleware(slog.Default())

	c, rec := newErrorContext()
	m.HandleHTTPError(errors.WithStack(domainerrors.ErrProductNotFound), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"status":"error"`)
	assert.Contains(t, body, "PRODUCT_NOT_FOUND")
	assert.Contains(t, body, "Product not found")
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	m := NewErrorMiddleware(slog.Default())

	c, rec := newErrorContext()
	m.HandleHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), c)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

func TestHandleHTTPError_UnexpectedErrorIsNotLeaked(t *testing.T) {
	m := NewErrorMiddleware(slog.Default())

	c, rec := newErrorContext()
	m.HandleHTTPError(errors.New("pq: connection reset by peer"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Internal server error")
	assert.NotContains(t, body, "connection reset")
}

func TestHandleHTTPError_CommittedResponseIsLeftAlone(t *testing.T) {
	m := NewErrorMiddleware(slog.Default())

	c, rec := newErrorContext()
	c.Response().WriteHeader(http.StatusOK)

	m.HandleHTTPError(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
}
