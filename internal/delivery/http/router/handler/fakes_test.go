package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"harvest/internal/delivery/http/middleware"
	"harvest/internal/delivery/http/validator"
	"harvest/internal/domain/entity"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// newTestContext builds an echo context with the request validator wired,
// mirroring the server setup.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID uuid.UUID, role entity.Role) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, role.String())
}

type fakeAccountUsecase struct {
	RegisterFn       func(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error)
	LoginFn          func(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error)
	RefreshTokenFn   func(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error)
	LogoutFn         func(ctx context.Context, userID uuid.UUID, refreshToken string) error
	GetProfileFn     func(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ChangePasswordFn func(ctx context.Context, input *usecase.ChangePasswordInput) error
}

func (f *fakeAccountUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	return f.RegisterFn(ctx, input)
}

func (f *fakeAccountUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	return f.LoginFn(ctx, input)
}

func (f *fakeAccountUsecase) RefreshToken(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	return f.RefreshTokenFn(ctx, refreshToken)
}

func (f *fakeAccountUsecase) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return f.LogoutFn(ctx, userID, refreshToken)
}

func (f *fakeAccountUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return f.GetProfileFn(ctx, userID)
}

func (f *fakeAccountUsecase) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	return f.ChangePasswordFn(ctx, input)
}

type fakeCatalogUsecase struct {
	ListProductsFn  func(ctx context.Context, input *usecase.ListProductsInput) (*usecase.ProductListOutput, error)
	GetProductFn    func(ctx context.Context, productID uuid.UUID) (*usecase.ProductOutput, error)
	CreateProductFn func(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error)
	UpdateProductFn func(ctx context.Context, input *usecase.UpdateProductInput) (*entity.Product, error)
	DeleteProductFn func(ctx context.Context, productID, sellerID uuid.UUID) error
	AddDiscountFn   func(ctx context.Context, input *usecase.AddDiscountInput) (*entity.Discount, error)
}

func (f *fakeCatalogUsecase) ListProducts(ctx context.Context, input *usecase.ListProductsInput) (*usecase.ProductListOutput, error) {
	return f.ListProductsFn(ctx, input)
}

func (f *fakeCatalogUsecase) GetProduct(ctx context.Context, productID uuid.UUID) (*usecase.ProductOutput, error) {
	return f.GetProductFn(ctx, productID)
}

func (f *fakeCatalogUsecase) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	return f.CreateProductFn(ctx, input)
}

func (f *fakeCatalogUsecase) UpdateProduct(ctx context.Context, input *usecase.UpdateProductInput) (*entity.Product, error) {
	return f.UpdateProductFn(ctx, input)
}

func (f *fakeCatalogUsecase) DeleteProduct(ctx context.Context, productID, sellerID uuid.UUID) error {
	return f.DeleteProductFn(ctx, productID, sellerID)
}

func (f *fakeCatalogUsecase) AddDiscount(ctx context.Context, input *usecase.AddDiscountInput) (*entity.Discount, error) {
	return f.AddDiscountFn(ctx, input)
}

type fakeCartUsecase struct {
	GetCartFn     func(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error)
	AddItemFn     func(ctx context.Context, input *usecase.AddCartItemInput) (*usecase.CartItemOutput, error)
	UpdateItemFn  func(ctx context.Context, input *usecase.UpdateCartItemInput) (*usecase.CartItemOutput, error)
	RemoveItemFn  func(ctx context.Context, userID, itemID uuid.UUID) (*usecase.CartOutput, error)
	SetSelectedFn func(ctx context.Context, input *usecase.SelectCartItemInput) (*usecase.CartItemOutput, error)
	ClearCartFn   func(ctx context.Context, userID uuid.UUID) error
}

func (f *fakeCartUsecase) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	return f.GetCartFn(ctx, userID)
}

func (f *fakeCartUsecase) AddItem(ctx context.Context, input *usecase.AddCartItemInput) (*usecase.CartItemOutput, error) {
	return f.AddItemFn(ctx, input)
}

func (f *fakeCartUsecase) UpdateItem(ctx context.Context, input *usecase.UpdateCartItemInput) (*usecase.CartItemOutput, error) {
	return f.UpdateItemFn(ctx, input)
}

func (f *fakeCartUsecase) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*usecase.CartOutput, error) {
	return f.RemoveItemFn(ctx, userID, itemID)
}

func (f *fakeCartUsecase) SetSelected(ctx context.Context, input *usecase.SelectCartItemInput) (*usecase.CartItemOutput, error) {
	return f.SetSelectedFn(ctx, input)
}

func (f *fakeCartUsecase) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return f.ClearCartFn(ctx, userID)
}

type fakeOrderUsecase struct {
	CheckoutFn       func(ctx context.Context, input *usecase.CheckoutInput) (*usecase.CheckoutOutput, error)
	ListOrdersFn     func(ctx context.Context, input *usecase.ListOrdersInput) (*usecase.OrderListOutput, error)
	GetOrderFn       func(ctx context.Context, userID uuid.UUID, role entity.Role, orderID uuid.UUID) (*entity.Order, error)
	CancelOrderFn    func(ctx context.Context, input *usecase.CancelOrderInput) (*usecase.CancelOrderOutput, error)
	SetOrderStatusFn func(ctx context.Context, input *usecase.SetOrderStatusInput) (*entity.Order, error)
}

func (f *fakeOrderUsecase) Checkout(ctx context.Context, input *usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	return f.CheckoutFn(ctx, input)
}

func (f *fakeOrderUsecase) ListOrders(ctx context.Context, input *usecase.ListOrdersInput) (*usecase.OrderListOutput, error) {
	return f.ListOrdersFn(ctx, input)
}

func (f *fakeOrderUsecase) GetOrder(ctx context.Context, userID uuid.UUID, role entity.Role, orderID uuid.UUID) (*entity.Order, error) {
	return f.GetOrderFn(ctx, userID, role, orderID)
}

func (f *fakeOrderUsecase) CancelOrder(ctx context.Context, input *usecase.CancelOrderInput) (*usecase.CancelOrderOutput, error) {
	return f.CancelOrderFn(ctx, input)
}

func (f *fakeOrderUsecase) SetOrderStatus(ctx context.Context, input *usecase.SetOrderStatusInput) (*entity.Order, error) {
	return f.SetOrderStatusFn(ctx, input)
}

type fakeAddressUsecase struct {
	ListAddressesFn     func(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	CreateAddressFn     func(ctx context.Context, input *usecase.CreateAddressInput) (*entity.Address, error)
	UpdateAddressFn     func(ctx context.Context, input *usecase.UpdateAddressInput) (*entity.Address, error)
	DeleteAddressFn     func(ctx context.Context, userID, addressID uuid.UUID) error
	SetPrimaryAddressFn func(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error)
}

func (f *fakeAddressUsecase) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	return f.ListAddressesFn(ctx, userID)
}

func (f *fakeAddressUsecase) CreateAddress(ctx context.Context, input *usecase.CreateAddressInput) (*entity.Address, error) {
	return f.CreateAddressFn(ctx, input)
}

func (f *fakeAddressUsecase) UpdateAddress(ctx context.Context, input *usecase.UpdateAddressInput) (*entity.Address, error) {
	return f.UpdateAddressFn(ctx, input)
}

func (f *fakeAddressUsecase) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return f.DeleteAddressFn(ctx, userID, addressID)
}

func (f *fakeAddressUsecase) SetPrimaryAddress(ctx context.Context, userID, addressID uuid.UUID) (*entity.Address, error) {
	return f.SetPrimaryAddressFn(ctx, userID, addressID)
}
