package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/repository"
	"harvest/internal/domain/service"

	"github.com/google/uuid"
)

// Function-field fakes standing in for the repository and service interfaces.
// Unset read functions report not-found; unset write functions succeed.

type fakeTxManager struct {
	factory *fakeFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type fakeFactory struct {
	userRepo    *fakeUserRepo
	tokenRepo   *fakeTokenRepo
	productRepo *fakeProductRepo
	cartRepo    *fakeCartRepo
	orderRepo   *fakeOrderRepo
	addressRepo *fakeAddressRepo
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		userRepo:    &fakeUserRepo{},
		tokenRepo:   &fakeTokenRepo{},
		productRepo: &fakeProductRepo{},
		cartRepo:    &fakeCartRepo{},
		orderRepo:   &fakeOrderRepo{},
		addressRepo: &fakeAddressRepo{},
	}
}

func (f *fakeFactory) NewUserRepository() repository.UserRepository                 { return f.userRepo }
func (f *fakeFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository { return f.tokenRepo }
func (f *fakeFactory) NewProductRepository() repository.ProductRepository           { return f.productRepo }
func (f *fakeFactory) NewCartRepository() repository.CartRepository                 { return f.cartRepo }
func (f *fakeFactory) NewOrderRepository() repository.OrderRepository               { return f.orderRepo }
func (f *fakeFactory) NewAddressRepository() repository.AddressRepository           { return f.addressRepo }

type fakeUserRepo struct {
	FindByIDFn    func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmailFn func(ctx context.Context, email string) (*entity.User, error)
	CreateFn      func(ctx context.Context, user *entity.User) error
	UpdateFn      func(ctx context.Context, user *entity.User) error
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if r.FindByIDFn == nil {
		return nil, repository.ErrUserNotFound
	}

	return r.FindByIDFn(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.FindByEmailFn == nil {
		return nil, repository.ErrUserNotFound
	}

	return r.FindByEmailFn(ctx, email)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if r.CreateFn == nil {
		return nil
	}

	return r.CreateFn(ctx, user)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if r.UpdateFn == nil {
		return nil
	}

	return r.UpdateFn(ctx, user)
}

type fakeTokenRepo struct {
	CreateRefreshTokenFn          func(ctx context.Context, token *entity.RefreshToken) error
	FindRefreshTokenByHashFn      func(ctx context.Context, hash string) (*entity.RefreshToken, error)
	UpdateRefreshTokenFn          func(ctx context.Context, token *entity.RefreshToken) error
	DeleteRefreshTokenFn          func(ctx context.Context, id uuid.UUID) error
	DeleteRefreshTokenByHashFn    func(ctx context.Context, hash string) error
	DeleteRefreshTokensByUserIDFn func(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredRefreshTokensFn  func(ctx context.Context) error
}

func (r *fakeTokenRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	if r.CreateRefreshTokenFn == nil {
		return nil
	}

	return r.CreateRefreshTokenFn(ctx, token)
}

func (r *fakeTokenRepo) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	if r.FindRefreshTokenByHashFn == nil {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return r.FindRefreshTokenByHashFn(ctx, hash)
}

func (r *fakeTokenRepo) UpdateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	if r.UpdateRefreshTokenFn == nil {
		return nil
	}

	return r.UpdateRefreshTokenFn(ctx, token)
}

func (r *fakeTokenRepo) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	if r.DeleteRefreshTokenFn == nil {
		return nil
	}

	return r.DeleteRefreshTokenFn(ctx, id)
}

func (r *fakeTokenRepo) DeleteRefreshTokenByHash(ctx context.Context, hash string) error {
	if r.DeleteRefreshTokenByHashFn == nil {
		return nil
	}

	return r.DeleteRefreshTokenByHashFn(ctx, hash)
}

func (r *fakeTokenRepo) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	if r.DeleteRefreshTokensByUserIDFn == nil {
		return nil
	}

	return r.DeleteRefreshTokensByUserIDFn(ctx, userID)
}

func (r *fakeTokenRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	if r.DeleteExpiredRefreshTokensFn == nil {
		return nil
	}

	return r.DeleteExpiredRefreshTokensFn(ctx)
}

type fakeProductRepo struct {
	CreateProductFn   func(ctx context.Context, product *entity.Product) error
	FindProductByIDFn func(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	ListProductsFn    func(ctx context.Context, query repository.ListProductsQuery) ([]*entity.Product, int64, error)
	UpdateProductFn   func(ctx context.Context, product *entity.Product) error
	DeleteProductFn   func(ctx context.Context, id uuid.UUID) error
	CreateDiscountFn  func(ctx context.Context, discount *entity.Discount) error
}

func (r *fakeProductRepo) CreateProduct(ctx context.Context, product *entity.Product) error {
	if r.CreateProductFn == nil {
		return nil
	}

	return r.CreateProductFn(ctx, product)
}

func (r *fakeProductRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	if r.FindProductByIDFn == nil {
		return nil, repository.ErrProductNotFound
	}

	return r.FindProductByIDFn(ctx, id)
}

func (r *fakeProductRepo) ListProducts(ctx context.Context, query repository.ListProductsQuery) ([]*entity.Product, int64, error) {
	if r.ListProductsFn == nil {
		return nil, 0, nil
	}

	return r.ListProductsFn(ctx, query)
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, product *entity.Product) error {
	if r.UpdateProductFn == nil {
		return nil
	}

	return r.UpdateProductFn(ctx, product)
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if r.DeleteProductFn == nil {
		return nil
	}

	return r.DeleteProductFn(ctx, id)
}

func (r *fakeProductRepo) CreateDiscount(ctx context.Context, discount *entity.Discount) error {
	if r.CreateDiscountFn == nil {
		return nil
	}

	return r.CreateDiscountFn(ctx, discount)
}

type fakeCartRepo struct {
	FindCartByUserIDFn func(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	GetOrCreateCartFn  func(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	UpsertItemFn       func(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)
	FindItemByIDFn     func(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)
	FindCartOwnerFn    func(ctx context.Context, cartID uuid.UUID) (uuid.UUID, error)
	UpdateItemFn       func(ctx context.Context, item *entity.CartItem) error
	DeleteItemFn       func(ctx context.Context, id uuid.UUID) error
	DeleteItemsFn      func(ctx context.Context, ids []uuid.UUID) error
	ClearCartFn        func(ctx context.Context, cartID uuid.UUID) error
}

func (r *fakeCartRepo) FindCartByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	if r.FindCartByUserIDFn == nil {
		return nil, repository.ErrCartNotFound
	}

	return r.FindCartByUserIDFn(ctx, userID)
}

func (r *fakeCartRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	if r.GetOrCreateCartFn == nil {
		return &entity.Cart{ID: uuid.New(), UserID: userID}, nil
	}

	return r.GetOrCreateCartFn(ctx, userID)
}

func (r *fakeCartRepo) UpsertItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	if r.UpsertItemFn == nil {
		return item, nil
	}

	return r.UpsertItemFn(ctx, item)
}

func (r *fakeCartRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	if r.FindItemByIDFn == nil {
		return nil, repository.ErrCartItemNotFound
	}

	return r.FindItemByIDFn(ctx, id)
}

func (r *fakeCartRepo) FindCartOwner(ctx context.Context, cartID uuid.UUID) (uuid.UUID, error) {
	if r.FindCartOwnerFn == nil {
		return uuid.Nil, repository.ErrCartNotFound
	}

	return r.FindCartOwnerFn(ctx, cartID)
}

func (r *fakeCartRepo) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	if r.UpdateItemFn == nil {
		return nil
	}

	return r.UpdateItemFn(ctx, item)
}

func (r *fakeCartRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if r.DeleteItemFn == nil {
		return nil
	}

	return r.DeleteItemFn(ctx, id)
}

func (r *fakeCartRepo) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	if r.DeleteItemsFn == nil {
		return nil
	}

	return r.DeleteItemsFn(ctx, ids)
}

func (r *fakeCartRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if r.ClearCartFn == nil {
		return nil
	}

	return r.ClearCartFn(ctx, cartID)
}

type fakeOrderRepo struct {
	CreateOrderFn   func(ctx context.Context, order *entity.Order) error
	FindOrderByIDFn func(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	ListOrdersFn    func(ctx context.Context, query repository.ListOrdersQuery) ([]*entity.Order, int64, error)
	UpdateOrderFn   func(ctx context.Context, order *entity.Order) error
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, order *entity.Order) error {
	if r.CreateOrderFn == nil {
		return nil
	}

	return r.CreateOrderFn(ctx, order)
}

func (r *fakeOrderRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if r.FindOrderByIDFn == nil {
		return nil, repository.ErrOrderNotFound
	}

	return r.FindOrderByIDFn(ctx, id)
}

func (r *fakeOrderRepo) ListOrders(ctx context.Context, query repository.ListOrdersQuery) ([]*entity.Order, int64, error) {
	if r.ListOrdersFn == nil {
		return nil, 0, nil
	}

	return r.ListOrdersFn(ctx, query)
}

func (r *fakeOrderRepo) UpdateOrder(ctx context.Context, order *entity.Order) error {
	if r.UpdateOrderFn == nil {
		return nil
	}

	return r.UpdateOrderFn(ctx, order)
}

type fakeAddressRepo struct {
	CreateAddressFn              func(ctx context.Context, address *entity.Address) error
	FindAddressByIDFn            func(ctx context.Context, id uuid.UUID) (*entity.Address, error)
	FindAddressesByUserIDFn      func(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	FindPrimaryAddressByUserIDFn func(ctx context.Context, userID uuid.UUID) (*entity.Address, error)
	UpdateAddressFn              func(ctx context.Context, address *entity.Address) error
	DeleteAddressFn              func(ctx context.Context, id uuid.UUID) error
	UnsetPrimaryByUserIDFn       func(ctx context.Context, userID uuid.UUID) error
	CountAddressesByUserIDFn     func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (r *fakeAddressRepo) CreateAddress(ctx context.Context, address *entity.Address) error {
	if r.CreateAddressFn == nil {
		return nil
	}

	return r.CreateAddressFn(ctx, address)
}

func (r *fakeAddressRepo) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	if r.FindAddressByIDFn == nil {
		return nil, repository.ErrAddressNotFound
	}

	return r.FindAddressByIDFn(ctx, id)
}

func (r *fakeAddressRepo) FindAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	if r.FindAddressesByUserIDFn == nil {
		return nil, nil
	}

	return r.FindAddressesByUserIDFn(ctx, userID)
}

func (r *fakeAddressRepo) FindPrimaryAddressByUserID(ctx context.Context, userID uuid.UUID) (*entity.Address, error) {
	if r.FindPrimaryAddressByUserIDFn == nil {
		return nil, repository.ErrAddressNotFound
	}

	return r.FindPrimaryAddressByUserIDFn(ctx, userID)
}

func (r *fakeAddressRepo) UpdateAddress(ctx context.Context, address *entity.Address) error {
	if r.UpdateAddressFn == nil {
		return nil
	}

	return r.UpdateAddressFn(ctx, address)
}

func (r *fakeAddressRepo) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	if r.DeleteAddressFn == nil {
		return nil
	}

	return r.DeleteAddressFn(ctx, id)
}

func (r *fakeAddressRepo) UnsetPrimaryByUserID(ctx context.Context, userID uuid.UUID) error {
	if r.UnsetPrimaryByUserIDFn == nil {
		return nil
	}

	return r.UnsetPrimaryByUserIDFn(ctx, userID)
}

func (r *fakeAddressRepo) CountAddressesByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	if r.CountAddressesByUserIDFn == nil {
		return 0, nil
	}

	return r.CountAddressesByUserIDFn(ctx, userID)
}

type fakeHasher struct {
	HashFn  func(password string) (string, error)
	CheckFn func(password, hash string) bool
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.HashFn == nil {
		return "hashed:" + password, nil
	}

	return h.HashFn(password)
}

func (h *fakeHasher) Check(password, hash string) bool {
	if h.CheckFn == nil {
		return hash == "hashed:"+password
	}

	return h.CheckFn(password, hash)
}

type fakeTokenService struct {
	GenerateTokensFn func(userID uuid.UUID, role string) (string, string, error)
	ValidateFn       func(tokenString string) (*service.Claims, error)
	refreshDuration  time.Duration
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, role string) (string, string, error) {
	if s.GenerateTokensFn == nil {
		return "access-" + userID.String(), "refresh-" + uuid.NewString(), nil
	}

	return s.GenerateTokensFn(userID, role)
}

func (s *fakeTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	if s.ValidateFn == nil {
		return nil, errors.New("no validator configured")
	}

	return s.ValidateFn(tokenString)
}

func (s *fakeTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	if s.ValidateFn == nil {
		return nil, errors.New("no validator configured")
	}

	return s.ValidateFn(tokenString)
}

func (s *fakeTokenService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	if s.refreshDuration == 0 {
		return 7 * 24 * time.Hour
	}

	return s.refreshDuration
}

type fakePublisher struct {
	Events []*service.OrderEvent
	Err    error
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, event *service.OrderEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeQRService struct {
	Err error
}

func (s *fakeQRService) GeneratePaymentQR(orderNumber string, amount float64) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	return []byte("qr:" + orderNumber), nil
}

type fakeQuoter struct {
	Fee float64
}

func (q *fakeQuoter) Quote(_, _, _, _ float64) float64 { return q.Fee }

func claimsFor(userID uuid.UUID, role, tokenType string) *service.Claims {
	return &service.Claims{UserID: userID, Role: role, Type: tokenType}
}
