package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/service"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccountService(factory *fakeFactory, tokenService *fakeTokenService) usecase.AccountUsecase {
	return NewAccountService(AccountServiceParams{
		TxManager:    &fakeTxManager{factory: factory},
		UserRepo:     factory.userRepo,
		Hasher:       &fakeHasher{},
		TokenService: tokenService,
		Logger:       discardLogger(),
	})
}

func TestRegister_Success(t *testing.T) {
	factory := newFakeFactory()

	var createdUser *entity.User
	factory.userRepo.CreateFn = func(_ context.Context, user *entity.User) error {
		createdUser = user

		return nil
	}
	var storedToken *entity.RefreshToken
	factory.tokenRepo.CreateRefreshTokenFn = func(_ context.Context, token *entity.RefreshToken) error {
		storedToken = token

		return nil
	}

	srv := newAccountService(factory, &fakeTokenService{})

	out, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Ana",
		Email:    "  Ana@Example.COM ",
		Password: "hunter2-hunter2",
		Role:     entity.RoleConsumer,
	})

	require.NoError(t, err)
	require.NotNil(t, createdUser)
	assert.Equal(t, "ana@example.com", createdUser.Email)
	assert.Equal(t, "hashed:hunter2-hunter2", createdUser.PasswordHash)
	assert.True(t, createdUser.IsOnline)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	// The stored session holds a hash, never the raw token.
	require.NotNil(t, storedToken)
	assert.NotEqual(t, out.RefreshToken, storedToken.TokenHash)
	assert.Len(t, storedToken.TokenHash, 64)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	factory := newFakeFactory()
	factory.userRepo.FindByEmailFn = func(_ context.Context, email string) (*entity.User, error) {
		return &entity.User{ID: uuid.New(), Email: email}, nil
	}

	srv := newAccountService(factory, &fakeTokenService{})

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "hunter2-hunter2",
		Role:     entity.RoleConsumer,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	srv := newAccountService(newFakeFactory(), &fakeTokenService{})

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "hunter2-hunter2",
		Role:     entity.RoleAdmin,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestLogin_Success_ReplacesSessions(t *testing.T) {
	userID := uuid.New()
	factory := newFakeFactory()
	factory.userRepo.FindByEmailFn = func(_ context.Context, email string) (*entity.User, error) {
		return &entity.User{
			ID:           userID,
			Email:        email,
			PasswordHash: "hashed:correct-horse",
			Role:         entity.RoleConsumer,
		}, nil
	}

	var deletedFor uuid.UUID
	factory.tokenRepo.DeleteRefreshTokensByUserIDFn = func(_ context.Context, id uuid.UUID) error {
		deletedFor = id

		return nil
	}

	srv := newAccountService(factory, &fakeTokenService{})

	out, err := srv.Login(context.Background(), &usecase.LoginInput{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, userID, deletedFor)
	assert.Equal(t, userID, out.User.ID)
	assert.True(t, out.User.IsOnline)
}

func TestLogin_WrongPassword(t *testing.T) {
	factory := newFakeFactory()
	factory.userRepo.FindByEmailFn = func(_ context.Context, email string) (*entity.User, error) {
		return &entity.User{ID: uuid.New(), PasswordHash: "hashed:other"}, nil
	}

	srv := newAccountService(factory, &fakeTokenService{})

	_, err := srv.Login(context.Background(), &usecase.LoginInput{
		Email:    "ana@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	srv := newAccountService(newFakeFactory(), &fakeTokenService{})

	_, err := srv.Login(context.Background(), &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefreshToken_RotatesStoredHash(t *testing.T) {
	userID := uuid.New()
	tokenService := &fakeTokenService{}
	tokenService.ValidateFn = func(string) (*service.Claims, error) {
		return claimsFor(userID, "CONSUMER", "refresh"), nil
	}

	raw := "old-refresh-token"
	oldHash := tokenService.HashToken(raw)
	stored := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: oldHash,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	factory := newFakeFactory()
	factory.userRepo.FindByIDFn = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return &entity.User{ID: id, Role: entity.RoleConsumer}, nil
	}
	factory.tokenRepo.FindRefreshTokenByHashFn = func(_ context.Context, hash string) (*entity.RefreshToken, error) {
		require.Equal(t, oldHash, hash)

		return stored, nil
	}
	var updated *entity.RefreshToken
	factory.tokenRepo.UpdateRefreshTokenFn = func(_ context.Context, token *entity.RefreshToken) error {
		updated = token

		return nil
	}

	srv := newAccountService(factory, tokenService)

	out, err := srv.RefreshToken(context.Background(), raw)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.NotEqual(t, oldHash, updated.TokenHash)
	assert.Equal(t, tokenService.HashToken(out.RefreshToken), updated.TokenHash)
}

func TestRefreshToken_ExpiredSessionIsDeleted(t *testing.T) {
	userID := uuid.New()
	tokenService := &fakeTokenService{}
	tokenService.ValidateFn = func(string) (*service.Claims, error) {
		return claimsFor(userID, "CONSUMER", "refresh"), nil
	}

	stored := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	factory := newFakeFactory()
	factory.tokenRepo.FindRefreshTokenByHashFn = func(_ context.Context, _ string) (*entity.RefreshToken, error) {
		return stored, nil
	}
	var deleted uuid.UUID
	factory.tokenRepo.DeleteRefreshTokenFn = func(_ context.Context, id uuid.UUID) error {
		deleted = id

		return nil
	}

	srv := newAccountService(factory, tokenService)

	_, err := srv.RefreshToken(context.Background(), "expired-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenExpired)
	assert.Equal(t, stored.ID, deleted)
}

func TestRefreshToken_InvalidJWT(t *testing.T) {
	tokenService := &fakeTokenService{}
	tokenService.ValidateFn = func(string) (*service.Claims, error) {
		return nil, errors.New("bad signature")
	}

	srv := newAccountService(newFakeFactory(), tokenService)

	_, err := srv.RefreshToken(context.Background(), "garbage")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestRefreshToken_UnknownSession(t *testing.T) {
	userID := uuid.New()
	tokenService := &fakeTokenService{}
	tokenService.ValidateFn = func(string) (*service.Claims, error) {
		return claimsFor(userID, "CONSUMER", "refresh"), nil
	}

	srv := newAccountService(newFakeFactory(), tokenService)

	_, err := srv.RefreshToken(context.Background(), "valid-jwt-no-session")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestLogout_IsIdempotent(t *testing.T) {
	factory := newFakeFactory()

	srv := newAccountService(factory, &fakeTokenService{})

	// No stored session, no user record: still succeeds.
	err := srv.Logout(context.Background(), uuid.New(), "unknown-token")

	require.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	userID := uuid.New()
	factory := newFakeFactory()
	factory.userRepo.FindByIDFn = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return &entity.User{ID: id, PasswordHash: "hashed:real-password"}, nil
	}

	srv := newAccountService(factory, &fakeTokenService{})

	err := srv.ChangePassword(context.Background(), &usecase.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: "guess",
		NewPassword:     "new-password-1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordIncorrect)
}

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{ID: userID, PasswordHash: "hashed:old-password"}

	factory := newFakeFactory()
	factory.userRepo.FindByIDFn = func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		return user, nil
	}
	var revokedFor uuid.UUID
	factory.tokenRepo.DeleteRefreshTokensByUserIDFn = func(_ context.Context, id uuid.UUID) error {
		revokedFor = id

		return nil
	}

	srv := newAccountService(factory, &fakeTokenService{})

	err := srv.ChangePassword(context.Background(), &usecase.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: "old-password",
		NewPassword:     "new-password-1",
	})

	require.NoError(t, err)
	assert.Equal(t, userID, revokedFor)
	assert.Equal(t, "hashed:new-password-1", user.PasswordHash)
}
