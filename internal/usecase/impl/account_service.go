// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "harvest/internal/delivery/context"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/repository"
	"harvest/internal/domain/service"
	"harvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account and opens the first session for it.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Registering account", slog.String("email", email), slog.Any("role", input.Role))

	if !input.Role.IsValid() || input.Role == entity.RoleAdmin {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("role must be CONSUMER or PRODUCER")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	var output *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		// 1. Reject already-registered emails
		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		// 2. Create the account
		now := time.Now()
		user := &entity.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			Name:         input.Name,
			Phone:        input.Phone,
			Role:         input.Role,
			IsOnline:     true,
			LastSeen:     &now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered")
			}

			return errors.Wrap(err, "failed to create user")
		}

		// 3. Open the first session
		out, err := srv.openSession(ctx, tokenRepo, user)
		if err != nil {
			return err
		}
		output = out

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Registration failed", slog.Any("error", err), slog.String("email", email))

		return nil, errors.Wrap(err, "failed to register account")
	}
	srv.log(ctx).Info("Account registered", slog.Any("user_id", output.User.ID))

	return output, nil
}

// Login verifies credentials and opens a session, replacing any prior sessions.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Login attempt", slog.String("email", email))

	var output *usecase.AuthOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		// 1. Verify credentials. Unknown email and wrong password are indistinguishable.
		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials.WrapMessage("unknown email")
			}

			return errors.Wrap(err, "failed to find user")
		}
		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
		}

		// 2. Replace any existing sessions
		if err := tokenRepo.DeleteRefreshTokensByUserID(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to delete prior sessions")
		}

		// 3. Mark the account online
		now := time.Now()
		user.IsOnline = true
		user.LastSeen = &now
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user presence")
		}

		// 4. Open the new session
		out, err := srv.openSession(ctx, tokenRepo, user)
		if err != nil {
			return err
		}
		output = out

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.Any("error", err), slog.String("email", email))

		return nil, errors.Wrap(err, "failed to login")
	}
	srv.log(ctx).Info("Login succeeded", slog.Any("user_id", output.User.ID))

	return output, nil
}

// RefreshToken exchanges a valid refresh token for a new pair, rotating the stored record.
func (srv *accountService) RefreshToken(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Refreshing session")

	// 1. Verify the JWT itself before touching storage
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token validation failed")
	}

	var output *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		// 2. The session must still exist server-side
		stored, err := tokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(refreshToken))
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrRefreshTokenInvalid.WrapMessage("session not found")
			}

			return errors.Wrap(err, "failed to find session")
		}

		// 3. Expired sessions are removed on sight
		now := time.Now()
		if stored.IsExpired(now) {
			if err := tokenRepo.DeleteRefreshToken(ctx, stored.ID); err != nil {
				return errors.Wrap(err, "failed to delete expired session")
			}

			return domainerrors.ErrRefreshTokenExpired.WrapMessage("session expired")
		}

		user, err := userRepo.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrRefreshTokenInvalid.WrapMessage("account no longer exists")
			}

			return errors.Wrap(err, "failed to find user")
		}

		// 4. Rotate: the new token replaces the old hash in place
		accessToken, newRefreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role.String())
		if err != nil {
			return errors.Wrap(err, "failed to generate tokens")
		}

		stored.TokenHash = srv.tokenService.HashToken(newRefreshToken)
		stored.ExpiresAt = now.Add(srv.tokenService.GetRefreshTokenDuration())
		if err := tokenRepo.UpdateRefreshToken(ctx, stored); err != nil {
			return errors.Wrap(err, "failed to rotate session")
		}

		output = &usecase.AuthOutput{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			User:         user,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Refresh failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to refresh session")
	}
	srv.log(ctx).Debug("Session refreshed", slog.Any("user_id", output.User.ID))

	return output, nil
}

// Logout ends the session carried by the refresh token. Missing sessions are not an error.
func (srv *accountService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	srv.log(ctx).Info("Logout", slog.Any("user_id", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		if refreshToken != "" {
			err := tokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(refreshToken))
			if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(err, "failed to delete session")
			}
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				// Nothing to mark offline; logout stays idempotent.
				return nil
			}

			return errors.Wrap(err, "failed to find user")
		}

		now := time.Now()
		user.IsOnline = false
		user.LastSeen = &now
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user presence")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Logout failed", slog.Any("error", err), slog.Any("user_id", userID))

		return errors.Wrap(err, "failed to logout")
	}

	return nil
}

// GetProfile returns the account owning the given ID.
func (srv *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("profile lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// ChangePassword replaces the password and revokes every open session.
func (srv *accountService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Changing password", slog.Any("user_id", input.UserID))

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		// 1. The current password must match
		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("account not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return domainerrors.ErrPasswordIncorrect.WrapMessage("current password mismatch")
		}

		// 2. Store the new hash
		user.PasswordHash = newHash
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		// 3. Every open session dies with the old password
		if err := tokenRepo.DeleteRefreshTokensByUserID(ctx, input.UserID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Password change failed", slog.Any("error", err), slog.Any("user_id", input.UserID))

		return errors.Wrap(err, "failed to change password")
	}
	srv.log(ctx).Info("Password changed", slog.Any("user_id", input.UserID))

	return nil
}

// openSession issues a token pair and persists the refresh half, hashed.
func (srv *accountService) openSession(ctx context.Context, tokenRepo repository.RefreshTokenRepository, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := tokenRepo.CreateRefreshToken(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to persist session")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
