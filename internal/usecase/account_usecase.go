// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     entity.Role
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens and the account after a successful
// registration, login or refresh.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AccountUsecase defines the interface for identity and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register creates a new account and opens a session for it.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and opens a session, replacing prior sessions.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// RefreshToken exchanges a valid refresh token for a new token pair,
	// rotating the stored session record.
	RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error)

	// Logout ends the session carried by the refresh token. Idempotent.
	Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error

	// GetProfile returns the account owning the given ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// ChangePassword replaces the account password after verifying the current
	// one, and revokes every open session.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error
}
