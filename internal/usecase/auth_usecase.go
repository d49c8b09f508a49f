// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"demohub/internal/domain/entity"
)

// TokenTypeBearer is the token_type reported to clients on login.
const TokenTypeBearer = "bearer"

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	Username string   `json:"username" form:"username" validate:"required"`
	Password string   `json:"password" form:"password" validate:"required"`
	Access   []string `json:"access" form:"access" validate:"omitempty,dive,required"`
	IsActive bool     `json:"is_active" form:"is_active"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// --- Output DTOs ---

// LoginOutput returns the issued access token and the account's capabilities.
type LoginOutput struct {
	AccessToken string
	TokenType   string
	Access      []string
	IsActive    bool
	ExpiresIn   time.Duration
}

// AuthUsecase is the authentication gateway: registration, login and per-request
// token authentication. The delivery layer depends on this contract only.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) error
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Authenticate(ctx context.Context, token string) (*entity.Principal, error)
}
