package handler

import (
	"log/slog"
	"net/http"

	"demohub/internal/delivery/api/middleware"
	"demohub/internal/delivery/api/response"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler holds dependencies for authentication handlers
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Access   []string `json:"access" validate:"omitempty,dive,required"`
	IsActive bool     `json:"is_active"`
}

// LoginRequest represents the JSON body of /login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest is the OAuth2 password grant form of /auth/token
type TokenRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// TokenResponse is returned by /auth/token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginResponse is returned by /login
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	Access      []string `json:"access"`
	IsActive    bool     `json:"is_active"`
	ExpiresIn   int64    `json:"expires_in"`
	Message     string   `json:"message"`
	StatusCode  string   `json:"status_code"`
}

// PrincipalResponse is returned by /auth/me
type PrincipalResponse struct {
	Username string   `json:"username"`
	Access   []string `json:"access"`
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid registration input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	input := &usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Access:   req.Access,
		IsActive: req.IsActive,
	}

	if err := h.authUC.Register(c.Request().Context(), input); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusCreated, "User registered successfully")
}

// Token handles the OAuth2 password grant. Every credential problem,
// including an inactive account, is reported as the same 401.
func (h *AuthHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid token request")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) || errors.Is(err, domainerrors.ErrAccountInactive) {
			return response.Unauthorized(c, domainerrors.ErrTokenInvalid.ErrorCode(), domainerrors.ErrTokenInvalid.Message())
		}

		return response.HandleAppError(c, err)
	}

	return response.JSON(c, http.StatusOK, TokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
	})
}

// Login handles JSON login and reports the account's capabilities.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.JSON(c, http.StatusOK, LoginResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
		Access:      output.Access,
		IsActive:    output.IsActive,
		ExpiresIn:   int64(output.ExpiresIn.Seconds()),
		Message:     "Login successful",
		StatusCode:  response.StatusText(http.StatusOK),
	})
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrTokenInvalid.ErrorCode(), domainerrors.ErrTokenInvalid.Message())
	}

	return response.JSON(c, http.StatusOK, PrincipalResponse{
		Username: principal.Username,
		Access:   principal.Access,
	})
}
