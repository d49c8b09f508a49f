package context

import (
	"context"

	"demohub/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// SetPrincipal stores the authenticated principal in echo.Context and in the
// request's context.Context.
func SetPrincipal(c echo.Context, principal *entity.Principal) {
	c.Set(string(KeyPrincipal), principal)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), principal)))
}

// GetPrincipal returns the principal set by the auth middleware.
func GetPrincipal(c echo.Context) (*entity.Principal, bool) {
	principal, ok := c.Get(string(KeyPrincipal)).(*entity.Principal)

	return principal, ok && principal != nil
}

// WithPrincipal returns a new context with the principal.
func WithPrincipal(ctx context.Context, principal *entity.Principal) context.Context {
	return context.WithValue(ctx, KeyPrincipal, principal)
}

// PrincipalFromContext extracts the principal from standard context.Context.
func PrincipalFromContext(ctx context.Context) (*entity.Principal, bool) {
	principal, ok := ctx.Value(KeyPrincipal).(*entity.Principal)

	return principal, ok && principal != nil
}
