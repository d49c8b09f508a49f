package middleware

import (
	"strings"

	deliverycontext "demohub/internal/delivery/context"
	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccessTokenQueryParam carries the token for browser WebSocket clients,
// which cannot set an Authorization header.
const AccessTokenQueryParam = "access_token"

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
}

// AuthMiddleware provides middleware for bearer token authentication and capability checks.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{authUC: params.AuthUC}
}

// Authenticate requires an "Authorization: Bearer" header and resolves it to a Principal.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next, false)
}

// AuthenticateWithQuery also accepts the token in the access_token query
// parameter. Only WebSocket routes use it.
func (m *AuthMiddleware) AuthenticateWithQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next echo.HandlerFunc, allowQuery bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok && allowQuery {
			token = c.QueryParam(AccessTokenQueryParam)
			ok = token != ""
		}
		if !ok {
			return domainerrors.ErrTokenInvalid.WithDetails("bearer token is missing")
		}

		principal, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			return err
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}

// RequireAccess is a middleware factory that checks the principal holds capability.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAccess(capability string) echo.MiddlewareFunc {
	return requireAccess(func(echo.Context) string { return capability })
}

// RequireParamAccess checks the capability named by the route parameter param,
// e.g. the assistant name in /assistants/:name.
func (m *AuthMiddleware) RequireParamAccess(param string) echo.MiddlewareFunc {
	return requireAccess(func(c echo.Context) string { return c.Param(param) })
}

func requireAccess(capability func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return domainerrors.ErrTokenInvalid.WithDetails("principal missing from context")
			}

			required := capability(c)
			if !principal.HasAccess(required) {
				return domainerrors.ErrForbidden.WithDetails("missing capability " + required)
			}

			return next(c)
		}
	}
}

// GetPrincipal returns the principal set by Authenticate.
func GetPrincipal(c echo.Context) (*entity.Principal, bool) {
	return deliverycontext.GetPrincipal(c)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
