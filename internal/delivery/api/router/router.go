// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"time"

	"demohub/config"
	"demohub/internal/delivery/api/middleware"
	"demohub/internal/delivery/api/router/handler"
	domainerrors "demohub/internal/domain/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

// loginLimiterTTL is how long an idle client's limiter bucket is kept.
const loginLimiterTTL = 3 * time.Minute

type RouterParams struct {
	fx.In

	AuthHandler      *handler.AuthHandler
	AssistantHandler *handler.AssistantHandler
	WebSocketHandler *handler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
	Config           *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler      *handler.AuthHandler
	assistantHandler *handler.AssistantHandler
	webSocketHandler *handler.WebSocketHandler
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:      params.AuthHandler,
		assistantHandler: params.AssistantHandler,
		webSocketHandler: params.WebSocketHandler,
		authMiddleware:   params.AuthMiddleware,
		config:           params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	loginLimit := r.loginRateLimiter()

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("", r.authHandler.Register)
		authGroup.POST("/", r.authHandler.Register)
		authGroup.POST("/token", r.authHandler.Token, loginLimit...)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	e.POST("/login", r.authHandler.Login, loginLimit...)

	// API v1 routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate) // All API v1 routes require authentication

	assistantsGroup := apiV1.Group("/assistants")
	{
		assistantsGroup.GET("", r.assistantHandler.List)
		assistantsGroup.POST("/:name/chat", r.assistantHandler.Chat,
			r.authMiddleware.RequireParamAccess(handler.AssistantNameParam))
	}

	// Browsers cannot set headers on a WebSocket handshake, so the token may
	// also arrive as a query parameter here.
	e.GET("/ws/:name", r.webSocketHandler.Stream,
		r.authMiddleware.AuthenticateWithQuery,
		r.authMiddleware.RequireParamAccess(handler.AssistantNameParam))
}

// loginRateLimiter returns the per-client limiter for the credential
// endpoints, or nothing when http.loginRateLimit is zero.
func (r *router) loginRateLimiter() []echo.MiddlewareFunc {
	if r.config == nil || r.config.HTTP.LoginRateLimit <= 0 {
		return nil
	}

	limit := r.config.HTTP.LoginRateLimit
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     max(int(limit), 1),
		ExpiresIn: loginLimiterTTL,
	})

	return []echo.MiddlewareFunc{
		echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
			Store: store,
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return domainerrors.ErrInternalError.WithDetails("rate limiter identifier")
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.ErrTooManyRequests
			},
		}),
	}
}
