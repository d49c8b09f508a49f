package handler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"demohub/config"
	"demohub/internal/delivery/api/middleware"
	deliverycontext "demohub/internal/delivery/context"
	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/service"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultWebSocketReadLimit = 64 << 10

// WebSocketHandlerParams holds dependencies for WebSocketHandler, injected by Fx.
type WebSocketHandlerParams struct {
	fx.In

	Registry service.AssistantRegistry
	Config   *config.Config
	Logger   *slog.Logger
}

// WebSocketHandler streams assistant answers over a WebSocket. Each text
// frame received is one input; the answer goes back as a series of text
// frames, one per chunk.
type WebSocketHandler struct {
	registry       service.AssistantRegistry
	originPatterns []string
	logger         *slog.Logger
}

// NewWebSocketHandler is the constructor for WebSocketHandler
func NewWebSocketHandler(params WebSocketHandlerParams) *WebSocketHandler {
	var origins []string
	if params.Config != nil {
		origins = params.Config.HTTP.CORSOrigins
	}

	return &WebSocketHandler{
		registry:       params.Registry,
		originPatterns: origins,
		logger:         params.Logger,
	}
}

// Stream upgrades the request and serves the named assistant until the
// client leaves or the principal's token expires.
func (h *WebSocketHandler) Stream(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WithDetails("principal missing from context")
	}

	name := c.Param(AssistantNameParam)
	assistant, ok := h.registry.Get(name)
	if !ok {
		return domainerrors.ErrAssistantNotFound.WithDetails(name)
	}

	ctx := c.Request().Context()
	log := deliverycontext.GetLoggerOrDefault(ctx, h.logger).With(
		slog.String("assistant", name),
		slog.String("username", principal.Username),
	)

	// Accept writes its own error response when the handshake fails.
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		log.Warn("WebSocket handshake failed", slog.Any("error", err))

		return nil
	}
	defer conn.CloseNow()

	conn.SetReadLimit(defaultWebSocketReadLimit)

	var expired atomic.Bool
	if !principal.ExpiresAt.IsZero() {
		timer := time.AfterFunc(time.Until(principal.ExpiresAt), func() {
			expired.Store(true)
			_ = conn.Close(websocket.StatusPolicyViolation, "token expired")
		})
		defer timer.Stop()
	}

	log.Info("WebSocket connected")

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			switch {
			case expired.Load():
				log.Info("WebSocket closed, token expired")
			case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
				websocket.CloseStatus(err) == websocket.StatusGoingAway:
				log.Info("WebSocket client disconnected")
			default:
				log.Warn("WebSocket read failed", slog.Any("error", err))
			}

			return nil
		}

		if msgType != websocket.MessageText {
			_ = conn.Close(websocket.StatusUnsupportedData, "text frames only")

			return nil
		}

		if err := relay(ctx, conn, assistant, principal, string(data)); err != nil {
			if expired.Load() {
				log.Info("WebSocket closed, token expired")

				return nil
			}

			log.Error("WebSocket stream failed", slog.Any("error", err))
			_ = conn.Close(websocket.StatusInternalError, "assistant failed")

			return nil
		}
	}
}

func relay(ctx context.Context, conn *websocket.Conn, assistant service.Assistant, principal *entity.Principal, input string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, errs := assistant.Stream(ctx, principal, input)
	for chunk := range chunks {
		if err := conn.Write(ctx, websocket.MessageText, []byte(chunk)); err != nil {
			return errors.Wrap(err, "write chunk")
		}
	}

	if err := <-errs; err != nil {
		return errors.Wrap(err, "assistant stream")
	}

	return nil
}
