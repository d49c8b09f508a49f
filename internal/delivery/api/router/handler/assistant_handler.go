package handler

import (
	"log/slog"
	"net/http"

	"demohub/internal/delivery/api/middleware"
	"demohub/internal/delivery/api/response"
	deliverycontext "demohub/internal/delivery/context"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AssistantNameParam is the route parameter naming the assistant, which is
// also the capability required to reach it.
const AssistantNameParam = "name"

// AssistantHandlerParams holds dependencies for AssistantHandler, injected by Fx.
type AssistantHandlerParams struct {
	fx.In

	Registry service.AssistantRegistry
	Logger   *slog.Logger
}

// AssistantHandler serves the authenticated assistant endpoints.
type AssistantHandler struct {
	registry service.AssistantRegistry
	logger   *slog.Logger
}

// NewAssistantHandler is the constructor for AssistantHandler
func NewAssistantHandler(params AssistantHandlerParams) *AssistantHandler {
	return &AssistantHandler{
		registry: params.Registry,
		logger:   params.Logger,
	}
}

// ChatRequest represents the body of a chat call
type ChatRequest struct {
	Input     string `json:"input" validate:"required"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
}

// ChatResponse is the assistant's complete answer
type ChatResponse struct {
	Output    string `json:"output"`
	SessionID string `json:"session_id"`
}

// AssistantListResponse names the assistants the caller may use.
type AssistantListResponse struct {
	Assistants []string `json:"assistants"`
}

// List returns the registered assistants the principal holds a capability for.
func (h *AssistantHandler) List(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WithDetails("principal missing from context")
	}

	names := make([]string, 0)
	for _, name := range h.registry.Names() {
		if principal.HasAccess(name) {
			names = append(names, name)
		}
	}

	return response.JSON(c, http.StatusOK, AssistantListResponse{Assistants: names})
}

// Chat forwards one input to the named assistant and returns its reply.
func (h *AssistantHandler) Chat(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return domainerrors.ErrTokenInvalid.WithDetails("principal missing from context")
	}

	assistant, err := h.lookup(c.Param(AssistantNameParam))
	if err != nil {
		return err
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid chat input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx := c.Request().Context()
	output, err := assistant.Reply(ctx, principal, req.Input)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Error("Assistant reply failed",
			slog.String("assistant", assistant.Name()),
			slog.String("session_id", req.SessionID),
			slog.Any("error", err),
		)

		return errors.Wrap(err, "assistant reply")
	}

	return response.JSON(c, http.StatusOK, ChatResponse{
		Output:    output,
		SessionID: req.SessionID,
	})
}

func (h *AssistantHandler) lookup(name string) (service.Assistant, error) {
	assistant, ok := h.registry.Get(name)
	if !ok {
		return nil, domainerrors.ErrAssistantNotFound.WithDetails(name)
	}

	return assistant, nil
}
