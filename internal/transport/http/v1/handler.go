// Package v1 provides HTTP handlers for the orchestrator API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentdesk/orchestrator/internal/domain"
	"github.com/agentdesk/orchestrator/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Conversation API
	e.POST("/conversations", h.CreateConversation)
	e.POST("/conversations/:conversation_id/messages", h.AddMessage)
	e.GET("/conversations/:conversation_id", h.GetConversation)
	e.GET("/conversations/:conversation_id/telemetry", h.GetTelemetry)

	// Agent run API
	e.POST("/conversations/:conversation_id/run", h.RunAgent)
	e.POST("/conversations/:conversation_id/run/stream", h.RunAgentStream)

	// Background task API
	e.POST("/tasks/ping", h.EnqueuePing)
	e.GET("/tasks/:task_id", h.GetTask)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "orchestrator",
	})
}

// errorJSON maps service errors onto HTTP status codes.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrConversationNotFound), errors.Is(err, domain.ErrTaskNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
