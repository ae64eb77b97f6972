package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentdesk/orchestrator/internal/domain"
)

// CreateConversationRequest is the body for POST /conversations.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// AddMessageRequest is the body for POST /conversations/:conversation_id/messages.
type AddMessageRequest struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

// CreateConversation creates a conversation.
// POST /conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	conv, err := h.service.CreateConversation(c.Request().Context(), req.Title)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, conv)
}

// AddMessage appends a message to a conversation.
// POST /conversations/:conversation_id/messages
func (h *Handler) AddMessage(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	var req AddMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	msg, err := h.service.AddMessage(c.Request().Context(), conversationID, req.Role, req.Content)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// GetConversation returns a conversation with its messages, oldest first.
// GET /conversations/:conversation_id
func (h *Handler) GetConversation(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	conv, messages, err := h.service.GetHistory(c.Request().Context(), conversationID)
	if err != nil {
		return errorJSON(c, err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"conversation": conv,
		"messages":     messages,
	})
}

// GetTelemetry returns the trace steps and tool calls for a conversation.
// GET /conversations/:conversation_id/telemetry
func (h *Handler) GetTelemetry(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	steps, calls, err := h.service.GetTelemetry(c.Request().Context(), conversationID)
	if err != nil {
		return errorJSON(c, err)
	}
	if steps == nil {
		steps = []domain.TraceStep{}
	}
	if calls == nil {
		calls = []domain.ToolCall{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"trace_steps": steps,
		"tool_calls":  calls,
	})
}
