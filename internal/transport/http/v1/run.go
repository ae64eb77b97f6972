package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentdesk/orchestrator/internal/domain"
)

// RunRequest is the body for the run endpoints.
type RunRequest struct {
	UserMessage string `json:"user_message"`
}

// RunResponse is the synchronous run result.
type RunResponse struct {
	ConversationID   string `json:"conversation_id"`
	AssistantMessage string `json:"assistant_message"`
}

// RunAgent runs the pipeline synchronously and returns the final answer.
// POST /conversations/:conversation_id/run
func (h *Handler) RunAgent(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserMessage == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_message is required"})
	}

	answer, err := h.service.Run(c.Request().Context(), conversationID, req.UserMessage)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, RunResponse{
		ConversationID:   conversationID,
		AssistantMessage: answer,
	})
}

// RunAgentStream runs the pipeline and streams its progress as SSE.
// POST /conversations/:conversation_id/run/stream
func (h *Handler) RunAgentStream(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserMessage == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_message is required"})
	}

	ctx := c.Request().Context()

	// Resolve the 404 before committing to an event-stream response.
	if _, err := h.service.GetConversation(ctx, conversationID); err != nil {
		return errorJSON(c, err)
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	flusher, _ := c.Response().Writer.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	emit := func(ev domain.StreamEvent) error {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal %s event: %w", ev.Name, err)
		}
		if _, err := fmt.Fprintf(c.Response().Writer, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	if err := h.service.RunStream(ctx, conversationID, req.UserMessage, emit); err != nil {
		// The stream is already committed; the error event (if deliverable)
		// has been sent by the service.
		c.Logger().Errorf("streaming run failed: %v", err)
	}
	return nil
}
