package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// EnqueuePing schedules the ping task.
// POST /tasks/ping
func (h *Handler) EnqueuePing(c echo.Context) error {
	t := h.service.EnqueuePing()
	return c.JSON(http.StatusOK, map[string]any{
		"task_id": t.ID,
		"status":  "queued",
	})
}

// GetTask returns the state of a background task.
// GET /tasks/:task_id
func (h *Handler) GetTask(c echo.Context) error {
	t, err := h.service.GetTask(c.Param("task_id"))
	if err != nil {
		return errorJSON(c, err)
	}

	resp := map[string]any{
		"task_id": t.ID,
		"state":   t.State,
	}
	if t.Result != nil {
		resp["result"] = t.Result
	}
	if t.Error != "" {
		resp["error"] = t.Error
	}
	return c.JSON(http.StatusOK, resp)
}
