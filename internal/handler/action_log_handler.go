package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/authform/internal/service"
)

// ActionLogHandler serves the audit trail to administrators.
type ActionLogHandler struct {
	logs *service.ActionLogService
}

// NewActionLogHandler constructs a handler instance.
func NewActionLogHandler(logs *service.ActionLogService) *ActionLogHandler {
	return &ActionLogHandler{logs: logs}
}

// List returns audit entries, newest first. ?action= filters by substring.
func (h *ActionLogHandler) List(c echo.Context) error {
	entries, err := h.logs.List(c.Request().Context(), c.QueryParam("action"))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list action logs")
	}
	return c.JSON(http.StatusOK, entries)
}
