package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accountd/account-service/internal/core/ports"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// AuditHandler serves the admin auth-event listing.
type AuditHandler struct {
	events ports.AuditRepository
}

func NewAuditHandler(events ports.AuditRepository) *AuditHandler {
	return &AuditHandler{events: events}
}

// ListRecent returns recent auth events, newest first.
//
// @Summary      List recent auth events
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of events (default 50, cap 500)"
// @Success      200    {array}   domain.AuthEvent
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /api/admin/events [get]
func (h *AuditHandler) ListRecent(c echo.Context) error {
	limit := int64(defaultEventLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		if n > maxEventLimit {
			n = maxEventLimit
		}
		limit = n
	}

	events, err := h.events.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
