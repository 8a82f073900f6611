package handler // handler package contains the HTTP handlers for the agency API

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/middleware"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/service"
)

// errBadRequest and errNotFound are rendered by HTTPErrorHandler with the
// standard envelope messages.
var (
	errBadRequest = echo.NewHTTPError(http.StatusBadRequest)
	errNotFound   = echo.NewHTTPError(http.StatusNotFound)
)

// parseID reads the :id path parameter. Only positive integers identify a
// record; anything else is reported as not found.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errNotFound
	}
	return id, nil
}

// RequireNumericID is route middleware that answers 404 for an :id that is
// not a positive integer, matching routes that only accept integer ids.
func RequireNumericID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := parseID(c); err != nil {
			return err
		}
		return next(c)
	}
}

// emit publishes a resource event for the authenticated caller.
func emit(c echo.Context, p service.Publisher, resource, action string, id int64) {
	ev := queue.NewResourceEvent(resource, action, id, middleware.UserID(c))
	if err := p.Publish(c.Request().Context(), ev); err != nil {
		slog.Warn("audit event not published", "resource", resource, "action", action, "resource_id", id, "error", err)
	}
}
