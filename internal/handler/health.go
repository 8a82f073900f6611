package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Index greets clients hitting the root path.
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "WELCOME!"})
}

// Health returns a handler used by load balancers and monitoring systems to
// verify that the service is running and can reach its store. It writes a
// plain text "ok" with 200, or 503 when the database ping fails.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			return c.String(http.StatusServiceUnavailable, "unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
