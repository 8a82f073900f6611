package middleware

// identity.go defines helpers shared across middleware files and handlers for
// reading the authenticated identity that JWTAuth stored in the Echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/auth"
)

// Claims returns the verified token claims, or nil on unauthenticated routes.
func Claims(c echo.Context) *auth.Claims {
	cl, _ := c.Get(ContextKeyClaims).(*auth.Claims)
	return cl
}

// UserID returns the token subject, or "guest" when no user is authenticated.
func UserID(c echo.Context) string {
	if v, ok := c.Get(ContextKeyUserID).(string); ok && v != "" {
		return v
	}
	return "guest"
}
