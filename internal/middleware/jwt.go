package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/casting-agency/internal/auth"
)

// Context keys populated by JWTAuth.
const (
	ContextKeyClaims = "claims"
	ContextKeyUserID = "user_id"
)

// TokenVerifier validates a raw bearer token. *auth.Verifier implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// JWTAuth returns an Echo middleware that validates the Bearer token against
// the issuer's published keys and stores the verified claims in the request
// context under "claims", and the subject under "user_id". Failures are
// returned as *auth.Error so the central error handler renders them.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := auth.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			claims, err := v.Verify(c.Request().Context(), raw)
			if err != nil {
				return err
			}
			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyUserID, claims.Subject)
			return next(c)
		}
	}
}

// RequirePermission returns a middleware that enforces that the verified
// token carries permission in its "permissions" claim. It assumes JWTAuth
// has already stored the claims in the context.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.CheckPermission(Claims(c), permission); err != nil {
				return err
			}
			return next(c)
		}
	}
}
