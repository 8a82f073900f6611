package auth

import (
	"errors"
	"net/http"
)

// Error is an authentication or authorization failure. Code is a stable
// machine-readable identifier, Description is safe to return to clients and
// Status is the HTTP status the failure maps to.
type Error struct {
	Code        string
	Description string
	Status      int
	Err         error // underlying cause, logged but never rendered
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Description + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Description
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code, Status and Description so wrapped copies compare
// equal to the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Status == t.Status && e.Description == t.Description
}

func (e *Error) wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

var (
	ErrHeaderMissing = &Error{Code: "authorization_header_missing", Description: "Authorization header is expected.", Status: http.StatusUnauthorized}
	ErrHeaderScheme  = &Error{Code: "invalid_header", Description: "Authorization header must start with Bearer.", Status: http.StatusUnauthorized}
	ErrTokenMissing  = &Error{Code: "invalid_header", Description: "Token not found.", Status: http.StatusUnauthorized}
	ErrHeaderParts   = &Error{Code: "invalid_header", Description: "Authorization header must be Bearer token.", Status: http.StatusUnauthorized}

	ErrTokenExpired  = &Error{Code: "token_expired", Description: "Token expired.", Status: http.StatusUnauthorized}
	ErrInvalidClaims = &Error{Code: "invalid_claims", Description: "Incorrect claims, please check the audience and issuer.", Status: http.StatusUnauthorized}
	ErrNoSigningKey  = &Error{Code: "invalid_header", Description: "Unable to find the appropriate key.", Status: http.StatusUnauthorized}
	ErrUnparseable   = &Error{Code: "invalid_header", Description: "Unable to parse authentication token.", Status: http.StatusUnauthorized}

	ErrPermissionsMissing = &Error{Code: "invalid_claims", Description: "Permissions not included in JWT.", Status: http.StatusBadRequest}
	ErrPermissionDenied   = &Error{Code: "unauthorized", Description: "Permission not found.", Status: http.StatusForbidden}
)
