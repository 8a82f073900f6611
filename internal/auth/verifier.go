// Package auth verifies bearer tokens issued by an external identity
// provider and enforces permission scopes carried in their claims.
package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the API relies on. Permissions is nil when the
// claim is absent, which is distinct from an empty permission list.
type Claims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions"`
}

// KeyProvider resolves a verification key by key id.
type KeyProvider interface {
	Key(ctx context.Context, kid string) (any, error)
}

// Verifier validates signature, algorithm, audience, issuer and expiry.
type Verifier struct {
	keys   KeyProvider
	parser *jwt.Parser
}

// NewVerifier builds a Verifier. algorithms lists the accepted "alg" header
// values, typically just RS256.
func NewVerifier(keys KeyProvider, issuer, audience string, algorithms []string) *Verifier {
	return &Verifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods(algorithms),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
		),
	}
}

var errMissingKeyID = errors.New("token header has no kid")

// Verify parses raw and returns its claims. Every failure is an *Error.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errMissingKeyID
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

func classify(err error) *Error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.wrap(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidClaims.wrap(err)
	case errors.Is(err, ErrKeyNotFound):
		return ErrNoSigningKey.wrap(err)
	default:
		return ErrUnparseable.wrap(err)
	}
}

// CheckPermission reports whether claims grant permission.
func CheckPermission(claims *Claims, permission string) error {
	if claims == nil || claims.Permissions == nil {
		return ErrPermissionsMissing
	}
	if !slices.Contains(claims.Permissions, permission) {
		return ErrPermissionDenied
	}
	return nil
}
