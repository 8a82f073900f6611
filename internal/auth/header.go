package auth

import "strings"

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>". The scheme is matched case-insensitively.
func ParseBearer(header string) (string, error) {
	parts := strings.Fields(header)
	switch {
	case len(parts) == 0:
		return "", ErrHeaderMissing
	case !strings.EqualFold(parts[0], "bearer"):
		return "", ErrHeaderScheme
	case len(parts) == 1:
		return "", ErrTokenMissing
	case len(parts) > 2:
		return "", ErrHeaderParts
	}
	return parts[1], nil
}
