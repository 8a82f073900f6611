package config

import (
	"strings"
	"time"
)

// AuthConfig describes the external token issuer. Domain is the tenant host
// (for example "dev-xyz.us.auth0.com"); the JWKS URL and issuer are derived
// from it unless explicitly overridden.
type AuthConfig struct {
	Domain       string        `env:"AUTH0_DOMAIN"`
	Audience     string        `env:"API_AUDIENCE"`
	Algorithms   []string      `env:"ALGORITHMS"      envDefault:"RS256" envSeparator:","`
	JWKS         string        `env:"JWKS_URL"`
	IssuerURL    string        `env:"AUTH_ISSUER"`
	JWKSCacheTTL time.Duration `env:"JWKS_CACHE_TTL"  envDefault:"10m"`
	FetchTimeout time.Duration `env:"JWKS_FETCH_TIMEOUT" envDefault:"5s"`
}

// KeySetURL returns the JWKS endpoint, preferring an explicit JWKS_URL.
func (a AuthConfig) KeySetURL() string {
	if a.JWKS != "" {
		return a.JWKS
	}
	if a.Domain == "" {
		return ""
	}
	return "https://" + trimDomain(a.Domain) + "/.well-known/jwks.json"
}

// Issuer returns the expected "iss" claim. Auth0 issuers carry a trailing slash.
func (a AuthConfig) Issuer() string {
	if a.IssuerURL != "" {
		return a.IssuerURL
	}
	if a.Domain == "" {
		return ""
	}
	return "https://" + trimDomain(a.Domain) + "/"
}

func trimDomain(d string) string {
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimSuffix(d, "/")
}
