// Package authtest provides an in-process token issuer for tests: an RSA
// signing key published through an httptest JWKS endpoint, plus helpers to
// mint tokens for the agency's roles.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Permission sets of the three agency roles.
var (
	Assistant = []string{"get:actors", "get:movies"}
	Director  = []string{
		"get:actors", "get:movies",
		"post:actors", "patch:actors", "delete:actors",
		"patch:movies",
	}
	Producer = []string{
		"get:actors", "get:movies",
		"post:actors", "patch:actors", "delete:actors",
		"post:movies", "patch:movies", "delete:movies",
	}
)

// Issuer signs RS256 tokens and serves its public key as a JWKS document.
type Issuer struct {
	Audience string

	server  *httptest.Server
	fetches atomic.Int64

	mu  sync.RWMutex
	key *rsa.PrivateKey
	kid string
}

// NewIssuer starts a JWKS server that is closed when the test ends.
func NewIssuer(t testing.TB, audience string) *Issuer {
	t.Helper()
	i := &Issuer{Audience: audience}
	i.Rotate(t)
	i.server = httptest.NewServer(http.HandlerFunc(i.serveJWKS))
	t.Cleanup(i.server.Close)
	return i
}

// URL is the issuer identifier placed in the "iss" claim.
func (i *Issuer) URL() string { return i.server.URL + "/" }

// JWKSURL is the key set endpoint.
func (i *Issuer) JWKSURL() string { return i.server.URL + "/.well-known/jwks.json" }

// Fetches counts JWKS requests served so far.
func (i *Issuer) Fetches() int64 { return i.fetches.Load() }

// KeyID returns the kid of the current signing key.
func (i *Issuer) KeyID() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.kid
}

// Rotate replaces the signing key; the JWKS endpoint only publishes the new one.
func (i *Issuer) Rotate(t testing.TB) {
	t.Helper()
	key := NewKey(t)
	i.mu.Lock()
	i.key = key
	i.kid = uuid.NewString()
	i.mu.Unlock()
}

// NewKey generates a fresh RSA key.
func NewKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

// Claims returns valid claims for subject carrying permissions.
func (i *Issuer) Claims(subject string, permissions []string) jwt.MapClaims {
	if permissions == nil {
		permissions = []string{}
	}
	now := time.Now()
	return jwt.MapClaims{
		"sub":         subject,
		"iss":         i.URL(),
		"aud":         i.Audience,
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"permissions": permissions,
	}
}

// Token mints a valid token for subject with permissions.
func (i *Issuer) Token(t testing.TB, subject string, permissions []string) string {
	t.Helper()
	return i.Sign(t, i.Claims(subject, permissions))
}

// Sign signs arbitrary claims with the current key.
func (i *Issuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	i.mu.RLock()
	key, kid := i.key, i.kid
	i.mu.RUnlock()
	return SignWith(t, key, kid, claims)
}

// SignWith signs claims with an explicit key and kid.
func SignWith(t testing.TB, key *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

type jwksDoc struct {
	Keys []jwkEntry `json:"keys"`
}

type jwkEntry struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (i *Issuer) serveJWKS(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/.well-known/jwks.json" {
		http.NotFound(w, r)
		return
	}
	i.fetches.Add(1)

	i.mu.RLock()
	pub, kid := i.key.PublicKey, i.kid
	i.mu.RUnlock()

	doc := jwksDoc{Keys: []jwkEntry{{
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}}}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}
