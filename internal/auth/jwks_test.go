package auth

import (
	"context"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/casting-agency/internal/auth/authtest"
)

func TestKeySetCachesDocument(t *testing.T) {
	iss := authtest.NewIssuer(t, "casting")
	ks := NewKeySet(iss.JWKSURL(), time.Minute, nil)
	ctx := context.Background()

	for range 3 {
		key, err := ks.Key(ctx, iss.KeyID())
		require.NoError(t, err)
		assert.IsType(t, &rsa.PublicKey{}, key)
	}
	assert.EqualValues(t, 1, iss.Fetches())
}

func TestKeySetRefreshesOnRotation(t *testing.T) {
	iss := authtest.NewIssuer(t, "casting")
	ks := NewKeySet(iss.JWKSURL(), time.Hour, nil)
	ks.MinRefreshInterval = 0
	ctx := context.Background()

	_, err := ks.Key(ctx, iss.KeyID())
	require.NoError(t, err)

	iss.Rotate(t)
	_, err = ks.Key(ctx, iss.KeyID())
	require.NoError(t, err)
	assert.EqualValues(t, 2, iss.Fetches())
}

func TestKeySetUnknownKid(t *testing.T) {
	iss := authtest.NewIssuer(t, "casting")
	ks := NewKeySet(iss.JWKSURL(), time.Hour, nil)
	ctx := context.Background()

	_, err := ks.Key(ctx, "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// refresh is rate limited: the second miss reuses the cached set
	_, err = ks.Key(ctx, "still-nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.EqualValues(t, 1, iss.Fetches())
}

func TestKeySetFetchIgnoresCallerCancellation(t *testing.T) {
	iss := authtest.NewIssuer(t, "casting")
	ks := NewKeySet(iss.JWKSURL(), time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key, err := ks.Key(ctx, iss.KeyID())
	require.NoError(t, err)
	assert.IsType(t, &rsa.PublicKey{}, key)

	// the set fetched for the cancelled caller serves later requests
	_, err = ks.Key(context.Background(), iss.KeyID())
	require.NoError(t, err)
	assert.EqualValues(t, 1, iss.Fetches())
}

func TestKeySetFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	ks := NewKeySet(srv.URL, time.Minute, srv.Client())
	_, err := ks.Key(context.Background(), "kid")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}
