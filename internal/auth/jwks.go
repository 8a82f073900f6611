package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"
)

// ErrKeyNotFound is returned when no key in the published set carries the
// requested key id, even after a refresh.
var ErrKeyNotFound = errors.New("jwks: key id not found")

// KeySet resolves signing keys by key id from a remote JWKS document. The
// document is cached for the configured TTL; an unknown key id triggers one
// refresh so that issuer key rotation is picked up without waiting for
// expiry. Refreshes are rate limited by MinRefreshInterval.
type KeySet struct {
	url    string
	client *http.Client
	cache  *ttlcache.Cache[string, jwk.Set]
	group  singleflight.Group

	// MinRefreshInterval bounds how often an unknown kid may force a refetch.
	MinRefreshInterval time.Duration

	mu        sync.Mutex
	lastFetch time.Time
}

// NewKeySet creates a KeySet for url. A nil client gets a 10 s timeout; a
// caller-supplied client must carry its own, since fetches ignore caller
// cancellation.
func NewKeySet(url string, ttl time.Duration, client *http.Client) *KeySet {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &KeySet{
		url:    url,
		client: client,
		cache: ttlcache.New[string, jwk.Set](
			ttlcache.WithTTL[string, jwk.Set](ttl),
			ttlcache.WithDisableTouchOnHit[string, jwk.Set](),
		),
		MinRefreshInterval: 30 * time.Second,
	}
}

// Key returns the raw public key (for example *rsa.PublicKey) for kid.
func (k *KeySet) Key(ctx context.Context, kid string) (any, error) {
	set, err := k.load(ctx, false)
	if err != nil {
		return nil, err
	}
	if key, ok, err := lookup(set, kid); ok || err != nil {
		return key, err
	}

	// the issuer may have rotated its keys since the set was cached
	set, err = k.load(ctx, true)
	if err != nil {
		return nil, err
	}
	key, ok, err := lookup(set, kid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, kid)
	}
	return key, nil
}

func (k *KeySet) load(ctx context.Context, refresh bool) (jwk.Set, error) {
	if item := k.cache.Get(k.url); item != nil {
		if !refresh || !k.refreshAllowed() {
			return item.Value(), nil
		}
	}

	// the flight is shared, so one caller going away must not fail the others;
	// the HTTP client timeout bounds the fetch instead
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := k.group.Do(k.url, func() (any, error) {
		set, err := jwk.Fetch(fetchCtx, k.url, jwk.WithHTTPClient(k.client))
		if err != nil {
			slog.Warn("jwks fetch failed", "url", k.url, "error", err)
			return nil, fmt.Errorf("fetch jwks %s: %w", k.url, err)
		}
		k.mu.Lock()
		k.lastFetch = time.Now()
		k.mu.Unlock()
		k.cache.Set(k.url, set, ttlcache.DefaultTTL)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(jwk.Set), nil
}

func (k *KeySet) refreshAllowed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return time.Since(k.lastFetch) >= k.MinRefreshInterval
}

func lookup(set jwk.Set, kid string) (any, bool, error) {
	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, false, nil
	}
	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, false, fmt.Errorf("jwks: decode key %q: %w", kid, err)
	}
	return raw, true, nil
}
