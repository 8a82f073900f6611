package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/casting-agency/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      []string{"GET"},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestResponseCacheHitMissAndPurge(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheConfig(), rdb)

	calls := 0
	e := echo.New()
	e.GET("/actors", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"success": true, "calls": calls})
	}, rc.Middleware())
	e.POST("/actors", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, echo.Map{"success": true})
	}, rc.Invalidate("/actors"))

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actors", nil))
		return rec
	}

	first := get()
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get()
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actors", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	third := get()
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestResponseCacheHitKeepsRequestHeaders(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheConfig(), rdb)

	seq := 0
	perRequest := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			seq++
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Add(echo.HeaderVary, echo.HeaderOrigin)
			h.Set(echo.HeaderXRequestID, fmt.Sprintf("req-%d", seq))
			return next(c)
		}
	}

	e := echo.New()
	e.GET("/actors", func(c echo.Context) error {
		c.Response().Header().Set("X-Handler", "ran")
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}, perRequest, rc.Middleware())

	for range 2 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actors", nil))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actors", nil))

	h := rec.Header()
	assert.Equal(t, []string{"HIT"}, h.Values("X-Cache"))
	assert.Equal(t, []string{"*"}, h.Values(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, []string{echo.HeaderOrigin}, h.Values(echo.HeaderVary))
	assert.Equal(t, []string{"req-3"}, h.Values(echo.HeaderXRequestID))
	assert.Equal(t, []string{echo.MIMEApplicationJSON}, h.Values(echo.HeaderContentType))
	assert.Empty(t, h.Values("X-Handler"))
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheConfig(), rdb)

	e := echo.New()
	e.GET("/movies", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}, rc.Middleware())

	for range 2 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies", nil))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
}

func TestResponseCacheDisabled(t *testing.T) {
	rc := NewResponseCache(cacheConfig(), nil)

	e := echo.New()
	e.GET("/actors", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, rc.Middleware())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actors", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Purge(t.Context(), "/actors"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
