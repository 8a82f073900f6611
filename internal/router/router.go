package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/casting-agency/internal/config"
	"github.com/iliyamo/casting-agency/internal/handler"
	"github.com/iliyamo/casting-agency/internal/middleware"
	"github.com/iliyamo/casting-agency/internal/repository"
	"github.com/iliyamo/casting-agency/internal/service"
)

// Deps carries everything NewServer wires into the routes. Redis and Events
// are optional: a nil Redis client disables caching and rate limiting, and a
// nil publisher drops audit events.
type Deps struct {
	DB       *sql.DB
	Verifier middleware.TokenVerifier
	Redis    *redis.Client
	Events   service.Publisher

	Cache       config.CacheConfig
	RateLimit   config.RateLimitConfig
	CORSOrigins []string
}

// NewServer builds the Echo instance with the global middleware stack, the
// central error handler and every route.
func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger())
	e.Use(echomw.Recover())
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	}))

	RegisterRoutes(e, d.DB)

	cache := middleware.NewResponseCache(d.Cache, d.Redis)
	limiter := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	guard := func(permission string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			middleware.JWTAuth(d.Verifier),
			middleware.RequirePermission(permission),
			limiter,
		}
	}

	RegisterActors(e, handler.NewActorHandler(repository.NewActorRepo(d.DB), d.Events), guard, cache)
	RegisterMovies(e, handler.NewMovieHandler(repository.NewMovieRepo(d.DB), d.Events), guard, cache)
	return e
}

// RegisterRoutes registers routes that do not require authentication: the
// welcome message and a health check for load balancers.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/", handler.Index)
	e.GET("/healthz", handler.Health(db))
}

// guardFunc returns the authentication chain for a permission.
type guardFunc func(permission string) []echo.MiddlewareFunc

// byID prefixes chain with the id check, so a non-integer id is 404 before
// any authentication runs.
func byID(chain []echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append([]echo.MiddlewareFunc{handler.RequireNumericID}, chain...)
}

// RegisterActors registers the /actors collection. Authentication always
// runs before the handler looks anything up.
func RegisterActors(e *echo.Echo, h *handler.ActorHandler, guard guardFunc, cache *middleware.ResponseCache) {
	e.GET("/actors", h.ListActors, append(guard("get:actors"), cache.Middleware())...)
	e.POST("/actors", h.CreateActor, append(guard("post:actors"), cache.Invalidate("/actors"))...)
	e.PATCH("/actors/:id", h.UpdateActor, append(byID(guard("patch:actors")), cache.Invalidate("/actors"))...)
	e.DELETE("/actors/:id", h.DeleteActor, append(byID(guard("delete:actors")), cache.Invalidate("/actors"))...)
}

// RegisterMovies registers the /movies collection.
func RegisterMovies(e *echo.Echo, h *handler.MovieHandler, guard guardFunc, cache *middleware.ResponseCache) {
	e.GET("/movies", h.ListMovies, append(guard("get:movies"), cache.Middleware())...)
	e.POST("/movies", h.CreateMovie, append(guard("post:movies"), cache.Invalidate("/movies"))...)
	e.PATCH("/movies/:id", h.UpdateMovie, append(byID(guard("patch:movies")), cache.Invalidate("/movies"))...)
	e.DELETE("/movies/:id", h.DeleteMovie, append(byID(guard("delete:movies")), cache.Invalidate("/movies"))...)
}

// requestLogger writes one structured access log line per request to slog.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("user", middleware.UserID(c)),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			if v.Status >= 500 {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
