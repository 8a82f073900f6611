package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/repository"
	"github.com/iliyamo/casting-agency/internal/service"
)

// MovieHandler serves the /movies collection.
type MovieHandler struct {
	Repo   *repository.MovieRepo
	Events service.Publisher
}

// NewMovieHandler constructs a MovieHandler and panics if the repository is nil.
func NewMovieHandler(repo *repository.MovieRepo, events service.Publisher) *MovieHandler {
	if repo == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	if events == nil {
		events = service.NoopPublisher{}
	}
	return &MovieHandler{Repo: repo, Events: events}
}

// movieRequest keeps release_date as a raw string so a malformed date is a
// 400 from validation rather than a bind failure with a vaguer cause.
type movieRequest struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
}

func (r movieRequest) empty() bool { return r.Title == nil && r.ReleaseDate == nil }

func (r movieRequest) apply(m *model.Movie) error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return errBadRequest
		}
		m.Title = title
	}
	if r.ReleaseDate != nil {
		d, err := model.ParseDate(*r.ReleaseDate)
		if err != nil {
			return errBadRequest.WithInternal(err)
		}
		m.ReleaseDate = d
	}
	return nil
}

// ListMovies handles GET /movies.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "movies": movies})
}

// CreateMovie handles POST /movies. Title and release date are required.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var req movieRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest.WithInternal(err)
	}
	if req.Title == nil || req.ReleaseDate == nil {
		return errBadRequest
	}
	var movie model.Movie
	if err := req.apply(&movie); err != nil {
		return err
	}
	if err := h.Repo.Create(c.Request().Context(), &movie); err != nil {
		return err
	}
	emit(c, h.Events, queue.ResourceMovie, queue.ActionCreated, movie.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "movie": movie})
}

// UpdateMovie handles PATCH /movies/:id. Absent fields keep their values.
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	movie, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return errNotFound
		}
		return err
	}

	var req movieRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest.WithInternal(err)
	}
	if req.empty() {
		return errBadRequest
	}
	if err := req.apply(movie); err != nil {
		return err
	}
	if err := h.Repo.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return errNotFound
		}
		return err
	}
	emit(c, h.Events, queue.ResourceMovie, queue.ActionUpdated, movie.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "movie": movie})
}

// DeleteMovie handles DELETE /movies/:id.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return errNotFound
		}
		return err
	}
	emit(c, h.Events, queue.ResourceMovie, queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "deleted": id})
}
