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

// ActorHandler serves the /actors collection.
type ActorHandler struct {
	Repo   *repository.ActorRepo
	Events service.Publisher
}

// NewActorHandler constructs an ActorHandler and panics if the repository is nil.
func NewActorHandler(repo *repository.ActorRepo, events service.Publisher) *ActorHandler {
	if repo == nil {
		panic("nil repository passed to NewActorHandler")
	}
	if events == nil {
		events = service.NoopPublisher{}
	}
	return &ActorHandler{Repo: repo, Events: events}
}

// actorRequest distinguishes absent fields from zero values so PATCH can
// keep the stored value for anything the client left out.
type actorRequest struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}

func (r actorRequest) empty() bool { return r.Name == nil && r.Age == nil && r.Gender == nil }

// apply validates the provided fields and copies them onto a.
func (r actorRequest) apply(a *model.Actor) error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errBadRequest
		}
		a.Name = name
	}
	if r.Age != nil {
		if *r.Age < 1 {
			return errBadRequest
		}
		a.Age = *r.Age
	}
	if r.Gender != nil {
		gender := strings.TrimSpace(*r.Gender)
		if gender == "" {
			return errBadRequest
		}
		a.Gender = gender
	}
	return nil
}

// ListActors handles GET /actors.
func (h *ActorHandler) ListActors(c echo.Context) error {
	actors, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "actors": actors})
}

// CreateActor handles POST /actors. Every field is required.
func (h *ActorHandler) CreateActor(c echo.Context) error {
	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest.WithInternal(err)
	}
	if req.Name == nil || req.Age == nil || req.Gender == nil {
		return errBadRequest
	}
	var actor model.Actor
	if err := req.apply(&actor); err != nil {
		return err
	}
	if err := h.Repo.Create(c.Request().Context(), &actor); err != nil {
		return err
	}
	emit(c, h.Events, queue.ResourceActor, queue.ActionCreated, actor.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "actor": actor})
}

// UpdateActor handles PATCH /actors/:id. Absent fields keep their values.
func (h *ActorHandler) UpdateActor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	actor, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return errNotFound
		}
		return err
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest.WithInternal(err)
	}
	if req.empty() {
		return errBadRequest
	}
	if err := req.apply(actor); err != nil {
		return err
	}
	if err := h.Repo.Update(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return errNotFound
		}
		return err
	}
	emit(c, h.Events, queue.ResourceActor, queue.ActionUpdated, actor.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "actor": actor})
}

// DeleteActor handles DELETE /actors/:id.
func (h *ActorHandler) DeleteActor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return errNotFound
		}
		return err
	}
	emit(c, h.Events, queue.ResourceActor, queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "deleted": id})
}
