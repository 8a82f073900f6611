// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Resource names carried in ResourceEvent.Resource.
const (
	ResourceActor = "actor"
	ResourceMovie = "movie"
)

// Actions carried in ResourceEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ResourceEvent is published after every successful write to the store. It
// carries enough information for downstream consumers to build an audit
// trail without querying the primary database.
type ResourceEvent struct {
	ID         string    `json:"id"`
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	ResourceID int64     `json:"resource_id"`
	Subject    string    `json:"subject"` // token subject of the caller
	OccurredAt time.Time `json:"occurred_at"`
}

// NewResourceEvent stamps a fresh event id and the current UTC time.
func NewResourceEvent(resource, action string, resourceID int64, subject string) ResourceEvent {
	return ResourceEvent{
		ID:         uuid.NewString(),
		Resource:   resource,
		Action:     action,
		ResourceID: resourceID,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
	}
}
