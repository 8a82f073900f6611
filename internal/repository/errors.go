// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to tell a missing row apart from a database failure.
package repository

import "errors"

// ErrActorNotFound is returned when an actor cannot be found in the DB.
// Handlers should translate this into an HTTP 404 response.
var ErrActorNotFound = errors.New("actor not found")

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")
