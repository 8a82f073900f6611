// Package repository contains data access logic separated from HTTP handlers.
// This file holds the actor queries; every method issues a single statement
// against the actors table.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/casting-agency/internal/model"
)

// ActorRepo encapsulates all database queries related to actors.
type ActorRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewActorRepo constructs an ActorRepo with the provided DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// List returns every actor ordered by id.
func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	const q = `SELECT id, name, age, gender FROM actors ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Actor{}
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.Name, &a.Age, &a.Gender); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one actor. It returns ErrActorNotFound if no row matches.
func (r *ActorRepo) GetByID(ctx context.Context, id int64) (*model.Actor, error) {
	const q = `SELECT id, name, age, gender FROM actors WHERE id = ?`
	var a model.Actor
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Age, &a.Gender); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new actor and populates its ID.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	const q = `INSERT INTO actors (name, age, gender) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Age, a.Gender)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// Update writes every column of a. MySQL reports zero affected rows when the
// values are unchanged, so a zero count is confirmed with a lookup before
// ErrActorNotFound is returned.
func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	const q = `UPDATE actors SET name = ?, age = ?, gender = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Age, a.Gender, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err := r.GetByID(ctx, a.ID)
		return err
	}
	return nil
}

// Delete removes an actor. It returns ErrActorNotFound when nothing was deleted.
func (r *ActorRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActorNotFound
	}
	return nil
}
