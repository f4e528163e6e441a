// Package storage defines the document persistence contract shared by the
// in-memory and PostgreSQL backends.
package storage

import (
	"context"
	"errors"

	"github.com/cory-johannsen/swse/internal/game/character"
)

// ErrActorNotFound is returned when an actor lookup yields no results.
var ErrActorNotFound = errors.New("actor not found")

// ErrActorExists is returned when creating an actor whose ID is already taken.
var ErrActorExists = errors.New("actor already exists")

// ErrDocumentNotFound is returned when a reference document lookup yields no results.
var ErrDocumentNotFound = errors.New("document not found")

// ActorRepository stores actor documents.
type ActorRepository interface {
	Create(ctx context.Context, a *character.Actor) error
	Get(ctx context.Context, id string) (*character.Actor, error)
	List(ctx context.Context) ([]*character.Actor, error)
	// UpdateActor applies fn to the current actor and persists the result as
	// one atomic update. If fn returns an error nothing is written.
	UpdateActor(ctx context.Context, id string, fn func(*character.Actor) error) (*character.Actor, error)
}
