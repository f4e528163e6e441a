// Package memory provides an in-process ActorRepository for tests and the
// standalone rules server.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/storage"
)

// Store keeps actors in a map guarded by a mutex. Actors are cloned on the
// way in and out so callers never share state with the store.
type Store struct {
	mu     sync.Mutex
	actors map[string]*character.Actor
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{actors: make(map[string]*character.Actor)}
}

// Create stores a copy of a.
//
// Precondition: a.ID must be non-empty.
// Postcondition: returns storage.ErrActorExists when the ID is taken.
func (s *Store) Create(_ context.Context, a *character.Actor) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("creating actor: id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actors[a.ID]; ok {
		return storage.ErrActorExists
	}
	s.actors[a.ID] = a.Clone()
	return nil
}

// Get returns a copy of the actor with id.
func (s *Store) Get(_ context.Context, id string) (*character.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actors[id]
	if !ok {
		return nil, storage.ErrActorNotFound
	}
	return a.Clone(), nil
}

// List returns copies of every actor sorted by name then ID.
func (s *Store) List(_ context.Context) ([]*character.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*character.Actor, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateActor runs fn on a working copy while holding the store lock and
// swaps it in only when fn succeeds.
func (s *Store) UpdateActor(_ context.Context, id string, fn func(*character.Actor) error) (*character.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.actors[id]
	if !ok {
		return nil, storage.ErrActorNotFound
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.ID = id
	s.actors[id] = work
	return work.Clone(), nil
}

var _ storage.ActorRepository = (*Store)(nil)
