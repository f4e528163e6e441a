// Package compendium serves reference documents (upgrade definitions, gear
// templates, species trait records) to the rules engine. Documents are raw
// JSON grouped into named packs.
package compendium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/traits"
	"github.com/cory-johannsen/swse/internal/storage"
)

// Pack names.
const (
	PackUpgrades = "upgrades"
	PackGear     = "gear"
	PackSpecies  = "species"
)

// ErrPackNotFound is returned by a Source that does not carry the requested pack.
var ErrPackNotFound = errors.New("pack not found")

// Source fetches raw reference documents. postgres.DocumentRepository
// satisfies it.
type Source interface {
	// Get returns document id of pack, or storage.ErrDocumentNotFound.
	Get(ctx context.Context, pack, id string) (json.RawMessage, error)
	// IDs lists the document IDs of pack in ascending order.
	IDs(ctx context.Context, pack string) ([]string, error)
}

// Writer stores reference documents.
type Writer interface {
	Put(ctx context.Context, pack, id string, doc json.RawMessage) error
}

// RegistrySource serves packs straight from the loaded content registries.
type RegistrySource struct {
	items   *inventory.Registry
	species *traits.Registry
}

// NewRegistrySource wraps the gear and species registries.
//
// Precondition: items must be non-nil; species may be nil, in which case the
// species pack is reported missing.
func NewRegistrySource(items *inventory.Registry, species *traits.Registry) *RegistrySource {
	return &RegistrySource{items: items, species: species}
}

// Get encodes the requested definition as JSON.
func (s *RegistrySource) Get(_ context.Context, pack, id string) (json.RawMessage, error) {
	var (
		v  any
		ok bool
	)
	switch pack {
	case PackUpgrades:
		v, ok = s.items.Upgrade(id)
	case PackGear:
		v, ok = s.items.Template(id)
	case PackSpecies:
		if s.species == nil {
			return nil, fmt.Errorf("%s: %w", pack, ErrPackNotFound)
		}
		v, ok = s.species.Get(id)
	default:
		return nil, fmt.Errorf("%s: %w", pack, ErrPackNotFound)
	}
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", pack, id, storage.ErrDocumentNotFound)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s/%s: %w", pack, id, err)
	}
	return data, nil
}

// IDs lists the definitions of pack in ascending order.
func (s *RegistrySource) IDs(_ context.Context, pack string) ([]string, error) {
	switch pack {
	case PackUpgrades:
		all := s.items.AllUpgrades()
		out := make([]string, len(all))
		for i, u := range all {
			out[i] = u.ID
		}
		return out, nil
	case PackGear:
		return s.items.TemplateIDs(), nil
	case PackSpecies:
		if s.species != nil {
			return s.species.IDs(), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", pack, ErrPackNotFound)
}

// Publish copies every document of packs from src into dst, returning the
// number of documents written.
//
// Postcondition: on error, documents written before the failure remain.
func Publish(ctx context.Context, dst Writer, src Source, packs ...string) (int, error) {
	n := 0
	for _, pack := range packs {
		ids, err := src.IDs(ctx, pack)
		if err != nil {
			return n, fmt.Errorf("listing %s: %w", pack, err)
		}
		for _, id := range ids {
			doc, err := src.Get(ctx, pack, id)
			if err != nil {
				return n, err
			}
			if err := dst.Put(ctx, pack, id, doc); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

var _ Source = (*RegistrySource)(nil)
