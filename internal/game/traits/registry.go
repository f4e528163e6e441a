package traits

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Validate checks the record's structural invariants.
//
// Postcondition: returns nil iff every trait has an id and every rule a type
// and trigger.
func (s *Species) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for _, group := range [][]Trait{s.StructuralTraits, s.ConditionalTraits} {
		for _, t := range group {
			if t.ID == "" {
				errs = append(errs, fmt.Errorf("trait %q has no id", t.Name))
			}
			for i, r := range t.Rules {
				if r.Type == "" {
					errs = append(errs, fmt.Errorf("trait %s rule %d has no type", t.ID, i))
				}
				if r.When.Type == "" {
					errs = append(errs, fmt.Errorf("trait %s rule %d has no trigger", t.ID, i))
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("species %s: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

// Registry holds species trait records keyed by species ID. It is built once
// and then only read.
type Registry struct {
	species map[string]*Species
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{species: make(map[string]*Species)}
}

// Register adds s, replacing any record with the same ID.
//
// Precondition: s must be non-nil with a non-empty ID.
func (r *Registry) Register(s *Species) {
	if s == nil || s.ID == "" {
		panic("Registry.Register: precondition violated: species must be non-nil with an id")
	}
	r.species[s.ID] = s
}

// Get returns the record for id.
func (r *Registry) Get(id string) (*Species, bool) {
	s, ok := r.species[id]
	return s, ok
}

// IDs returns the registered species IDs in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.species))
	for id := range r.species {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RulesFor returns every rule of the species, or nil when it is unknown.
func (r *Registry) RulesFor(speciesID string) []Rule {
	s, ok := r.species[speciesID]
	if !ok {
		return nil
	}
	return s.Rules()
}

// LoadRegistry reads every *.json species record in dir.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a populated Registry or the first read, parse, or
// validation error.
func LoadRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadRegistry: cannot read directory %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadRegistry: cannot read file %q: %w", path, err)
		}
		var s Species
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("LoadRegistry: cannot parse file %q: %w", path, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("LoadRegistry: invalid record in %q: %w", path, err)
		}
		reg.Register(&s)
	}
	return reg, nil
}

// Write stores s as dir/<id>.json.
//
// Postcondition: the file round-trips through LoadRegistry.
func Write(dir string, s *Species) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding species %s: %w", s.ID, err)
	}
	path := filepath.Join(dir, s.ID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}
