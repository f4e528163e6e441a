package condition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration says how a status ends.
type Duration string

const (
	// DurationRounds statuses count down on Tick.
	DurationRounds Duration = "rounds"
	// DurationPermanent statuses last until removed.
	DurationPermanent Duration = "permanent"
)

// StatusDef is one named status from content/statuses.
type StatusDef struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	DurationType      Duration `yaml:"duration_type"`
	DeniesDexToReflex bool     `yaml:"denies_dex_to_reflex"`
}

// Validate rejects definitions without an id or with an unknown duration.
func (d *StatusDef) Validate() error {
	if d.ID == "" {
		return errors.New("status id must not be empty")
	}
	switch d.DurationType {
	case DurationRounds, DurationPermanent:
		return nil
	}
	return fmt.Errorf("status %s: duration_type must be %q or %q, got %q", d.ID, DurationRounds, DurationPermanent, d.DurationType)
}

// Registry resolves status ids stored on actors to their definitions.
type Registry struct {
	defs map[string]*StatusDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*StatusDef{}}
}

// Register stores def under its id, replacing an earlier definition.
//
// Precondition: def is non-nil with a non-empty ID.
func (r *Registry) Register(def *StatusDef) {
	if def == nil || def.ID == "" {
		panic("condition.Registry.Register: precondition violated: def must be non-nil with an ID")
	}
	r.defs[def.ID] = def
}

// Get looks up id.
func (r *Registry) Get(id string) (*StatusDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All lists the definitions ordered by id.
func (r *Registry) All() []*StatusDef {
	out := make([]*StatusDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *StatusDef) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// DefaultRegistry holds the statuses derivation understands without any
// content directory: flat_footed, helpless and stunned.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range []*StatusDef{
		{ID: "flat_footed", Name: "Flat-Footed", DurationType: DurationRounds, DeniesDexToReflex: true},
		{ID: "helpless", Name: "Helpless", DurationType: DurationPermanent, DeniesDexToReflex: true},
		{ID: "stunned", Name: "Stunned", DurationType: DurationRounds},
	} {
		reg.Register(d)
	}
	return reg
}

// LoadDirectory decodes every *.yaml file in dir. Unknown keys are errors so
// a misspelled flag never silently reads as false.
//
// Postcondition: the error wraps fs.ErrNotExist when dir is missing.
func LoadDirectory(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("status dir: %w", err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, path := range paths {
		def, err := decodeStatus(path)
		if err != nil {
			return nil, err
		}
		reg.Register(def)
	}
	return reg, nil
}

// LoadOrDefault is LoadDirectory with DefaultRegistry standing in for a
// directory that does not exist.
func LoadOrDefault(dir string) (*Registry, error) {
	reg, err := LoadDirectory(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultRegistry(), nil
	}
	return reg, err
}

func decodeStatus(path string) (*StatusDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var def StatusDef
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &def, nil
}
