package ruleset

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Registry owns the loaded rules content. It is built once from a content
// directory and passed explicitly to the code that needs it.
type Registry struct {
	classes map[string]*Class
	species map[string]*Species
	// treeOf maps talent name to its tree name.
	treeOf map[string]string
	trees  map[string]*TalentTree
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		species: make(map[string]*Species),
		treeOf:  make(map[string]string),
		trees:   make(map[string]*TalentTree),
	}
}

// RegisterClass adds a Class to the registry.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: if called multiple times with the same ID, the last call wins.
func (r *Registry) RegisterClass(c *Class) {
	if c == nil {
		panic("Registry.RegisterClass: precondition violated: class must be non-nil")
	}
	if c.ID == "" {
		panic("Registry.RegisterClass: precondition violated: class ID must be non-empty")
	}
	r.classes[c.ID] = c
}

// RegisterSpecies adds a Species to the registry.
//
// Precondition: s must be non-nil with a non-empty ID.
func (r *Registry) RegisterSpecies(s *Species) {
	if s == nil {
		panic("Registry.RegisterSpecies: precondition violated: species must be non-nil")
	}
	if s.ID == "" {
		panic("Registry.RegisterSpecies: precondition violated: species ID must be non-empty")
	}
	r.species[s.ID] = s
}

// RegisterTalentTree adds a tree and indexes each of its talents by name.
//
// Precondition: t must be non-nil with a non-empty Name.
func (r *Registry) RegisterTalentTree(t *TalentTree) {
	if t == nil || t.Name == "" {
		panic("Registry.RegisterTalentTree: precondition violated: tree must be non-nil with a name")
	}
	r.trees[t.Name] = t
	for _, td := range t.Talents {
		r.treeOf[td.Name] = t.Name
	}
}

// Class returns the Class for id, if registered.
func (r *Registry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// ClassByName returns the Class whose display name is name.
func (r *Registry) ClassByName(name string) (*Class, bool) {
	for _, c := range r.classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Species returns the Species for id, if registered.
func (r *Registry) Species(id string) (*Species, bool) {
	s, ok := r.species[id]
	return s, ok
}

// AllSpecies returns all species sorted by ID.
func (r *Registry) AllSpecies() []*Species {
	out := make([]*Species, 0, len(r.species))
	for _, s := range r.species {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TreeOf returns the talent tree a named talent belongs to.
func (r *Registry) TreeOf(talent string) (string, bool) {
	t, ok := r.treeOf[talent]
	return t, ok
}

// TalentTree returns the tree with the given name.
func (r *Registry) TalentTree(name string) (*TalentTree, bool) {
	t, ok := r.trees[name]
	return t, ok
}

// LoadRegistry loads classes, species, and talent trees from
// root/{classes,species,talents}.
//
// Postcondition: returns a populated Registry or the first load error.
func LoadRegistry(root string) (*Registry, error) {
	reg := NewRegistry()

	classes, err := LoadClasses(filepath.Join(root, "classes"))
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	for _, c := range classes {
		reg.RegisterClass(c)
	}

	species, err := LoadSpecies(filepath.Join(root, "species"))
	if err != nil {
		return nil, fmt.Errorf("loading species: %w", err)
	}
	for _, s := range species {
		reg.RegisterSpecies(s)
	}

	trees, err := LoadTalentTrees(filepath.Join(root, "talents"))
	if err != nil {
		return nil, fmt.Errorf("loading talent trees: %w", err)
	}
	for _, t := range trees {
		reg.RegisterTalentTree(t)
	}
	return reg, nil
}
