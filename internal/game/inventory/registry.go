package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Registry holds gear templates and upgrade definitions indexed by ID.
type Registry struct {
	templates map[string]*Item
	upgrades  map[string]*UpgradeDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]*Item),
		upgrades:  make(map[string]*UpgradeDef),
	}
}

// RegisterTemplate adds a gear template to the registry.
//
// Precondition:  it must not be nil.
// Postcondition: Template(it.ID) returns it; returns error if it.ID already registered.
func (r *Registry) RegisterTemplate(it *Item) error {
	if _, exists := r.templates[it.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterTemplate: item ID %q already registered", it.ID)
	}
	r.templates[it.ID] = it
	return nil
}

// RegisterUpgrade adds u to the registry.
//
// Precondition:  u must not be nil.
// Postcondition: Upgrade(u.ID) returns u; returns error if u.ID already registered.
func (r *Registry) RegisterUpgrade(u *UpgradeDef) error {
	if _, exists := r.upgrades[u.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterUpgrade: upgrade ID %q already registered", u.ID)
	}
	r.upgrades[u.ID] = u
	return nil
}

// Template returns a copy of the gear template for id and whether it was found.
// The copy is a fresh item the caller may mutate.
func (r *Registry) Template(id string) (*Item, bool) {
	it, ok := r.templates[id]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

// Upgrade returns the UpgradeDef for id and whether it was found.
func (r *Registry) Upgrade(id string) (*UpgradeDef, bool) {
	u, ok := r.upgrades[id]
	return u, ok
}

// AllUpgrades returns all registered upgrades sorted by ID.
func (r *Registry) AllUpgrades() []*UpgradeDef {
	out := make([]*UpgradeDef, 0, len(r.upgrades))
	for _, u := range r.upgrades {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TemplateIDs returns every gear template ID in sorted order.
func (r *Registry) TemplateIDs() []string {
	out := make([]string, 0, len(r.templates))
	for id := range r.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// TemplateCount returns the number of registered gear templates.
func (r *Registry) TemplateCount() int {
	return len(r.templates)
}

// LoadRegistry loads gear templates from root/{armor,weapons,equipment} and
// upgrades from root/upgrades. Missing subdirectories are skipped.
//
// Postcondition: returns a populated Registry or the first load/registration error.
func LoadRegistry(root string) (*Registry, error) {
	reg := NewRegistry()
	for _, sub := range []string{"armor", "weapons", "equipment"} {
		dir := filepath.Join(root, sub)
		if !dirExists(dir) {
			continue
		}
		items, err := LoadItems(dir)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := reg.RegisterTemplate(it); err != nil {
				return nil, err
			}
		}
	}
	dir := filepath.Join(root, "upgrades")
	if dirExists(dir) {
		upgrades, err := LoadUpgrades(dir)
		if err != nil {
			return nil, err
		}
		for _, u := range upgrades {
			if err := reg.RegisterUpgrade(u); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || err != nil {
		return false
	}
	return info.IsDir()
}
