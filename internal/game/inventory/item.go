// Package inventory provides the equipment item model, restriction levels, and
// YAML loaders for gear templates and upgrade definitions.
package inventory

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// ItemType is the equipment category of an Item.
type ItemType string

const (
	TypeWeapon    ItemType = "weapon"
	TypeArmor     ItemType = "armor"
	TypeEquipment ItemType = "equipment"
)

// validTypes is the set of valid ItemType values.
var validTypes = map[ItemType]bool{
	TypeWeapon:    true,
	TypeArmor:     true,
	TypeEquipment: true,
}

// Feature names a strippable item feature.
type Feature string

const (
	FeatureDamage            Feature = "damage"
	FeatureRange             Feature = "range"
	FeatureDesign            Feature = "design"
	FeatureStun              Feature = "stun"
	FeatureAutofire          Feature = "autofire"
	FeatureDefensiveMaterial Feature = "defensiveMaterial"
	FeatureJointProtection   Feature = "jointProtection"
)

// InstalledUpgrade is one upgrade occupying slots on an item.
type InstalledUpgrade struct {
	// ID identifies this installation; UpgradeID names the upgrade definition.
	ID          string      `json:"id" yaml:"id"`
	UpgradeID   string      `json:"upgradeId" yaml:"upgrade_id"`
	Name        string      `json:"name" yaml:"name"`
	SlotsUsed   int         `json:"slotsUsed" yaml:"slots_used"`
	Cost        int         `json:"cost" yaml:"cost"`
	Restriction Restriction `json:"restriction" yaml:"restriction"`
}

// Item is a weapon, armor, or generic equipment document.
//
// Invariant: UsedSlots() == sum of InstalledUpgrades[i].SlotsUsed.
type Item struct {
	ID                string             `json:"id" yaml:"id"`
	Name              string             `json:"name" yaml:"name"`
	Type              ItemType           `json:"type" yaml:"type"`
	Description       string             `json:"description,omitempty" yaml:"description"`
	Cost              int                `json:"cost" yaml:"cost"`
	Weight            float64            `json:"weight" yaml:"weight"`
	Size              Size               `json:"size,omitempty" yaml:"size"`
	UpgradeSlots      int                `json:"upgradeSlots" yaml:"upgrade_slots"` // 0 = slot policy default
	InstalledUpgrades []InstalledUpgrade `json:"installedUpgrades" yaml:"installed_upgrades"`
	StrippedFeatures  map[Feature]bool   `json:"strippedFeatures,omitempty" yaml:"stripped_features"`
	Restriction       Restriction        `json:"restriction" yaml:"restriction"`
	Equipped          bool               `json:"equipped" yaml:"equipped"`
	SizeIncreased     bool               `json:"sizeIncreased,omitempty" yaml:"size_increased"`
	GearTemplate      string             `json:"gearTemplate,omitempty" yaml:"gear_template"`
	Armor             *ArmorStats        `json:"armor,omitempty" yaml:"armor"`
	Weapon            *WeaponStats       `json:"weapon,omitempty" yaml:"weapon"`
}

// UsedSlots returns the number of slots consumed by installed upgrades.
func (it *Item) UsedSlots() int {
	used := 0
	for _, u := range it.InstalledUpgrades {
		used += u.SlotsUsed
	}
	return used
}

// IsStripped reports whether feature f has been stripped from the item.
func (it *Item) IsStripped(f Feature) bool {
	return it.StrippedFeatures[f]
}

// StrippedCount returns the number of stripped features.
func (it *Item) StrippedCount() int {
	n := 0
	for _, stripped := range it.StrippedFeatures {
		if stripped {
			n++
		}
	}
	return n
}

// HasUpgrade reports whether an upgrade with the given definition ID is installed.
func (it *Item) HasUpgrade(upgradeID string) bool {
	for _, u := range it.InstalledUpgrades {
		if u.UpgradeID == upgradeID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the item so transitions never alias the caller's state.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := *it
	out.InstalledUpgrades = slices.Clone(it.InstalledUpgrades)
	out.StrippedFeatures = maps.Clone(it.StrippedFeatures)
	if it.Armor != nil {
		a := *it.Armor
		out.Armor = &a
	}
	if it.Weapon != nil {
		w := *it.Weapon
		w.Properties = slices.Clone(it.Weapon.Properties)
		out.Weapon = &w
	}
	return &out
}

// Validate checks that the Item satisfies its invariants.
//
// Precondition: it is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (it *Item) Validate() error {
	var errs []error
	if it.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if it.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validTypes[it.Type] {
		errs = append(errs, fmt.Errorf("type must be one of weapon, armor, equipment; got %q", it.Type))
	}
	if it.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	if it.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if it.UpgradeSlots < 0 {
		errs = append(errs, errors.New("upgrade_slots must be >= 0"))
	}
	if it.Restriction != "" && !it.Restriction.Valid() {
		errs = append(errs, fmt.Errorf("restriction %q is not valid", it.Restriction))
	}
	if it.Size != "" && !it.Size.Valid() {
		errs = append(errs, fmt.Errorf("size %q is not valid", it.Size))
	}
	switch it.Type {
	case TypeArmor:
		if it.Armor == nil {
			errs = append(errs, errors.New("armor items require an armor block"))
		} else if err := it.Armor.Validate(); err != nil {
			errs = append(errs, err)
		}
	case TypeWeapon:
		if it.Weapon == nil {
			errs = append(errs, errors.New("weapon items require a weapon block"))
		} else if err := it.Weapon.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// Item template, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Items or the first encountered error.
func LoadItems(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	items := []*Item{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var it Item
		if err := yaml.Unmarshal(data, &it); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if it.Restriction == "" {
			it.Restriction = RestrictionCommon
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &it)
	}
	return items, nil
}
