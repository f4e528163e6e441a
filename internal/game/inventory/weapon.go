package inventory

import (
	"errors"
	"fmt"
)

// RangeCategory is a weapon's range band, ordered from melee to heavy.
type RangeCategory string

const (
	RangeMelee  RangeCategory = "melee"
	RangeThrown RangeCategory = "thrown"
	RangePistol RangeCategory = "pistol"
	RangeRifle  RangeCategory = "rifle"
	RangeHeavy  RangeCategory = "heavy"
)

// RangeLadder lists range categories from shortest to longest.
var RangeLadder = []RangeCategory{RangeMelee, RangeThrown, RangePistol, RangeRifle, RangeHeavy}

// Weapon property tags.
const (
	PropertyStun     = "stun"
	PropertyAutofire = "autofire"
	PropertyExotic   = "exotic"
)

// WeaponStats is the weapon stat block of a weapon item.
type WeaponStats struct {
	// Damage is a dice expression such as "3d8" or "2d6+2".
	Damage     string        `json:"damage" yaml:"damage"`
	DamageType string        `json:"damageType,omitempty" yaml:"damage_type"`
	Range      RangeCategory `json:"range" yaml:"range"`
	Properties []string      `json:"properties,omitempty" yaml:"properties"`
}

// IsMelee reports whether the weapon is a melee weapon.
func (w *WeaponStats) IsMelee() bool {
	return w.Range == RangeMelee
}

// HasProperty reports whether the weapon carries tag p.
func (w *WeaponStats) HasProperty(p string) bool {
	for _, have := range w.Properties {
		if have == p {
			return true
		}
	}
	return false
}

// Validate checks that the WeaponStats satisfies its invariants. Damage strings
// are not parsed here; malformed dice are reported when stripping.
//
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponStats) Validate() error {
	var errs []error
	if w.Damage == "" {
		errs = append(errs, errors.New("damage must not be empty"))
	}
	valid := false
	for _, r := range RangeLadder {
		if w.Range == r {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("range %q must be one of melee, thrown, pistol, rifle, heavy", w.Range))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}
