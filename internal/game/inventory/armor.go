package inventory

import (
	"errors"
	"fmt"
)

// ArmorType is the proficiency category of a suit of armor.
type ArmorType string

const (
	ArmorLight  ArmorType = "light"
	ArmorMedium ArmorType = "medium"
	ArmorHeavy  ArmorType = "heavy"
)

// Valid reports whether t is light, medium, or heavy.
func (t ArmorType) Valid() bool {
	return t == ArmorLight || t == ArmorMedium || t == ArmorHeavy
}

// ArmorStats is the armor stat block of an armor item or a droid's built-in plating.
type ArmorStats struct {
	ArmorType ArmorType `json:"armorType" yaml:"armor_type"`
	// ArmorBonus is the armor bonus to Reflex Defense.
	ArmorBonus int `json:"armorBonus" yaml:"armor_bonus"`
	// FortBonus is the equipment bonus to Fortitude Defense.
	FortBonus   int `json:"fortBonus" yaml:"fort_bonus"`
	MaxDexBonus int `json:"maxDexBonus" yaml:"max_dex_bonus"`
	// ArmorCheckPenalty is non-positive; 0 = none.
	ArmorCheckPenalty int  `json:"armorCheckPenalty" yaml:"armor_check_penalty"`
	Powered           bool `json:"powered,omitempty" yaml:"powered"`
}

// Validate reports an error if the stat block contains illegal values.
//
// Postcondition: Returns nil iff the block is well-formed.
func (a *ArmorStats) Validate() error {
	var errs []error
	if !a.ArmorType.Valid() {
		errs = append(errs, fmt.Errorf("armor_type %q must be light, medium, or heavy", a.ArmorType))
	}
	if a.ArmorBonus < 0 {
		errs = append(errs, errors.New("armor_bonus must be >= 0"))
	}
	if a.FortBonus < 0 {
		errs = append(errs, errors.New("fort_bonus must be >= 0"))
	}
	if a.MaxDexBonus < 0 {
		errs = append(errs, errors.New("max_dex_bonus must be >= 0"))
	}
	if a.ArmorCheckPenalty > 0 {
		errs = append(errs, errors.New("armor_check_penalty must be <= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}
