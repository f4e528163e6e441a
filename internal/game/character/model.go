// Package character defines the Actor domain model: the raw, hand-edited
// inputs of a character, droid, or vehicle. Derived statistics are never
// stored on the Actor; see package derive.
package character

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/cory-johannsen/swse/internal/game/condition"
	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
)

// Kind distinguishes organic characters, droids, and vehicles.
type Kind string

const (
	KindCharacter Kind = "character"
	KindDroid     Kind = "droid"
	KindVehicle   Kind = "vehicle"
)

// Ability names one of the six ability scores.
type Ability string

const (
	Strength     Ability = "strength"
	Dexterity    Ability = "dexterity"
	Constitution Ability = "constitution"
	Intelligence Ability = "intelligence"
	Wisdom       Ability = "wisdom"
	Charisma     Ability = "charisma"
)

// Abilities lists the six abilities in sheet order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// Valid reports whether a is one of the six abilities.
func (a Ability) Valid() bool {
	for _, x := range Abilities {
		if x == a {
			return true
		}
	}
	return false
}

// AbilityBlock holds the raw inputs for one ability score.
type AbilityBlock struct {
	Base   int `json:"base"`
	Racial int `json:"racial"`
	Misc   int `json:"misc"` // enhancement and miscellaneous bonuses
	Temp   int `json:"temp"`
}

// DefaultAbility is the block used for any ability missing from an Actor.
var DefaultAbility = AbilityBlock{Base: 10}

// Defense names one of the three defense tracks.
type Defense string

const (
	Reflex    Defense = "reflex"
	Fortitude Defense = "fortitude"
	Will      Defense = "will"
)

// DefenseInput holds the raw, hand-edited part of a defense track.
type DefenseInput struct {
	Misc int `json:"misc"`
}

// SkillInput holds the raw inputs for one skill.
type SkillInput struct {
	Trained bool `json:"trained"`
	Focused bool `json:"focused"`
	Misc    int  `json:"misc"`
	// Ability overrides the skill's default ability when non-empty.
	Ability Ability `json:"ability,omitempty"`
}

// ClassLevel is one class level-block taken by the actor.
type ClassLevel struct {
	Name           string                 `json:"name"`
	Level          int                    `json:"level"`
	BABProgression ruleset.Progression    `json:"babProgression"`
	Defenses       ruleset.DefenseBonuses `json:"defenses"`
}

// Talent is a talent owned by the actor, tagged with its tree.
type Talent struct {
	Name string `json:"name"`
	Tree string `json:"tree"`
}

// ForcePoints tracks the actor's remaining Force Points.
type ForcePoints struct {
	Value int `json:"value"`
}

// SecondWind tracks remaining second wind uses.
type SecondWind struct {
	Uses int `json:"uses"`
}

// VehicleData holds the vehicle-only inputs to Reflex Defense.
type VehicleData struct {
	ArmorBonus int `json:"armorBonus"`
	// PilotHeroicLevel is 0 when no pilot is aboard.
	PilotHeroicLevel int `json:"pilotHeroicLevel"`
}

// Actor is the root document for a character, droid, or vehicle.
//
// Precondition: Level is only consulted when Classes is empty.
type Actor struct {
	ID                 string                   `json:"id"`
	Name               string                   `json:"name"`
	Kind               Kind                     `json:"kind"`
	Level              int                      `json:"level"`
	Size               inventory.Size           `json:"size"`
	Speed              int                      `json:"speed"`
	Credits            int                      `json:"credits"`
	TracksTokens       bool                     `json:"tracksTokens,omitempty"`
	ModificationTokens int                      `json:"modificationTokens,omitempty"`
	Species            string                   `json:"species,omitempty"`
	Abilities          map[Ability]AbilityBlock `json:"abilities"`
	Defenses           map[Defense]DefenseInput `json:"defenses,omitempty"`
	Skills             map[string]SkillInput    `json:"skills,omitempty"`
	ConditionTrack     condition.Track          `json:"conditionTrack"`
	ForcePoints        ForcePoints              `json:"forcePoints"`
	SecondWind         SecondWind               `json:"secondWind"`
	Classes            []ClassLevel             `json:"classes,omitempty"`
	Talents            []Talent                 `json:"talents,omitempty"`
	Feats              []string                 `json:"feats,omitempty"`
	Statuses           []string                 `json:"statuses,omitempty"`
	Gear               []*inventory.Item        `json:"gear,omitempty"`
	DroidArmor         *inventory.ArmorStats    `json:"droidArmor,omitempty"`
	Vehicle            *VehicleData             `json:"vehicle,omitempty"`
}

// IsDroid reports whether the actor is a droid.
func (a *Actor) IsDroid() bool { return a.Kind == KindDroid }

// IsVehicle reports whether the actor is a vehicle.
func (a *Actor) IsVehicle() bool { return a.Kind == KindVehicle }

// Ability returns the raw block for ab, or DefaultAbility when absent.
func (a *Actor) Ability(ab Ability) AbilityBlock {
	if b, ok := a.Abilities[ab]; ok {
		return b
	}
	return DefaultAbility
}

// HasFeat reports whether the actor owns a feat with exactly this name.
func (a *Actor) HasFeat(name string) bool {
	for _, f := range a.Feats {
		if f == name {
			return true
		}
	}
	return false
}

// HasTalent reports whether the actor owns a talent with exactly this name.
func (a *Actor) HasTalent(name string) bool {
	for _, t := range a.Talents {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Item returns the gear item with the given id.
func (a *Actor) Item(id string) (*inventory.Item, bool) {
	for _, it := range a.Gear {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// WornArmor returns the first equipped armor item, or nil.
func (a *Actor) WornArmor() *inventory.Item {
	for _, it := range a.Gear {
		if it.Type == inventory.TypeArmor && it.Equipped && it.Armor != nil {
			return it
		}
	}
	return nil
}

// ReplaceItem swaps the gear entry sharing item's ID for item.
//
// Postcondition: returns false and leaves Gear unchanged when no entry matches.
func (a *Actor) ReplaceItem(item *inventory.Item) bool {
	for i, it := range a.Gear {
		if it.ID == item.ID {
			a.Gear[i] = item
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}
	out := *a
	out.Abilities = maps.Clone(a.Abilities)
	out.Defenses = maps.Clone(a.Defenses)
	out.Skills = maps.Clone(a.Skills)
	out.Classes = slices.Clone(a.Classes)
	out.Talents = slices.Clone(a.Talents)
	out.Feats = slices.Clone(a.Feats)
	out.Statuses = slices.Clone(a.Statuses)
	if a.Gear != nil {
		out.Gear = make([]*inventory.Item, len(a.Gear))
		for i, it := range a.Gear {
			out.Gear[i] = it.Clone()
		}
	}
	if a.DroidArmor != nil {
		d := *a.DroidArmor
		out.DroidArmor = &d
	}
	if a.Vehicle != nil {
		v := *a.Vehicle
		out.Vehicle = &v
	}
	return &out
}

// Validate checks the actor's structural invariants.
//
// Postcondition: returns nil iff the actor can be derived.
func (a *Actor) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch a.Kind {
	case KindCharacter, KindDroid, KindVehicle:
	default:
		errs = append(errs, fmt.Errorf("kind %q is not valid", a.Kind))
	}
	if a.Level < 0 {
		errs = append(errs, errors.New("level must be >= 0"))
	}
	if a.Credits < 0 {
		errs = append(errs, errors.New("credits must be >= 0"))
	}
	if a.Size != "" && !a.Size.Valid() {
		errs = append(errs, fmt.Errorf("size %q is not valid", a.Size))
	}
	for ab := range a.Abilities {
		if !ab.Valid() {
			errs = append(errs, fmt.Errorf("unknown ability %q", ab))
		}
	}
	for _, c := range a.Classes {
		if c.Level < 0 {
			errs = append(errs, fmt.Errorf("class %q level must be >= 0", c.Name))
		}
	}
	if a.IsVehicle() && a.Vehicle == nil {
		errs = append(errs, errors.New("vehicle actors require a vehicle block"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("actor validation failed: %v", errs)
	}
	return nil
}
