package character

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
)

// New constructs a level-1 actor from a species and a starting class.
// Every ability starts at base 10 with the species adjustment recorded as its
// racial modifier; the class grants its first level and starting feats.
//
// Precondition: name must be non-empty; species and class must be non-nil.
// Postcondition: Returns an Actor with a fresh ID, or a non-nil error.
func New(name string, species *ruleset.Species, class *ruleset.Class) (*Actor, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if species == nil {
		return nil, errors.New("species must not be nil")
	}
	if class == nil {
		return nil, errors.New("class must not be nil")
	}
	if class.Prestige {
		return nil, errors.New("a prestige class cannot be a starting class")
	}

	abilities := make(map[Ability]AbilityBlock, len(Abilities))
	for _, ab := range Abilities {
		abilities[ab] = DefaultAbility
	}
	for key, delta := range species.AbilityModifiers {
		ab := Ability(strings.ToLower(key))
		if !ab.Valid() {
			continue
		}
		b := abilities[ab]
		b.Racial += delta
		abilities[ab] = b
	}

	kind := KindCharacter
	if species.Droid {
		kind = KindDroid
	}
	size := inventory.Size(species.Size)
	if size == "" {
		size = inventory.SizeMedium
	}

	a := &Actor{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		Level:     1,
		Size:      size,
		Speed:     species.Speed,
		Species:   species.ID,
		Abilities: abilities,
		Feats:     append([]string(nil), class.StartingFeats...),
	}
	AddClassLevel(a, class)
	return a, nil
}

// AddClassLevel grants one level in class, extending an existing level-block
// of the same name or appending a new one for multiclassing. Actor.Level
// tracks the summed class levels.
//
// Precondition: a and class must be non-nil.
func AddClassLevel(a *Actor, class *ruleset.Class) {
	total := 0
	found := false
	for i := range a.Classes {
		if a.Classes[i].Name == class.Name {
			a.Classes[i].Level++
			found = true
		}
		total += a.Classes[i].Level
	}
	if !found {
		a.Classes = append(a.Classes, ClassLevel{
			Name:           class.Name,
			Level:          1,
			BABProgression: class.BABProgression,
			Defenses:       class.Defenses,
		})
		total++
	}
	a.Level = total
}

var abilityLabels = map[Ability]string{
	Strength:     "STR",
	Dexterity:    "DEX",
	Constitution: "CON",
	Intelligence: "INT",
	Wisdom:       "WIS",
	Charisma:     "CHA",
}

// AbilityLabel returns the short display label for an ability.
func AbilityLabel(ab Ability) string {
	if l, ok := abilityLabels[ab]; ok {
		return l
	}
	return "<" + string(ab) + ">"
}
