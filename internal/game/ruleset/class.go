// Package ruleset defines the static rules content (classes, species, talent
// trees) loaded from YAML and the registry that owns it.
package ruleset

import (
	"errors"
	"fmt"
)

// Progression is a class's base attack bonus progression.
type Progression string

const (
	ProgressionSlow   Progression = "slow"
	ProgressionMedium Progression = "medium"
	ProgressionFast   Progression = "fast"
)

// ratio returns the progression multiplier as numerator/denominator so BAB can
// be computed with integer floor division.
func (p Progression) ratio() (num, den int, ok bool) {
	switch p {
	case ProgressionSlow:
		return 1, 2, true
	case ProgressionMedium:
		return 3, 4, true
	case ProgressionFast:
		return 1, 1, true
	}
	return 0, 1, false
}

// Valid reports whether p is slow, medium, or fast.
func (p Progression) Valid() bool {
	_, _, ok := p.ratio()
	return ok
}

// BAB returns floor(levels x multiplier) for this progression. Unknown
// progressions and non-positive levels contribute 0.
func (p Progression) BAB(levels int) int {
	num, den, ok := p.ratio()
	if !ok || levels <= 0 {
		return 0
	}
	return levels * num / den
}

// DefenseBonuses is a flat per-class bonus to each defense track.
type DefenseBonuses struct {
	Reflex    int `json:"reflex" yaml:"reflex"`
	Fortitude int `json:"fortitude" yaml:"fortitude"`
	Will      int `json:"will" yaml:"will"`
}

// Class defines a base or prestige class.
//
// Precondition: ID, Name, and BABProgression must be set after loading.
type Class struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description"`
	Prestige       bool           `yaml:"prestige"`
	BABProgression Progression    `yaml:"bab_progression"`
	Defenses       DefenseBonuses `yaml:"defenses"`
	TrainedSkills  int            `yaml:"trained_skills"`
	ClassSkills    []string       `yaml:"class_skills"`
	StartingFeats  []string       `yaml:"starting_feats"`
	TalentTrees    []string       `yaml:"talent_trees"`
}

// Validate reports an error if the class is missing required fields.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !c.BABProgression.Valid() {
		errs = append(errs, fmt.Errorf("bab_progression %q must be slow, medium, or fast", c.BABProgression))
	}
	if c.TrainedSkills < 0 {
		errs = append(errs, errors.New("trained_skills must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// LoadClasses reads every class file in dir.
func LoadClasses(dir string) ([]*Class, error) {
	return loadDir[Class](dir, "class")
}
