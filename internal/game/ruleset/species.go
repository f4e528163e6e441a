package ruleset

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// TraitText is a species trait as written in the source books: a name and a
// free-text description that the trait parser converts into rules.
type TraitText struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Species defines a playable species for character creation.
//
// Precondition: ID and Name must be non-empty after loading.
type Species struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	Size             string         `yaml:"size"`
	Speed            int            `yaml:"speed"`
	Droid            bool           `yaml:"droid"`
	AbilityModifiers map[string]int `yaml:"ability_modifiers"`
	Traits           []TraitText    `yaml:"traits"`
}

// Validate reports an error if the species is missing required fields.
func (s *Species) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.Speed < 0 {
		errs = append(errs, errors.New("speed must be >= 0"))
	}
	for _, t := range s.Traits {
		if t.Name == "" {
			errs = append(errs, errors.New("trait name must not be empty"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("species %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

// LoadSpecies reads every species file in dir, ordered by species ID.
func LoadSpecies(dir string) ([]*Species, error) {
	out, err := loadDir[Species](dir, "species")
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b *Species) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}
