package importer

import (
	"fmt"

	"github.com/cory-johannsen/swse/internal/game/ruleset"
)

// Source loads raw species definitions whose traits are still free text.
//
// Precondition: sourceDir must exist and contain the expected layout for the format.
// Postcondition: returns at least one species, or a non-nil error.
type Source interface {
	Load(sourceDir string) ([]*ruleset.Species, error)
}

// YAMLSource reads the species YAML files used by the content tree.
type YAMLSource struct{}

// NewYAMLSource returns a YAMLSource.
func NewYAMLSource() *YAMLSource { return &YAMLSource{} }

// Load implements Source.
func (YAMLSource) Load(sourceDir string) ([]*ruleset.Species, error) {
	species, err := ruleset.LoadSpecies(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("no species found in %s", sourceDir)
	}
	return species, nil
}
