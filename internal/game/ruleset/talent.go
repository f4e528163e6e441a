package ruleset

import (
	"errors"
	"fmt"
)

// TalentDef is one talent within a talent tree.
type TalentDef struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Prerequisites []string `yaml:"prerequisites"`
}

// TalentTree groups talents; prestige class gates count talents per tree.
type TalentTree struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Talents []TalentDef `yaml:"talents"`
}

// Validate requires a tree name; prestige gates key on it.
func (t *TalentTree) Validate() error {
	if t.Name == "" {
		return errors.New("talent tree name must not be empty")
	}
	for i, td := range t.Talents {
		if td.Name == "" {
			return fmt.Errorf("talent tree %s: talent %d has no name", t.Name, i)
		}
	}
	return nil
}

// LoadTalentTrees reads every talent tree file in dir.
func LoadTalentTrees(dir string) ([]*TalentTree, error) {
	return loadDir[TalentTree](dir, "talent tree")
}
