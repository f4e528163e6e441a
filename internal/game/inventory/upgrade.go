package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UpgradeTypeUniversal marks an upgrade installable on any item type.
const UpgradeTypeUniversal = "universal"

// UpgradeDef defines an equipment upgrade loaded from YAML.
type UpgradeDef struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	// UpgradeType is "universal", "weapon", "armor", or "equipment".
	UpgradeType string      `json:"upgradeType" yaml:"upgrade_type"`
	Slots       int         `json:"upgradeSlots" yaml:"upgrade_slots"`
	Cost        int         `json:"cost" yaml:"cost"`
	Restriction Restriction `json:"restriction" yaml:"restriction"`
}

// Validate checks that the UpgradeDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (u *UpgradeDef) Validate() error {
	var errs []error
	if u.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if u.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if u.UpgradeType != UpgradeTypeUniversal && !validTypes[ItemType(u.UpgradeType)] {
		errs = append(errs, fmt.Errorf("upgrade_type must be one of universal, weapon, armor, equipment; got %q", u.UpgradeType))
	}
	if u.Slots < 0 {
		errs = append(errs, errors.New("upgrade_slots must be >= 0"))
	}
	if u.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	if !u.Restriction.Valid() {
		errs = append(errs, fmt.Errorf("restriction %q is not valid", u.Restriction))
	}
	if len(errs) > 0 {
		return fmt.Errorf("upgrade validation failed: %v", errs)
	}
	return nil
}

// LoadUpgrades reads all *.yaml files from dir, parses each as an UpgradeDef,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid UpgradeDefs or the first encountered error.
func LoadUpgrades(dir string) ([]*UpgradeDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadUpgrades: cannot read directory %q: %w", dir, err)
	}

	upgrades := []*UpgradeDef{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadUpgrades: cannot read file %q: %w", path, err)
		}
		var u UpgradeDef
		if err := yaml.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("LoadUpgrades: cannot parse file %q: %w", path, err)
		}
		if u.Restriction == "" {
			u.Restriction = RestrictionCommon
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("LoadUpgrades: invalid upgrade in %q: %w", path, err)
		}
		upgrades = append(upgrades, &u)
	}
	return upgrades, nil
}
