package upgrade

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/swse/internal/game/dice"
	"github.com/cory-johannsen/swse/internal/game/inventory"
)

// Stripping and size-increase job constants.
const (
	StripDC    = 20
	StripHours = 8
)

// Sentinel reasons for damage stripping.
const (
	ReasonDamageFloor    = "Damage cannot be stripped further."
	ReasonDamageUnparsed = "Could not parse damage dice"
)

// damageLadder is the die-size ladder walked by damage stripping.
var damageLadder = []int{2, 3, 4, 6, 8, 10, 12}

var weaponStrips = map[inventory.Feature]bool{
	inventory.FeatureDamage:   true,
	inventory.FeatureRange:    true,
	inventory.FeatureDesign:   true,
	inventory.FeatureStun:     true,
	inventory.FeatureAutofire: true,
}

var armorStrips = map[inventory.Feature]bool{
	inventory.FeatureDefensiveMaterial: true,
	inventory.FeatureJointProtection:   true,
}

// Effects describes how a strip changes the item's stat block.
type Effects struct {
	Damage          string                  `json:"damage,omitempty"`
	Range           inventory.RangeCategory `json:"range,omitempty"`
	AddProperty     string                  `json:"addProperty,omitempty"`
	RemoveProperty  string                  `json:"removeProperty,omitempty"`
	ArmorBonusDelta int                     `json:"armorBonusDelta,omitempty"`
	MaxDexDelta     int                     `json:"maxDexDelta,omitempty"`
	Description     string                  `json:"description"`
}

// StripResult is the outcome of a strip request. Cost, DC, HoursRequired, and
// Effects are only meaningful when Valid.
type StripResult struct {
	Valid         bool              `json:"valid"`
	Reason        string            `json:"reason,omitempty"`
	Feature       inventory.Feature `json:"feature"`
	Cost          int               `json:"cost"`
	DC            int               `json:"dc"`
	HoursRequired int               `json:"hoursRequired"`
	Effects       Effects           `json:"effects"`
}

func rejectStrip(f inventory.Feature, format string, args ...any) StripResult {
	return StripResult{Feature: f, Reason: fmt.Sprintf(format, args...)}
}

func acceptStrip(item *inventory.Item, f inventory.Feature, eff Effects) StripResult {
	return StripResult{
		Valid:         true,
		Feature:       f,
		Cost:          halfCostRoundedUp(item.Cost),
		DC:            StripDC,
		HoursRequired: StripHours,
		Effects:       eff,
	}
}

// installedConflict names the first installed upgrade in the same area as f.
// A stripped feature and an upgrade to it never coexist on one item.
func installedConflict(item *inventory.Item, f inventory.Feature) (string, bool) {
	re := conflicts[f]
	if re == nil {
		return "", false
	}
	for _, u := range item.InstalledUpgrades {
		if re.MatchString(u.Name) {
			return u.Name, true
		}
	}
	return "", false
}

func halfCostRoundedUp(cost int) int {
	return (cost + 1) / 2
}

// StripWeapon evaluates stripping feature f from a weapon.
func StripWeapon(item *inventory.Item, f inventory.Feature) StripResult {
	if item == nil || item.Type != inventory.TypeWeapon || item.Weapon == nil {
		return rejectStrip(f, "Item is not a weapon.")
	}
	if !weaponStrips[f] {
		return rejectStrip(f, "Unknown weapon strip type %q.", f)
	}
	if item.IsStripped(f) {
		return rejectStrip(f, "The %s feature has already been stripped.", f)
	}
	if name, ok := installedConflict(item, f); ok {
		return rejectStrip(f, "Cannot strip %s while %s is installed.", f, name)
	}
	w := item.Weapon

	switch f {
	case inventory.FeatureDamage:
		expr, err := dice.Parse(w.Damage)
		if err != nil {
			return rejectStrip(f, ReasonDamageUnparsed)
		}
		i := slices.Index(damageLadder, expr.Sides)
		if i < 0 {
			return rejectStrip(f, ReasonDamageUnparsed)
		}
		if i == 0 {
			return rejectStrip(f, ReasonDamageFloor)
		}
		smaller := expr.WithSides(damageLadder[i-1]).String()
		return acceptStrip(item, f, Effects{Damage: smaller, Description: fmt.Sprintf("Damage reduced from %s to %s.", w.Damage, smaller)})

	case inventory.FeatureRange:
		if w.IsMelee() {
			return rejectStrip(f, "Cannot strip range from a melee weapon.")
		}
		i := slices.Index(inventory.RangeLadder, w.Range)
		if i <= 0 {
			return rejectStrip(f, "Range cannot be stripped further.")
		}
		shorter := inventory.RangeLadder[i-1]
		return acceptStrip(item, f, Effects{Range: shorter, Description: fmt.Sprintf("Range reduced from %s to %s.", w.Range, shorter)})

	case inventory.FeatureDesign:
		if w.HasProperty(inventory.PropertyExotic) {
			return rejectStrip(f, "Weapon is already an exotic weapon.")
		}
		return acceptStrip(item, f, Effects{AddProperty: inventory.PropertyExotic, Description: "Weapon becomes an exotic weapon."})

	case inventory.FeatureStun:
		if !w.HasProperty(inventory.PropertyStun) {
			return rejectStrip(f, "Weapon has no stun setting to strip.")
		}
		return acceptStrip(item, f, Effects{RemoveProperty: inventory.PropertyStun, Description: "Stun setting removed."})

	default: // autofire
		if !w.HasProperty(inventory.PropertyAutofire) {
			return rejectStrip(f, "Weapon has no autofire mode to strip.")
		}
		return acceptStrip(item, f, Effects{RemoveProperty: inventory.PropertyAutofire, Description: "Autofire mode removed."})
	}
}

// StripArmor evaluates stripping feature f from armor.
func StripArmor(item *inventory.Item, f inventory.Feature) StripResult {
	if item == nil || item.Type != inventory.TypeArmor || item.Armor == nil {
		return rejectStrip(f, "Item is not armor.")
	}
	if !armorStrips[f] {
		return rejectStrip(f, "Unknown armor strip type %q.", f)
	}
	if item.IsStripped(f) {
		return rejectStrip(f, "The %s feature has already been stripped.", f)
	}
	if name, ok := installedConflict(item, f); ok {
		return rejectStrip(f, "Cannot strip %s while %s is installed.", f, name)
	}
	a := item.Armor
	if f == inventory.FeatureDefensiveMaterial {
		if a.ArmorBonus <= 0 {
			return rejectStrip(f, "Armor has no armor bonus to strip.")
		}
		return acceptStrip(item, f, Effects{ArmorBonusDelta: -1, Description: "Armor bonus reduced by 1."})
	}
	if a.MaxDexBonus <= 0 {
		return rejectStrip(f, "Armor has no maximum Dexterity bonus to strip.")
	}
	return acceptStrip(item, f, Effects{MaxDexDelta: -1, Description: "Maximum Dexterity bonus reduced by 1."})
}

// Strip dispatches to StripWeapon or StripArmor by item type.
func Strip(item *inventory.Item, f inventory.Feature) StripResult {
	if item != nil && item.Type == inventory.TypeArmor {
		return StripArmor(item, f)
	}
	return StripWeapon(item, f)
}

// ApplyStrip returns a copy of item with the strip's effects applied and the
// feature marked as stripped.
//
// Precondition: res.Valid and res came from Strip on the same item.
func ApplyStrip(item *inventory.Item, res StripResult) *inventory.Item {
	if !res.Valid {
		panic("upgrade.ApplyStrip: precondition violated: result must be valid")
	}
	next := item.Clone()
	if next.StrippedFeatures == nil {
		next.StrippedFeatures = map[inventory.Feature]bool{}
	}
	next.StrippedFeatures[res.Feature] = true

	eff := res.Effects
	if w := next.Weapon; w != nil {
		if eff.Damage != "" {
			w.Damage = eff.Damage
		}
		if eff.Range != "" {
			w.Range = eff.Range
		}
		if eff.AddProperty != "" && !w.HasProperty(eff.AddProperty) {
			w.Properties = append(w.Properties, eff.AddProperty)
		}
		if eff.RemoveProperty != "" {
			w.Properties = slices.DeleteFunc(w.Properties, func(p string) bool { return p == eff.RemoveProperty })
		}
	}
	if a := next.Armor; a != nil {
		a.ArmorBonus += eff.ArmorBonusDelta
		a.MaxDexBonus += eff.MaxDexDelta
	}
	return next
}

// SizeResult is the outcome of a size-increase request.
type SizeResult struct {
	Valid         bool           `json:"valid"`
	Reason        string         `json:"reason,omitempty"`
	NewSize       inventory.Size `json:"newSize,omitempty"`
	Cost          int            `json:"cost"`
	DC            int            `json:"dc"`
	HoursRequired int            `json:"hoursRequired"`
}

// IncreaseSize evaluates making item one size category larger in exchange
// for one extra upgrade slot.
func IncreaseSize(item *inventory.Item) SizeResult {
	if item == nil {
		return SizeResult{Reason: "Item not found."}
	}
	if item.SizeIncreased {
		return SizeResult{Reason: "Item size has already been increased."}
	}
	size := item.Size
	if size == "" {
		size = inventory.SizeMedium
	}
	larger, ok := size.Larger()
	if !ok {
		return SizeResult{Reason: fmt.Sprintf("A %s item cannot be made any larger.", size)}
	}
	return SizeResult{
		Valid:         true,
		NewSize:       larger,
		Cost:          halfCostRoundedUp(item.Cost),
		DC:            StripDC,
		HoursRequired: StripHours,
	}
}

// ApplySizeIncrease returns a copy of item at its new size.
//
// Precondition: res.Valid.
func ApplySizeIncrease(item *inventory.Item, res SizeResult) *inventory.Item {
	if !res.Valid {
		panic("upgrade.ApplySizeIncrease: precondition violated: result must be valid")
	}
	next := item.Clone()
	next.Size = res.NewSize
	next.SizeIncreased = true
	return next
}
