// Package upgrade implements equipment upgrade rules: slot accounting,
// installation legality, feature stripping, size increases, installation
// times, and effective restriction.
package upgrade

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/inventory"
)

// SlotPolicy selects the default slot count for items without an explicit
// upgrade slot count.
type SlotPolicy string

const (
	// PolicyStandard gives powered armor PoweredArmorSlots and everything else 1.
	PolicyStandard SlotPolicy = "standard"
	// PolicyTyped gives armor 3, weapons 2, and equipment 1.
	PolicyTyped SlotPolicy = "typed"
)

var typedSlots = map[inventory.ItemType]int{
	inventory.TypeArmor:     3,
	inventory.TypeWeapon:    2,
	inventory.TypeEquipment: 1,
}

// DefaultPoweredArmorSlots is the standard-policy slot count for powered armor.
const DefaultPoweredArmorSlots = 2

var poweredName = regexp.MustCompile(`(?i)\bpowered\b`)

// Engine evaluates upgrade rules under one slot policy. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	policy       SlotPolicy
	poweredSlots int
}

// NewEngine returns an Engine for policy. Unknown policies fall back to
// PolicyStandard; poweredSlots < 1 falls back to DefaultPoweredArmorSlots.
func NewEngine(policy SlotPolicy, poweredSlots int) *Engine {
	if policy != PolicyTyped {
		policy = PolicyStandard
	}
	if poweredSlots < 1 {
		poweredSlots = DefaultPoweredArmorSlots
	}
	return &Engine{policy: policy, poweredSlots: poweredSlots}
}

// Policy returns the engine's slot policy.
func (e *Engine) Policy() SlotPolicy { return e.policy }

// IsPoweredArmor reports whether item is powered armor, either by its stat
// block flag or by name.
func (e *Engine) IsPoweredArmor(item *inventory.Item) bool {
	if item == nil || item.Type != inventory.TypeArmor {
		return false
	}
	return (item.Armor != nil && item.Armor.Powered) || poweredName.MatchString(item.Name)
}

// BaseSlots returns the item's explicit upgrade slot count when positive,
// otherwise the policy default.
func (e *Engine) BaseSlots(item *inventory.Item) int {
	if item.UpgradeSlots > 0 {
		return item.UpgradeSlots
	}
	if e.policy == PolicyTyped {
		return typedSlots[item.Type]
	}
	if e.IsPoweredArmor(item) {
		return e.poweredSlots
	}
	return 1
}

// TotalSlots is BaseSlots plus one slot per stripped feature and one for a
// size increase.
func (e *Engine) TotalSlots(item *inventory.Item) int {
	total := e.BaseSlots(item) + item.StrippedCount()
	if item.SizeIncreased {
		total++
	}
	return total
}

// AvailableSlots returns TotalSlots minus the slots used by installed upgrades.
func (e *Engine) AvailableSlots(item *inventory.Item) int {
	return e.TotalSlots(item) - item.UsedSlots()
}

// Result is the outcome of validating an upgrade installation.
type Result struct {
	Valid          bool   `json:"valid"`
	Reason         string `json:"reason,omitempty"`
	AvailableSlots int    `json:"availableSlots"`
	SlotsNeeded    int    `json:"slotsNeeded"`
	Cost           int    `json:"cost"`
}

// conflicts maps each strippable feature to the upgrade names it excludes.
var conflicts = map[inventory.Feature]*regexp.Regexp{
	inventory.FeatureDamage:            regexp.MustCompile(`(?i)damage`),
	inventory.FeatureRange:             regexp.MustCompile(`(?i)range`),
	inventory.FeatureStun:              regexp.MustCompile(`(?i)stun`),
	inventory.FeatureAutofire:          regexp.MustCompile(`(?i)auto-?fire|burst`),
	inventory.FeatureDesign:            regexp.MustCompile(`(?i)design|ergonomic`),
	inventory.FeatureDefensiveMaterial: regexp.MustCompile(`(?i)armorplast|plating|reinforced`),
	inventory.FeatureJointProtection:   regexp.MustCompile(`(?i)joint|mobility`),
}

// Validate checks whether up can be installed on item by actor. Checks run in
// order: type, duplicate, slots, credits, modification tokens, stripped
// feature conflicts. Failures are reported in the Result, never as errors.
//
// Precondition: item, up, and actor must be non-nil.
func (e *Engine) Validate(item *inventory.Item, up *inventory.UpgradeDef, actor *character.Actor) Result {
	res := Result{
		AvailableSlots: e.AvailableSlots(item),
		SlotsNeeded:    up.Slots,
		Cost:           up.Cost,
	}
	if up.UpgradeType != inventory.UpgradeTypeUniversal && inventory.ItemType(up.UpgradeType) != item.Type {
		res.Reason = fmt.Sprintf("%s upgrades cannot be installed on %s items.", capitalize(up.UpgradeType), item.Type)
		return res
	}
	if item.HasUpgrade(up.ID) {
		res.Reason = fmt.Sprintf("%s is already installed.", up.Name)
		return res
	}
	if res.SlotsNeeded > res.AvailableSlots {
		res.Reason = fmt.Sprintf("Not enough upgrade slots. Need %d, have %d available.", res.SlotsNeeded, res.AvailableSlots)
		return res
	}
	if actor.Credits < up.Cost {
		res.Reason = fmt.Sprintf("Insufficient credits. Need %d, have %d.", up.Cost, actor.Credits)
		return res
	}
	if actor.TracksTokens && actor.ModificationTokens < 1 {
		res.Reason = "No modification tokens remaining."
		return res
	}
	for _, f := range strippedInOrder(item) {
		if re := conflicts[f]; re != nil && re.MatchString(up.Name) {
			res.Reason = fmt.Sprintf("%s conflicts with the stripped %s feature.", up.Name, f)
			return res
		}
	}
	res.Valid = true
	return res
}

// strippedInOrder returns the item's stripped features in a fixed order so
// conflict messages are deterministic.
func strippedInOrder(item *inventory.Item) []inventory.Feature {
	var out []inventory.Feature
	for _, f := range allFeatures {
		if item.IsStripped(f) {
			out = append(out, f)
		}
	}
	return out
}

var allFeatures = []inventory.Feature{
	inventory.FeatureDamage,
	inventory.FeatureRange,
	inventory.FeatureDesign,
	inventory.FeatureStun,
	inventory.FeatureAutofire,
	inventory.FeatureDefensiveMaterial,
	inventory.FeatureJointProtection,
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Install is the state change produced by a valid installation.
type Install struct {
	Item     *inventory.Item            `json:"item"`
	Upgrade  inventory.InstalledUpgrade `json:"upgrade"`
	Credits  int                        `json:"credits"`
	Tokens   int                        `json:"tokens"`
	Consumed bool                       `json:"consumedToken"`
}

// PlanInstall validates the installation and, when valid, returns the new
// item and the actor's post-install credits and tokens. Neither item nor
// actor is modified.
func (e *Engine) PlanInstall(item *inventory.Item, up *inventory.UpgradeDef, actor *character.Actor) (Install, Result) {
	res := e.Validate(item, up, actor)
	if !res.Valid {
		return Install{}, res
	}
	installed := inventory.InstalledUpgrade{
		ID:          uuid.NewString(),
		UpgradeID:   up.ID,
		Name:        up.Name,
		SlotsUsed:   up.Slots,
		Cost:        up.Cost,
		Restriction: up.Restriction,
	}
	next := item.Clone()
	next.InstalledUpgrades = append(next.InstalledUpgrades, installed)

	plan := Install{
		Item:    next,
		Upgrade: installed,
		Credits: actor.Credits - up.Cost,
		Tokens:  actor.ModificationTokens,
	}
	if actor.TracksTokens {
		plan.Tokens--
		plan.Consumed = true
	}
	return plan, res
}

// PlanRemoval returns a copy of item without the installation installationID.
//
// Postcondition: ok is false and the returned item is nil when nothing matches.
func PlanRemoval(item *inventory.Item, installationID string) (*inventory.Item, inventory.InstalledUpgrade, bool) {
	for i, u := range item.InstalledUpgrades {
		if u.ID == installationID {
			next := item.Clone()
			next.InstalledUpgrades = append(next.InstalledUpgrades[:i:i], item.InstalledUpgrades[i+1:]...)
			return next, u, true
		}
	}
	return nil, inventory.InstalledUpgrade{}, false
}

// EffectiveRestriction is the most restrictive of the item's own restriction
// and the restrictions of its installed upgrades.
func EffectiveRestriction(item *inventory.Item) inventory.Restriction {
	eff := item.Restriction
	if eff == "" {
		eff = inventory.RestrictionCommon
	}
	for _, u := range item.InstalledUpgrades {
		eff = inventory.MoreRestrictive(eff, u.Restriction)
	}
	return eff
}
