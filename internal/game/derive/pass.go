package derive

import (
	"sort"
	"strings"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/condition"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
	"github.com/cory-johannsen/swse/internal/game/traits"
)

// SpeciesRuleSource returns the converted trait rules of a species.
type SpeciesRuleSource interface {
	RulesFor(speciesID string) []traits.Rule
}

// Rules carries the optional rules and collaborators of a derivation pass.
// The zero value is usable.
type Rules struct {
	// DailyForcePoints selects the per-day Force Point table.
	DailyForcePoints bool
	// Statuses resolves status IDs; nil uses condition.DefaultRegistry.
	Statuses *condition.Registry
	// Untrained may widen the droid untrained-skill allow-list.
	Untrained UntrainedOverrider
	// Species supplies species trait rules; nil disables species effects.
	Species SpeciesRuleSource
}

// SpeciesEffects lists the species rules that are surfaced rather than folded
// into a total.
type SpeciesEffects struct {
	Movement   map[string]int `json:"movement,omitempty"`
	Senses     []string       `json:"senses,omitempty"`
	Immunities []string       `json:"immunities,omitempty"`
}

// Sheet is the complete derived output of one pass. It is never written back
// onto the Actor.
type Sheet struct {
	Level            int                                `json:"level"`
	Abilities        map[character.Ability]AbilityScore `json:"abilities"`
	ConditionStep    int                                `json:"conditionStep"`
	ConditionPenalty int                                `json:"conditionPenalty"`
	Helpless         bool                               `json:"helpless"`
	Statuses         []string                           `json:"statuses,omitempty"`
	UnknownStatuses  []string                           `json:"unknownStatuses,omitempty"`
	Armor            ArmorEffect                        `json:"armor"`
	BAB              int                                `json:"bab"`
	ClassBonus       ruleset.DefenseBonuses             `json:"classBonus"`
	Defenses         map[character.Defense]DefenseScore `json:"defenses"`
	Skills           map[string]SkillScore              `json:"skills,omitempty"`
	Initiative       int                                `json:"initiative"`
	MeleeAttack      int                                `json:"meleeAttack"`
	RangedAttack     int                                `json:"rangedAttack"`
	Speed            int                                `json:"speed"`
	ForcePointsMax   int                                `json:"forcePointsMax"`
	ForceDie         string                             `json:"forceDie,omitempty"`
	SecondWind       int                                `json:"secondWindHealing"`
	DamageThreshold  int                                `json:"damageThreshold"`
	Species          SpeciesEffects                     `json:"species"`
}

// stage carries intermediate results between the ordered resolution steps.
type stage struct {
	actor     *character.Actor
	sheet     *Sheet
	deniesDex bool
	// speciesSkill and speciesDefense hold always-on species bonuses.
	speciesSkill   map[string]int
	speciesDefense map[character.Defense]int
}

func (st *stage) mod(ab character.Ability) int {
	return st.sheet.Abilities[ab].Mod
}

func (st *stage) defenseMisc(d character.Defense) int {
	return st.actor.Defenses[d].Misc + st.speciesDefense[d]
}

func (st *stage) skillMisc(id string) int {
	return st.speciesSkill[id]
}

// Pass derives every statistic of a. It reads a and never mutates it, so
// running Pass twice on unchanged input yields identical sheets.
//
// Precondition: a must be non-nil; vehicles must carry a Vehicle block.
func Pass(a *character.Actor, rules Rules) Sheet {
	sheet := Sheet{}
	st := &stage{actor: a, sheet: &sheet}

	// abilities
	sheet.Abilities = resolveAbilities(a)

	// condition penalty and statuses
	sheet.ConditionStep = a.ConditionTrack.Step()
	sheet.ConditionPenalty = a.ConditionTrack.Penalty()
	statusReg := rules.Statuses
	if statusReg == nil {
		statusReg = condition.DefaultRegistry()
	}
	active, unknown := condition.FromIDs(statusReg, a.Statuses)
	sheet.Statuses = active.IDs()
	sheet.UnknownStatuses = unknown
	sheet.Helpless = a.ConditionTrack.Helpless() || active.Has("helpless")
	st.deniesDex = active.DeniesDexToReflex() || sheet.Helpless

	// armor effects and multiclass aggregation
	agg := Aggregate(a.Classes)
	sheet.Level = characterLevel(a, agg)
	sheet.BAB = agg.BAB
	sheet.ClassBonus = agg.ClassBonus
	sheet.Armor = ResolveArmor(a)
	sheet.Speed = sheet.Armor.Speed

	applySpecies(st, rules.Species)

	// defenses
	if a.IsVehicle() {
		sheet.Defenses = vehicleDefenses(st)
	} else {
		sheet.Defenses = characterDefenses(st)
	}

	// skills
	if a.IsVehicle() {
		sheet.Initiative = st.mod(character.Dexterity) + sheet.ConditionPenalty
	} else {
		sheet.Skills = computeSkills(st, rules.Untrained)
		sheet.Initiative = sheet.Skills["initiative"].Total
	}

	// resources
	sheet.MeleeAttack = sheet.BAB + st.mod(character.Strength) + sheet.ConditionPenalty
	sheet.RangedAttack = sheet.BAB + st.mod(character.Dexterity) + sheet.ConditionPenalty
	sheet.DamageThreshold = sheet.Defenses[character.Fortitude].Total
	if a.IsVehicle() {
		sheet.DamageThreshold += VehicleThresholdModifier(a.Size)
	} else {
		sheet.ForcePointsMax = ForcePointsMax(sheet.Level, rules.DailyForcePoints)
		sheet.ForceDie = ForceDie(sheet.Level).String()
		sheet.SecondWind = SecondWindHealing(sheet.Level, st.mod(character.Constitution))
	}
	return sheet
}

// applySpecies folds always-on skill and defense modifiers into the misc
// terms and surfaces movement, sense, and immunity rules.
func applySpecies(st *stage, src SpeciesRuleSource) {
	st.speciesSkill = map[string]int{}
	st.speciesDefense = map[character.Defense]int{}
	if src == nil || st.actor.Species == "" {
		return
	}
	effects := &st.sheet.Species
	for _, r := range src.RulesFor(st.actor.Species) {
		if r.When.Type != traits.WhenAlways {
			continue
		}
		switch r.Type {
		case traits.RuleSkillModifier:
			for _, s := range r.Skills {
				st.speciesSkill[s] += r.Value
			}
		case traits.RuleDefenseModifier:
			for _, d := range r.Defenses {
				st.speciesDefense[character.Defense(strings.ToLower(d))] += r.Value
			}
		case traits.RuleMovement:
			if effects.Movement == nil {
				effects.Movement = map[string]int{}
			}
			effects.Movement[r.Mode] = max(effects.Movement[r.Mode], r.Speed)
		case traits.RuleSense:
			effects.Senses = append(effects.Senses, r.Target)
		case traits.RuleImmunity:
			effects.Immunities = append(effects.Immunities, r.Target)
		}
	}
	sort.Strings(effects.Senses)
	sort.Strings(effects.Immunities)
}
