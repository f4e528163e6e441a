package derive

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/swse/internal/game/character"
)

// SkillDef describes a skill's default ability and usage restrictions.
type SkillDef struct {
	ID           string
	Label        string
	Ability      character.Ability
	ArmorCheck   bool
	TrainedOnly  bool
	DroidAllowed bool
}

// UntrainedOverrider decides whether an actor may use a skill untrained
// despite the droid allow-list.
type UntrainedOverrider interface {
	UntrainedOverride(kind character.Kind, skill string) bool
}

// SkillScore is the derived total of one skill.
type SkillScore struct {
	Label           string            `json:"label"`
	Ability         character.Ability `json:"ability"`
	Total           int               `json:"total"`
	Trained         bool              `json:"trained"`
	Focused         bool              `json:"focused"`
	ArmorCheck      bool              `json:"armorCheck"`
	UsableUntrained bool              `json:"usableUntrained"`
}

// Skill bonuses for training and Skill Focus.
const (
	TrainedBonus = 5
	FocusBonus   = 5
)

var skillTable = buildSkillTable([]SkillDef{
	{ID: "acrobatics", Ability: character.Dexterity, ArmorCheck: true, DroidAllowed: true},
	{ID: "climb", Ability: character.Strength, ArmorCheck: true, DroidAllowed: true},
	{ID: "deception", Ability: character.Charisma},
	{ID: "endurance", Ability: character.Constitution, ArmorCheck: true},
	{ID: "gather_information", Ability: character.Charisma},
	{ID: "initiative", Ability: character.Dexterity, ArmorCheck: true},
	{ID: "jump", Ability: character.Strength, ArmorCheck: true, DroidAllowed: true},
	{ID: "knowledge_bureaucracy", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "knowledge_galactic_lore", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "knowledge_life_sciences", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "knowledge_physical_sciences", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "knowledge_social_sciences", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "knowledge_tactics", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "knowledge_technology", Ability: character.Intelligence, TrainedOnly: true},
	{ID: "mechanics", Ability: character.Intelligence},
	{ID: "perception", Ability: character.Wisdom, DroidAllowed: true},
	{ID: "persuasion", Ability: character.Charisma},
	{ID: "pilot", Ability: character.Dexterity},
	{ID: "ride", Ability: character.Dexterity},
	{ID: "stealth", Ability: character.Dexterity, ArmorCheck: true},
	{ID: "survival", Ability: character.Wisdom},
	{ID: "swim", Ability: character.Strength, ArmorCheck: true},
	{ID: "treat_injury", Ability: character.Wisdom},
	{ID: "use_computer", Ability: character.Intelligence},
	{ID: "use_the_force", Ability: character.Charisma, TrainedOnly: true},
})

func buildSkillTable(defs []SkillDef) map[string]SkillDef {
	title := cases.Title(language.English)
	out := make(map[string]SkillDef, len(defs))
	for _, d := range defs {
		d.Label = skillLabel(title, d.ID)
		out[d.ID] = d
	}
	return out
}

func skillLabel(title cases.Caser, id string) string {
	if rest, ok := strings.CutPrefix(id, "knowledge_"); ok {
		return "Knowledge (" + title.String(strings.ReplaceAll(rest, "_", " ")) + ")"
	}
	label := title.String(strings.ReplaceAll(id, "_", " "))
	return strings.ReplaceAll(label, " The ", " the ")
}

// Skills returns every skill definition keyed by ID.
func Skills() map[string]SkillDef {
	out := make(map[string]SkillDef, len(skillTable))
	for k, v := range skillTable {
		out[k] = v
	}
	return out
}

// usableUntrained reports whether an untrained actor of kind may use def.
func usableUntrained(def SkillDef, kind character.Kind, hook UntrainedOverrider) bool {
	if def.TrainedOnly {
		return false
	}
	if kind != character.KindDroid || def.DroidAllowed {
		return true
	}
	return hook != nil && hook.UntrainedOverride(kind, def.ID)
}

func computeSkills(st *stage, hook UntrainedOverrider) map[string]SkillScore {
	halfLevel := st.sheet.Level / 2
	out := make(map[string]SkillScore, len(skillTable))
	for id, def := range skillTable {
		in := st.actor.Skills[id]
		ab := def.Ability
		if in.Ability.Valid() {
			ab = in.Ability
		}
		total := halfLevel + st.mod(ab) + in.Misc + st.skillMisc(id) + st.sheet.ConditionPenalty
		if in.Trained {
			total += TrainedBonus
		}
		if in.Focused {
			total += FocusBonus
		}
		if def.ArmorCheck {
			total += st.sheet.Armor.ArmorCheckPenalty
		}
		out[id] = SkillScore{
			Label:           def.Label,
			Ability:         ab,
			Total:           total,
			Trained:         in.Trained,
			Focused:         in.Focused,
			ArmorCheck:      def.ArmorCheck,
			UsableUntrained: in.Trained || usableUntrained(def, st.actor.Kind, hook),
		}
	}
	return out
}
