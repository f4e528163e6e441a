// Package traits converts free-text species trait descriptions into typed
// rules and serves the resulting species records.
package traits

// RuleType tags the payload carried by a Rule.
type RuleType string

const (
	RuleSkillModifier   RuleType = "skillModifier"
	RuleDefenseModifier RuleType = "defenseModifier"
	RuleDamageModifier  RuleType = "damageModifier"
	RuleGrappleModifier RuleType = "grappleModifier"
	RuleDamageReduction RuleType = "damageReduction"
	RuleFastHealing     RuleType = "fastHealing"
	RuleNaturalWeapon   RuleType = "naturalWeapon"
	RuleMovement        RuleType = "movement"
	RuleBreathing       RuleType = "breathing"
	RuleImmunity        RuleType = "immunity"
	RuleReroll          RuleType = "reroll"
	RuleSense           RuleType = "sense"
	RuleSize            RuleType = "size"
	RuleNaturalArmor    RuleType = "naturalArmor"
	RuleRage            RuleType = "rage"
	RuleAttackModifier  RuleType = "attackModifier"
	RuleMultiLimb       RuleType = "multiLimb"
	RuleRestriction     RuleType = "restriction"
	RuleForceGrant      RuleType = "forceGrant"
	RuleFeatGrant       RuleType = "featGrant"
)

// WhenAlways is the only trigger currently produced; no dynamic trigger
// evaluation exists.
const WhenAlways = "always"

// When is the activation condition of a rule.
type When struct {
	Type string `json:"type"`
}

// Always returns the unconditional trigger.
func Always() When { return When{Type: WhenAlways} }

// Rule is one typed, machine-readable effect extracted from a trait. Only the
// fields relevant to Type are populated.
type Rule struct {
	Type RuleType `json:"type"`
	When When     `json:"when"`

	Value     int      `json:"value,omitempty"`
	BonusType string   `json:"bonusType,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Defenses  []string `json:"defenses,omitempty"`
	Dice      string   `json:"dice,omitempty"`
	Weapon    string   `json:"weapon,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Speed     int      `json:"speed,omitempty"`
	Target    string   `json:"target,omitempty"`
	Size      string   `json:"size,omitempty"`
	Feat      string   `json:"feat,omitempty"`
	Text      string   `json:"text,omitempty"`
}

// Trait is one named species trait with its converted rules.
type Trait struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rules       []Rule `json:"rules"`
}

// Species is the persisted species-trait record.
type Species struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	StructuralTraits  []Trait  `json:"structuralTraits"`
	ConditionalTraits []Trait  `json:"conditionalTraits"`
	BonusFeats        []string `json:"bonusFeats"`
}

// Rules returns every rule from every trait of s, structural traits first.
func (s *Species) Rules() []Rule {
	var out []Rule
	for _, t := range s.StructuralTraits {
		out = append(out, t.Rules...)
	}
	for _, t := range s.ConditionalTraits {
		out = append(out, t.Rules...)
	}
	return out
}
