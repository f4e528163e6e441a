package traits

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// matcher turns one matching trait description into rules.
type matcher struct {
	name  string
	re    *regexp.Regexp
	build func(m []string, text string) []Rule
}

const bonus = `([+-]\d+)\s+(?:(\w+)\s+)?bonus\s+(?:on|to)\s+`

// matchers is evaluated in order; the first match converts the trait.
var matchers = []matcher{
	{
		name: "skill bonus",
		re:   regexp.MustCompile(`(?i)` + bonus + `(?:all\s+)?([^.;+\-\d]+?)\s+checks?\b`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleSkillModifier, When: Always(), Value: atoi(m[1]), BonusType: lower(m[2]), Skills: skillIDs(m[3])}}
		},
	},
	{
		name: "defense bonus",
		re:   regexp.MustCompile(`(?i)` + bonus + `(?:(?:their|its|his|her)\s+)?((?:reflex|fortitude|will)(?:(?:,\s*|\s+)(?:and\s+|or\s+)?(?:reflex|fortitude|will))*)\s+defenses?`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleDefenseModifier, When: Always(), Value: atoi(m[1]), BonusType: lower(m[2]), Defenses: defenseIDs(m[3])}}
		},
	},
	{
		name: "damage bonus",
		re:   regexp.MustCompile(`(?i)` + bonus + `(melee\s+|ranged\s+|unarmed\s+)?damage`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleDamageModifier, When: Always(), Value: atoi(m[1]), BonusType: lower(m[2]), Mode: strings.TrimSpace(lower(m[3]))}}
		},
	},
	{
		name: "grapple bonus",
		re:   regexp.MustCompile(`(?i)` + bonus + `grapple`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleGrappleModifier, When: Always(), Value: atoi(m[1]), BonusType: lower(m[2])}}
		},
	},
	{
		name: "damage reduction",
		re:   regexp.MustCompile(`(?i)\b(?:damage reduction|DR)\s+(\d+)`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleDamageReduction, When: Always(), Value: atoi(m[1])}}
		},
	},
	{
		name: "fast healing",
		re:   regexp.MustCompile(`(?i)\bfast healing\s+(\d+)`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleFastHealing, When: Always(), Value: atoi(m[1])}}
		},
	},
	{
		name: "natural weapon",
		re:   regexp.MustCompile(`(?i)\b(claws?|bite|horns?|tusks?|natural weapons?)\b[^.]*?(\d+d\d+)`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleNaturalWeapon, When: Always(), Weapon: strings.TrimSuffix(lower(m[1]), "s"), Dice: lower(m[2])}}
		},
	},
	{
		name: "movement mode",
		re:   regexp.MustCompile(`(?i)\b(swim|climb|fly|flying|burrow|hover)\s+speed\s+(?:of\s+)?(\d+)`),
		build: func(m []string, _ string) []Rule {
			mode := lower(m[1])
			if mode == "flying" {
				mode = "fly"
			}
			return []Rule{{Type: RuleMovement, When: Always(), Mode: mode, Speed: atoi(m[2])}}
		},
	},
	{
		name: "breathing",
		re:   regexp.MustCompile(`(?i)\bbreathe\s+(?:in\s+)?(underwater|water|a\s+vacuum|vacuum)|\b(amphibious)\b`),
		build: func(m []string, _ string) []Rule {
			mode := "water"
			switch {
			case m[2] != "":
				mode = "amphibious"
			case strings.Contains(lower(m[1]), "vacuum"):
				mode = "vacuum"
			}
			return []Rule{{Type: RuleBreathing, When: Always(), Mode: mode}}
		},
	},
	{
		name: "immunity",
		re:   regexp.MustCompile(`(?i)\bimmune\s+to\s+([^.;]+)`),
		build: func(m []string, _ string) []Rule {
			var out []Rule
			for _, t := range splitList(m[1]) {
				out = append(out, Rule{Type: RuleImmunity, When: Always(), Target: lower(t)})
			}
			return out
		},
	},
	{
		name: "reroll",
		re:   regexp.MustCompile(`(?i)\breroll\s+(?:any\s+|one\s+)?([^.,;]+?)\s+checks?\b`),
		build: func(m []string, text string) []Rule {
			mode := "keepBetter"
			if keepReroll.MatchString(text) {
				mode = "keepReroll"
			}
			return []Rule{{Type: RuleReroll, When: Always(), Skills: skillIDs(m[1]), Mode: mode}}
		},
	},
	{
		name: "sense",
		re:   regexp.MustCompile(`(?i)\b(darkvision|low-light vision|scent|tremorsense|blindsense)\b|\bignores?\s+concealment\b[^.]*\bdarkness\b`),
		build: func(m []string, _ string) []Rule {
			target := lower(m[1])
			if target == "" {
				target = "low-light vision"
			}
			return []Rule{{Type: RuleSense, When: Always(), Target: target}}
		},
	},
	{
		name: "size category",
		re:   regexp.MustCompile(`(?i)\bas\s+(fine|diminutive|tiny|small|medium|large|huge|gargantuan|colossal)\s+creatures?`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleSize, When: Always(), Size: lower(m[1])}}
		},
	},
	{
		name: "natural armor",
		re:   regexp.MustCompile(`(?i)([+-]\d+)\s+natural\s+armor`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleNaturalArmor, When: Always(), Value: atoi(m[1]), BonusType: "natural armor", Defenses: []string{"reflex"}}}
		},
	},
	{
		name: "rage",
		re:   regexp.MustCompile(`(?i)\brage\b(?:[^.]*?([+-]\d+))?`),
		build: func(m []string, text string) []Rule {
			return []Rule{{Type: RuleRage, When: Always(), Value: atoi(m[1]), Text: text}}
		},
	},
	{
		name: "melee culture",
		re:   regexp.MustCompile(`(?i)` + bonus + `(melee\s+|ranged\s+)?attack\s+rolls?`),
		build: func(m []string, _ string) []Rule {
			return []Rule{{Type: RuleAttackModifier, When: Always(), Value: atoi(m[1]), BonusType: lower(m[2]), Mode: strings.TrimSpace(lower(m[3]))}}
		},
	},
	{
		name: "multi-limb",
		re:   regexp.MustCompile(`(?i)\b(two|three|four|five|six|multiple|extra|additional)\s+(?:arms|limbs|hands)\b`),
		build: func(m []string, text string) []Rule {
			return []Rule{{Type: RuleMultiLimb, When: Always(), Value: numberWords[lower(m[1])], Text: text}}
		},
	},
	{
		name: "restriction",
		re:   regexp.MustCompile(`(?i)\b(?:cannot|can't|may\s+not|unable\s+to)\s+([^.;]+)`),
		build: func(m []string, text string) []Rule {
			return []Rule{{Type: RuleRestriction, When: Always(), Target: strings.TrimSpace(m[1]), Text: text}}
		},
	},
	{
		name: "force grant",
		re:   regexp.MustCompile(`(?i)\b(Force\s+Sensitivity|Force\s+Training|Force\s+power|Use\s+the\s+Force)\b`),
		build: func(m []string, text string) []Rule {
			return []Rule{{Type: RuleForceGrant, When: Always(), Feat: titleCase(m[1]), Text: text}}
		},
	},
	{
		name: "feat grant",
		re:   regexp.MustCompile(`(?i)\bgains?\s+(?:the\s+)?([\w' ()-]+?)\s+as\s+a\s+bonus\s+feat|\b(?:one|a)\s+bonus\s+feat\b`),
		build: func(m []string, text string) []Rule {
			return []Rule{{Type: RuleFeatGrant, When: Always(), Value: 1, Feat: strings.TrimSpace(m[1]), Text: text}}
		},
	},
}

var (
	keepReroll  = regexp.MustCompile(`(?i)must\s+(?:keep|accept)\s+the\s+(?:result\s+of\s+the\s+)?(?:reroll|second)`)
	listSep     = regexp.MustCompile(`(?i)\s*,\s*(?:and\s+|or\s+)?|\s+and\s+|\s+or\s+`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
	numberWords = map[string]int{"two": 2, "three": 3, "four": 4, "five": 5, "six": 6}
)

// MatcherNames returns the matcher names in evaluation order.
func MatcherNames() []string {
	out := make([]string, len(matchers))
	for i, m := range matchers {
		out[i] = m.name
	}
	return out
}

// ParseRules converts one trait description into rules using the first
// matcher that fires. ok is false when no matcher applies; such a trait is a
// special ability that needs hand-authored rules.
//
// Postcondition: every returned rule shares one RuleType.
func ParseRules(text string) (rules []Rule, matched string, ok bool) {
	for _, m := range matchers {
		sub := m.re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		rules = m.build(sub, strings.TrimSpace(text))
		if len(rules) == 0 {
			continue
		}
		return rules, m.name, true
	}
	return nil, "", false
}

// Slug lowercases s and joins its alphanumeric runs with underscores:
// "Knowledge (Galactic Lore)" becomes "knowledge_galactic_lore".
func Slug(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(lower(s), "_"), "_")
}

func skillIDs(list string) []string {
	var out []string
	for _, s := range splitList(list) {
		if id := Slug(s); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func defenseIDs(list string) []string {
	var out []string
	for _, d := range splitList(list) {
		out = append(out, lower(d))
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range listSep.Split(strings.TrimSpace(s), -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(s, "+"))
	return n
}

// Casers are stateful, so each call builds its own.
func lower(s string) string {
	return cases.Lower(language.English).String(strings.TrimSpace(s))
}

func titleCase(s string) string {
	title := cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
	return strings.ReplaceAll(title, " The ", " the ")
}
