package traits

import (
	"regexp"

	"github.com/cory-johannsen/swse/internal/game/ruleset"
)

// conditional marks trait text whose effect depends on circumstances. Such
// traits are filed under ConditionalTraits; their rules still carry the
// unconditional trigger until trigger evaluation exists.
var conditional = regexp.MustCompile(`(?i)\b(?:once\s+per|when|while|if|until)\b`)

// Unconverted is a trait no matcher understood.
type Unconverted struct {
	Trait       string `json:"trait"`
	Description string `json:"description"`
}

// Report summarizes the conversion of one species.
type Report struct {
	SpeciesID   string         `json:"speciesId"`
	Converted   map[string]int `json:"converted"` // matcher name -> trait count
	Unconverted []Unconverted  `json:"unconverted,omitempty"`
}

// Convert parses every free-text trait of s into a species record.
// Unmatched traits are kept with no rules and listed in the report as
// special abilities.
//
// Precondition: s must be non-nil with a non-empty ID.
func Convert(s *ruleset.Species) (*Species, Report) {
	if s == nil || s.ID == "" {
		panic("traits.Convert: precondition violated: species must be non-nil with an id")
	}
	out := &Species{
		ID:                s.ID,
		Name:              s.Name,
		StructuralTraits:  []Trait{},
		ConditionalTraits: []Trait{},
		BonusFeats:        []string{},
	}
	rep := Report{SpeciesID: s.ID, Converted: map[string]int{}}

	for _, t := range s.Traits {
		rules, matched, ok := ParseRules(t.Description)
		trait := Trait{ID: Slug(t.Name), Name: t.Name, Description: t.Description, Rules: rules}
		if trait.Rules == nil {
			trait.Rules = []Rule{}
		}
		if ok {
			rep.Converted[matched]++
		} else {
			rep.Unconverted = append(rep.Unconverted, Unconverted{Trait: t.Name, Description: t.Description})
		}
		for _, r := range rules {
			if r.Type == RuleFeatGrant && r.Feat != "" {
				out.BonusFeats = append(out.BonusFeats, r.Feat)
			}
		}
		if conditional.MatchString(t.Description) {
			out.ConditionalTraits = append(out.ConditionalTraits, trait)
		} else {
			out.StructuralTraits = append(out.StructuralTraits, trait)
		}
	}
	return out, rep
}
