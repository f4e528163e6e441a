// Package derive computes every derived statistic of an Actor in one
// deterministic, side-effect-free pass.
//
// Resolution order is fixed: abilities, condition penalty, armor effects and
// multiclass aggregation, defenses, skills, resources. Each stage reads only
// raw actor state and the outputs of earlier stages.
package derive

import "github.com/cory-johannsen/swse/internal/game/character"

// AbilityScore is the derived total and modifier for one ability.
type AbilityScore struct {
	Total int `json:"total"`
	Mod   int `json:"mod"`
}

// AbilityTotal returns base + racial + misc + temp.
func AbilityTotal(b character.AbilityBlock) int {
	return b.Base + b.Racial + b.Misc + b.Temp
}

// AbilityMod returns floor((total-10)/2), rounding toward negative infinity.
//
// Postcondition: AbilityMod(9) == -1, AbilityMod(10) == 0, AbilityMod(21) == 5.
func AbilityMod(total int) int {
	return floorDiv(total-10, 2)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func resolveAbilities(a *character.Actor) map[character.Ability]AbilityScore {
	out := make(map[character.Ability]AbilityScore, len(character.Abilities))
	for _, ab := range character.Abilities {
		total := AbilityTotal(a.Ability(ab))
		out[ab] = AbilityScore{Total: total, Mod: AbilityMod(total)}
	}
	return out
}
