package derive

import (
	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
)

// Aggregation is the combined contribution of every class level-block.
type Aggregation struct {
	BAB        int                    `json:"bab"`
	ClassBonus ruleset.DefenseBonuses `json:"classBonus"`
	Levels     int                    `json:"levels"`
}

// Aggregate sums per-class BAB and takes the best flat defense bonus per
// track. Class defense bonuses never stack.
//
// Postcondition: zero classes yields the zero Aggregation.
func Aggregate(classes []character.ClassLevel) Aggregation {
	var agg Aggregation
	for _, c := range classes {
		if c.Level <= 0 {
			continue
		}
		agg.Levels += c.Level
		agg.BAB += c.BABProgression.BAB(c.Level)
		agg.ClassBonus.Reflex = max(agg.ClassBonus.Reflex, c.Defenses.Reflex)
		agg.ClassBonus.Fortitude = max(agg.ClassBonus.Fortitude, c.Defenses.Fortitude)
		agg.ClassBonus.Will = max(agg.ClassBonus.Will, c.Defenses.Will)
	}
	return agg
}

// characterLevel is the summed class levels, or Actor.Level for actors
// without class level-blocks.
func characterLevel(a *character.Actor, agg Aggregation) int {
	if len(a.Classes) > 0 {
		return agg.Levels
	}
	return max(a.Level, 0)
}
