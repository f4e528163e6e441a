package derive

import (
	"github.com/cory-johannsen/swse/internal/game/dice"
	"github.com/cory-johannsen/swse/internal/game/inventory"
)

// ForcePointsMax returns the Force Point maximum for a character level. With
// the daily optional rule it is a step table; otherwise 5 + floor(level/2).
func ForcePointsMax(level int, daily bool) int {
	if !daily {
		return 5 + level/2
	}
	switch {
	case level >= 16:
		return 4
	case level >= 11:
		return 3
	case level >= 6:
		return 2
	default:
		return 1
	}
}

var forceDice = [...]dice.Expression{
	dice.MustParse("1d6"),
	dice.MustParse("2d6kh1"),
	dice.MustParse("3d6kh1"),
}

// ForceDie returns the Force Point die for a level: 1d6 below 8, 2d6 from 8
// to 14, 3d6 from 15, keeping the highest die.
func ForceDie(level int) dice.Expression {
	switch {
	case level >= 15:
		return forceDice[2]
	case level >= 8:
		return forceDice[1]
	default:
		return forceDice[0]
	}
}

// SecondWindHealing returns floor(level/4) + Constitution modifier.
func SecondWindHealing(level, conMod int) int {
	return level/4 + conMod
}

var vehicleThreshold = map[inventory.Size]int{
	inventory.SizeLarge:      5,
	inventory.SizeHuge:       10,
	inventory.SizeGargantuan: 20,
	inventory.SizeColossal:   50,
	inventory.SizeFrigate:    100,
	inventory.SizeCruiser:    200,
	inventory.SizeStation:    500,
}

// VehicleThresholdModifier returns the damage threshold size modifier for a
// vehicle. Sizes below large contribute 0.
func VehicleThresholdModifier(s inventory.Size) int {
	return vehicleThreshold[s]
}
