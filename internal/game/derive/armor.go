package derive

import (
	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/inventory"
)

// ArmorSource identifies where the active armor comes from.
type ArmorSource string

const (
	ArmorNone    ArmorSource = "none"
	ArmorWorn    ArmorSource = "worn"
	ArmorBuiltIn ArmorSource = "builtIn"
)

// Talent and feat names consulted by armor and defense resolution.
const (
	TalentArmoredDefense         = "Armored Defense"
	TalentImprovedArmoredDefense = "Improved Armored Defense"
	TalentArmorMastery           = "Armor Mastery"
)

var proficiencyFeat = map[inventory.ArmorType]string{
	inventory.ArmorLight:  "Armor Proficiency (Light)",
	inventory.ArmorMedium: "Armor Proficiency (Medium)",
	inventory.ArmorHeavy:  "Armor Proficiency (Heavy)",
}

var nonProficientPenalty = map[inventory.ArmorType]int{
	inventory.ArmorLight:  -2,
	inventory.ArmorMedium: -5,
	inventory.ArmorHeavy:  -10,
}

var speedPenalty = map[inventory.ArmorType]int{
	inventory.ArmorMedium: 2,
	inventory.ArmorHeavy:  4,
}

// ArmorEffect is the resolved contribution of the actor's single active armor.
type ArmorEffect struct {
	Source            ArmorSource         `json:"source"`
	ItemID            string              `json:"itemId,omitempty"`
	ArmorType         inventory.ArmorType `json:"armorType,omitempty"`
	ArmorBonus        int                 `json:"armorBonus"`
	FortBonus         int                 `json:"fortBonus"`
	Proficient        bool                `json:"proficient"`
	HasMaxDex         bool                `json:"hasMaxDex"`
	MaxDexBonus       int                 `json:"maxDexBonus"`
	ArmorCheckPenalty int                 `json:"armorCheckPenalty"`
	// Speed is the actor's speed in squares after the armor penalty.
	Speed int `json:"speed"`
}

// ResolveArmor selects the active armor and computes its effects. Droids use
// whichever of built-in and worn armor has the higher armor bonus; organics
// only count worn armor.
func ResolveArmor(a *character.Actor) ArmorEffect {
	eff := ArmorEffect{Source: ArmorNone, Proficient: true, Speed: a.Speed}

	var stats *inventory.ArmorStats
	worn := a.WornArmor()
	if worn != nil {
		stats = worn.Armor
		eff.Source = ArmorWorn
		eff.ItemID = worn.ID
	}
	if a.IsDroid() && a.DroidArmor != nil {
		if stats == nil || a.DroidArmor.ArmorBonus >= stats.ArmorBonus {
			stats = a.DroidArmor
			eff.Source = ArmorBuiltIn
			eff.ItemID = ""
		}
	}
	if stats == nil {
		return eff
	}

	eff.ArmorType = stats.ArmorType
	eff.ArmorBonus = stats.ArmorBonus
	eff.FortBonus = stats.FortBonus
	eff.HasMaxDex = true
	eff.MaxDexBonus = stats.MaxDexBonus
	if a.HasTalent(TalentArmorMastery) {
		eff.MaxDexBonus++
	}

	eff.Proficient = eff.Source == ArmorBuiltIn || a.HasFeat(proficiencyFeat[stats.ArmorType])
	eff.ArmorCheckPenalty = stats.ArmorCheckPenalty
	if !eff.Proficient {
		eff.ArmorCheckPenalty += nonProficientPenalty[stats.ArmorType]
	}

	if p := speedPenalty[stats.ArmorType]; p > 0 && a.Speed >= 6 {
		eff.Speed = max(a.Speed-p, 1)
	}
	return eff
}
