package derive

import (
	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/inventory"
)

// DefenseScore is the derived breakdown of one defense track.
type DefenseScore struct {
	// Source is the level-or-armor term for Reflex, the level term for
	// Fortitude and Will, and the armor-or-pilot term for vehicle Reflex.
	Source     int `json:"source"`
	Ability    int `json:"ability"`
	Armor      int `json:"armor"`
	ClassBonus int `json:"classBonus"`
	Size       int `json:"size,omitempty"`
	Misc       int `json:"misc"`
	Condition  int `json:"condition"`
	Total      int `json:"total"`
	// FlatFooted is the total without any positive Dexterity contribution.
	FlatFooted int `json:"flatFooted"`
}

var vehicleSizeModifier = map[inventory.Size]int{
	inventory.SizeLarge:      -1,
	inventory.SizeHuge:       -2,
	inventory.SizeGargantuan: -5,
	inventory.SizeColossal:   -10,
	inventory.SizeFrigate:    -10,
	inventory.SizeCruiser:    -10,
	inventory.SizeStation:    -10,
}

// VehicleSizeModifier returns the Reflex Defense size modifier for a vehicle.
// Sizes below large contribute 0.
func VehicleSizeModifier(s inventory.Size) int {
	return vehicleSizeModifier[s]
}

// reflexSource applies the armor-versus-level rule for characters.
func reflexSource(a *character.Actor, level int, armor ArmorEffect) int {
	if armor.Source == ArmorNone {
		return level
	}
	switch {
	case a.HasTalent(TalentImprovedArmoredDefense):
		return max(level+floorDiv(armor.ArmorBonus, 2), armor.ArmorBonus)
	case a.HasTalent(TalentArmoredDefense):
		return max(level, armor.ArmorBonus)
	default:
		return armor.ArmorBonus
	}
}

// reflexDex clamps the Dexterity modifier by the armor's max Dex bonus and
// drops positive Dexterity when a status denies it.
func reflexDex(dexMod int, armor ArmorEffect, deniesDex bool) int {
	if armor.HasMaxDex {
		dexMod = min(dexMod, armor.MaxDexBonus)
	}
	if deniesDex {
		dexMod = min(dexMod, 0)
	}
	return dexMod
}

func characterDefenses(st *stage) map[character.Defense]DefenseScore {
	a := st.actor
	cond := st.sheet.ConditionPenalty
	dex := reflexDex(st.mod(character.Dexterity), st.sheet.Armor, st.deniesDex)

	ref := DefenseScore{
		Source:     reflexSource(a, st.sheet.Level, st.sheet.Armor),
		Ability:    dex,
		ClassBonus: st.sheet.ClassBonus.Reflex,
		Misc:       st.defenseMisc(character.Reflex),
		Condition:  cond,
	}
	ref.Total = 10 + ref.Source + ref.Ability + ref.ClassBonus + ref.Misc + ref.Condition
	ref.FlatFooted = ref.Total - max(ref.Ability, 0)

	fortAbility := st.mod(character.Strength)
	if !a.IsDroid() {
		fortAbility = max(st.mod(character.Constitution), fortAbility)
	}
	fort := DefenseScore{
		Source:     st.sheet.Level,
		Ability:    fortAbility,
		Armor:      st.sheet.Armor.FortBonus,
		ClassBonus: st.sheet.ClassBonus.Fortitude,
		Misc:       st.defenseMisc(character.Fortitude),
		Condition:  cond,
	}
	fort.Total = 10 + fort.Source + fort.Ability + fort.Armor + fort.ClassBonus + fort.Misc + fort.Condition
	fort.FlatFooted = fort.Total

	will := DefenseScore{
		Source:     st.sheet.Level,
		Ability:    st.mod(character.Wisdom),
		ClassBonus: st.sheet.ClassBonus.Will,
		Misc:       st.defenseMisc(character.Will),
		Condition:  cond,
	}
	will.Total = 10 + will.Source + will.Ability + will.ClassBonus + will.Misc + will.Condition
	will.FlatFooted = will.Total

	return map[character.Defense]DefenseScore{
		character.Reflex:    ref,
		character.Fortitude: fort,
		character.Will:      will,
	}
}

// vehicleDefenses computes Reflex as 10 + size + max(armor, pilot heroic
// level) + Dex and Fortitude as 10 + Str. Vehicles have no Will Defense.
func vehicleDefenses(st *stage) map[character.Defense]DefenseScore {
	v := st.actor.Vehicle
	cond := st.sheet.ConditionPenalty

	ref := DefenseScore{
		Source:    max(v.ArmorBonus, v.PilotHeroicLevel),
		Ability:   st.mod(character.Dexterity),
		Size:      VehicleSizeModifier(st.actor.Size),
		Misc:      st.defenseMisc(character.Reflex),
		Condition: cond,
	}
	ref.FlatFooted = 10 + ref.Size + ref.Source + ref.Misc + ref.Condition
	ref.Total = ref.FlatFooted + ref.Ability

	fort := DefenseScore{
		Ability:   st.mod(character.Strength),
		Misc:      st.defenseMisc(character.Fortitude),
		Condition: cond,
	}
	fort.Total = 10 + fort.Ability + fort.Misc + fort.Condition
	fort.FlatFooted = fort.Total

	return map[character.Defense]DefenseScore{
		character.Reflex:    ref,
		character.Fortitude: fort,
	}
}
