package derive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/condition"
	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
	"github.com/cory-johannsen/swse/internal/game/traits"
)

func soldier(level int) character.ClassLevel {
	return character.ClassLevel{
		Name:           "Soldier",
		Level:          level,
		BABProgression: ruleset.ProgressionFast,
		Defenses:       ruleset.DefenseBonuses{Reflex: 1, Fortitude: 2},
	}
}

func newActor(classes ...character.ClassLevel) *character.Actor {
	return &character.Actor{
		ID:      "a1",
		Name:    "Trooper",
		Kind:    character.KindCharacter,
		Size:    inventory.SizeMedium,
		Speed:   6,
		Classes: classes,
	}
}

func withAbility(a *character.Actor, ab character.Ability, base int) *character.Actor {
	if a.Abilities == nil {
		a.Abilities = map[character.Ability]character.AbilityBlock{}
	}
	a.Abilities[ab] = character.AbilityBlock{Base: base}
	return a
}

func mediumArmor() *inventory.Item {
	return &inventory.Item{
		ID:       "armor1",
		Name:     "Ceremonial Armor",
		Type:     inventory.TypeArmor,
		Equipped: true,
		Armor: &inventory.ArmorStats{
			ArmorType:         inventory.ArmorMedium,
			ArmorBonus:        5,
			FortBonus:         2,
			MaxDexBonus:       2,
			ArmorCheckPenalty: -2,
		},
	}
}

func TestAbilityMod_Boundaries(t *testing.T) {
	cases := map[int]int{10: 0, 9: -1, 11: 0, 8: -1, 21: 5, 1: -5, 0: -5, 3: -4, 18: 4}
	for total, want := range cases {
		assert.Equal(t, want, derive.AbilityMod(total), "total %d", total)
	}
}

func TestProperty_AbilityModIsFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(-50, 100).Draw(t, "total")
		mod := derive.AbilityMod(total)
		if 2*mod > total-10 || total-10 >= 2*mod+2 {
			t.Fatalf("AbilityMod(%d) = %d is not floor((T-10)/2)", total, mod)
		}
	})
}

func TestAbilityTotal(t *testing.T) {
	assert.Equal(t, 17, derive.AbilityTotal(character.AbilityBlock{Base: 12, Racial: 2, Misc: 2, Temp: 1}))
}

func TestAggregate_DefenseMaxWins(t *testing.T) {
	agg := derive.Aggregate([]character.ClassLevel{
		{Name: "A", Level: 1, BABProgression: ruleset.ProgressionMedium, Defenses: ruleset.DefenseBonuses{Reflex: 1, Will: 2}},
		{Name: "B", Level: 1, BABProgression: ruleset.ProgressionMedium, Defenses: ruleset.DefenseBonuses{Reflex: 3, Fortitude: 1}},
	})
	assert.Equal(t, ruleset.DefenseBonuses{Reflex: 3, Fortitude: 1, Will: 2}, agg.ClassBonus)
}

func TestAggregate_BABAdditive(t *testing.T) {
	agg := derive.Aggregate([]character.ClassLevel{
		{Name: "A", Level: 4, BABProgression: ruleset.ProgressionSlow},
		{Name: "B", Level: 2, BABProgression: ruleset.ProgressionFast},
	})
	assert.Equal(t, 4, agg.BAB)
	assert.Equal(t, 6, agg.Levels)
}

func TestAggregate_NoClasses(t *testing.T) {
	assert.Equal(t, derive.Aggregation{}, derive.Aggregate(nil))
}

func TestPass_BaselineCharacter(t *testing.T) {
	a := newActor(soldier(2))
	s := derive.Pass(a, derive.Rules{})

	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 2, s.BAB)
	assert.Equal(t, 13, s.Defenses[character.Reflex].Total)
	assert.Equal(t, 14, s.Defenses[character.Fortitude].Total)
	assert.Equal(t, 12, s.Defenses[character.Will].Total)
	assert.Equal(t, 14, s.DamageThreshold)
	assert.Equal(t, 1, s.Skills["acrobatics"].Total)
	assert.Equal(t, s.Skills["initiative"].Total, s.Initiative)
	assert.Equal(t, 6, s.ForcePointsMax)
	assert.Equal(t, "1d6", s.ForceDie)
	assert.Equal(t, 6, s.Speed)
}

func TestPass_ConditionPenaltyAppliedUniformly(t *testing.T) {
	healthy := newActor(soldier(2))
	hurt := newActor(soldier(2))
	hurt.ConditionTrack = condition.Track{Current: 3}

	h := derive.Pass(healthy, derive.Rules{})
	s := derive.Pass(hurt, derive.Rules{})

	assert.Equal(t, -5, s.ConditionPenalty)
	for _, d := range []character.Defense{character.Reflex, character.Fortitude, character.Will} {
		assert.Equal(t, h.Defenses[d].Total-5, s.Defenses[d].Total, "defense %s", d)
	}
	for id, sk := range h.Skills {
		assert.Equal(t, sk.Total-5, s.Skills[id].Total, "skill %s", id)
	}
	assert.Equal(t, h.Initiative-5, s.Initiative)
}

func TestPass_HelplessStepCarriesNoPenalty(t *testing.T) {
	a := withAbility(newActor(soldier(1)), character.Dexterity, 16)
	a.ConditionTrack = condition.Track{Current: 5}
	s := derive.Pass(a, derive.Rules{})

	assert.Equal(t, 0, s.ConditionPenalty)
	assert.True(t, s.Helpless)
	assert.Equal(t, 0, s.Defenses[character.Reflex].Ability, "helpless actors lose Dex to Reflex")
}

func TestPass_MultiClassDefensesAndLevel(t *testing.T) {
	a := newActor(
		soldier(3),
		character.ClassLevel{Name: "Scout", Level: 2, BABProgression: ruleset.ProgressionMedium, Defenses: ruleset.DefenseBonuses{Reflex: 2, Fortitude: 1}},
	)
	a.Level = 99
	s := derive.Pass(a, derive.Rules{})

	assert.Equal(t, 5, s.Level, "class levels take precedence over Actor.Level")
	assert.Equal(t, 3+1, s.BAB)
	assert.Equal(t, 2, s.Defenses[character.Reflex].ClassBonus)
	assert.Equal(t, 2, s.Defenses[character.Fortitude].ClassBonus)
}

func TestResolveArmor_NonProficientMedium(t *testing.T) {
	a := withAbility(newActor(soldier(4)), character.Dexterity, 16)
	a.Feats = []string{"Armor Proficiency (Light)"}
	a.Gear = []*inventory.Item{mediumArmor()}

	eff := derive.ResolveArmor(a)
	assert.Equal(t, derive.ArmorWorn, eff.Source)
	assert.False(t, eff.Proficient)
	assert.Equal(t, -7, eff.ArmorCheckPenalty)
	assert.Equal(t, 4, eff.Speed)

	s := derive.Pass(a, derive.Rules{})
	assert.Equal(t, 18, s.Defenses[character.Reflex].Total)
	assert.Equal(t, 18, s.Defenses[character.Fortitude].Total)
	assert.Equal(t, -2, s.Skills["acrobatics"].Total)
	assert.Equal(t, 2+3, s.Skills["pilot"].Total, "pilot is not armor-check affected")
	assert.Equal(t, 4, s.Speed)
}

func TestResolveArmor_ProficientHasOnlyBasePenalty(t *testing.T) {
	a := newActor(soldier(1))
	a.Feats = []string{"Armor Proficiency (Medium)"}
	a.Gear = []*inventory.Item{mediumArmor()}
	eff := derive.ResolveArmor(a)
	assert.True(t, eff.Proficient)
	assert.Equal(t, -2, eff.ArmorCheckPenalty)
}

func TestResolveArmor_SpeedFloorAndSlowActors(t *testing.T) {
	a := newActor(soldier(1))
	a.Speed = 4
	a.Gear = []*inventory.Item{mediumArmor()}
	assert.Equal(t, 4, derive.ResolveArmor(a).Speed, "no penalty below speed 6")

	heavy := mediumArmor()
	heavy.Armor.ArmorType = inventory.ArmorHeavy
	b := newActor(soldier(1))
	b.Gear = []*inventory.Item{heavy}
	assert.Equal(t, 2, derive.ResolveArmor(b).Speed)
	assert.Equal(t, -12, derive.ResolveArmor(b).ArmorCheckPenalty)
}

func TestPass_ArmorTalents(t *testing.T) {
	base := func(talents ...string) derive.Sheet {
		a := withAbility(newActor(soldier(4)), character.Dexterity, 16)
		a.Gear = []*inventory.Item{mediumArmor()}
		for _, n := range talents {
			a.Talents = append(a.Talents, character.Talent{Name: n, Tree: "Armor Specialist"})
		}
		return derive.Pass(a, derive.Rules{})
	}
	assert.Equal(t, 18, base().Defenses[character.Reflex].Total)
	assert.Equal(t, 19, base(derive.TalentArmorMastery).Defenses[character.Reflex].Total)
	assert.Equal(t, 18, base(derive.TalentArmoredDefense).Defenses[character.Reflex].Total)
	assert.Equal(t, 19, base(derive.TalentArmoredDefense, derive.TalentImprovedArmoredDefense).Defenses[character.Reflex].Total)
}

func TestPass_ArmoredDefenseUsesLevelWhenHigher(t *testing.T) {
	a := newActor(soldier(8))
	a.Gear = []*inventory.Item{mediumArmor()}
	a.Talents = []character.Talent{{Name: derive.TalentArmoredDefense}}
	s := derive.Pass(a, derive.Rules{})
	assert.Equal(t, 8, s.Defenses[character.Reflex].Source)
}

func TestResolveArmor_DroidPicksHigherBonus(t *testing.T) {
	worn := &inventory.Item{
		ID: "vest", Type: inventory.TypeArmor, Equipped: true,
		Armor: &inventory.ArmorStats{ArmorType: inventory.ArmorLight, ArmorBonus: 2, MaxDexBonus: 5},
	}
	droid := newActor(soldier(1))
	droid.Kind = character.KindDroid
	droid.DroidArmor = &inventory.ArmorStats{ArmorType: inventory.ArmorLight, ArmorBonus: 3, MaxDexBonus: 4}
	droid.Gear = []*inventory.Item{worn}

	eff := derive.ResolveArmor(droid)
	assert.Equal(t, derive.ArmorBuiltIn, eff.Source)
	assert.Equal(t, 3, eff.ArmorBonus)
	assert.True(t, eff.Proficient)

	worn.Armor.ArmorBonus = 5
	eff = derive.ResolveArmor(droid)
	assert.Equal(t, derive.ArmorWorn, eff.Source)
	assert.Equal(t, "vest", eff.ItemID)
	assert.Equal(t, -2, eff.ArmorCheckPenalty)

	organic := newActor(soldier(1))
	organic.DroidArmor = &inventory.ArmorStats{ArmorBonus: 9}
	assert.Equal(t, derive.ArmorNone, derive.ResolveArmor(organic).Source, "organics ignore built-in armor")
}

func TestPass_DroidFortitudeUsesStrength(t *testing.T) {
	a := withAbility(withAbility(newActor(soldier(1)), character.Constitution, 18), character.Strength, 12)
	organic := derive.Pass(a, derive.Rules{})
	assert.Equal(t, 4, organic.Defenses[character.Fortitude].Ability)

	a.Kind = character.KindDroid
	droid := derive.Pass(a, derive.Rules{})
	assert.Equal(t, 1, droid.Defenses[character.Fortitude].Ability)
}

func TestPass_FlatFootedStatusDeniesPositiveDex(t *testing.T) {
	a := withAbility(newActor(), character.Dexterity, 16)
	a.Level = 1
	assert.Equal(t, 14, derive.Pass(a, derive.Rules{}).Defenses[character.Reflex].Total)

	a.Statuses = []string{"flat_footed", "mystery"}
	s := derive.Pass(a, derive.Rules{})
	assert.Equal(t, 11, s.Defenses[character.Reflex].Total)
	assert.Equal(t, []string{"flat_footed"}, s.Statuses)
	assert.Equal(t, []string{"mystery"}, s.UnknownStatuses)

	clumsy := withAbility(newActor(), character.Dexterity, 8)
	clumsy.Level = 1
	clumsy.Statuses = []string{"flat_footed"}
	assert.Equal(t, 10, derive.Pass(clumsy, derive.Rules{}).Defenses[character.Reflex].Total)
}

type overrideAll struct{ skills map[string]bool }

func (o overrideAll) UntrainedOverride(_ character.Kind, skill string) bool {
	return o.skills[skill]
}

func TestPass_UntrainedUsability(t *testing.T) {
	a := newActor(soldier(1))
	a.Skills = map[string]character.SkillInput{"knowledge_tactics": {Trained: true}}
	s := derive.Pass(a, derive.Rules{})
	assert.True(t, s.Skills["stealth"].UsableUntrained)
	assert.False(t, s.Skills["use_the_force"].UsableUntrained)
	assert.False(t, s.Skills["knowledge_galactic_lore"].UsableUntrained)
	assert.True(t, s.Skills["knowledge_tactics"].UsableUntrained, "trained skills are always usable")

	a.Kind = character.KindDroid
	d := derive.Pass(a, derive.Rules{})
	for _, id := range []string{"acrobatics", "climb", "jump", "perception"} {
		assert.True(t, d.Skills[id].UsableUntrained, id)
	}
	assert.False(t, d.Skills["stealth"].UsableUntrained)

	hooked := derive.Pass(a, derive.Rules{Untrained: overrideAll{skills: map[string]bool{"stealth": true, "use_the_force": true}}})
	assert.True(t, hooked.Skills["stealth"].UsableUntrained)
	assert.False(t, hooked.Skills["use_the_force"].UsableUntrained, "trained-only skills ignore the override")
}

func TestPass_SkillTotals(t *testing.T) {
	a := withAbility(newActor(soldier(5)), character.Wisdom, 14)
	withAbility(a, character.Intelligence, 18)
	a.Skills = map[string]character.SkillInput{
		"perception": {Trained: true, Focused: true, Misc: 1},
		"mechanics":  {Ability: character.Wisdom},
	}
	s := derive.Pass(a, derive.Rules{})
	assert.Equal(t, 2+2+5+5+1, s.Skills["perception"].Total)
	assert.Equal(t, 2+2, s.Skills["mechanics"].Total)
	assert.Equal(t, character.Wisdom, s.Skills["mechanics"].Ability)
	assert.Equal(t, "Knowledge (Galactic Lore)", s.Skills["knowledge_galactic_lore"].Label)
	assert.Equal(t, "Use the Force", s.Skills["use_the_force"].Label)
}

func TestPass_Vehicle(t *testing.T) {
	v := &character.Actor{
		Name: "Freighter",
		Kind: character.KindVehicle,
		Size: inventory.SizeColossal,
		Abilities: map[character.Ability]character.AbilityBlock{
			character.Dexterity: {Base: 10, Racial: -2},
			character.Strength:  {Base: 40},
		},
		Vehicle: &character.VehicleData{ArmorBonus: 12, PilotHeroicLevel: 15},
	}
	s := derive.Pass(v, derive.Rules{})
	ref := s.Defenses[character.Reflex]
	assert.Equal(t, 14, ref.Total)
	assert.Equal(t, 15, ref.FlatFooted)
	assert.Equal(t, 25, s.Defenses[character.Fortitude].Total)
	_, hasWill := s.Defenses[character.Will]
	assert.False(t, hasWill)
	assert.Equal(t, 75, s.DamageThreshold)
	assert.Empty(t, s.Skills)

	v.Vehicle.PilotHeroicLevel = 0
	assert.Equal(t, 11, derive.Pass(v, derive.Rules{}).Defenses[character.Reflex].Total, "armor applies without a pilot")
}

func TestVehicleTables(t *testing.T) {
	assert.Equal(t, -1, derive.VehicleSizeModifier(inventory.SizeLarge))
	assert.Equal(t, -10, derive.VehicleSizeModifier(inventory.SizeStation))
	assert.Equal(t, 0, derive.VehicleSizeModifier(inventory.SizeMedium))
	assert.Equal(t, 5, derive.VehicleThresholdModifier(inventory.SizeLarge))
	assert.Equal(t, 500, derive.VehicleThresholdModifier(inventory.SizeStation))
}

func TestForcePointsMax(t *testing.T) {
	assert.Equal(t, 8, derive.ForcePointsMax(7, false))
	daily := map[int]int{1: 1, 5: 1, 6: 2, 10: 2, 11: 3, 15: 3, 16: 4, 20: 4}
	for lvl, want := range daily {
		assert.Equal(t, want, derive.ForcePointsMax(lvl, true), "level %d", lvl)
	}
}

func TestForceDie(t *testing.T) {
	assert.Equal(t, "1d6", derive.ForceDie(7).String())
	assert.Equal(t, "2d6kh1", derive.ForceDie(8).String())
	assert.Equal(t, "2d6kh1", derive.ForceDie(14).String())
	assert.Equal(t, "3d6kh1", derive.ForceDie(15).String())
}

func TestSecondWindAndAttacks(t *testing.T) {
	a := withAbility(withAbility(newActor(soldier(4)), character.Constitution, 14), character.Strength, 14)
	s := derive.Pass(a, derive.Rules{DailyForcePoints: true})
	assert.Equal(t, 3, s.SecondWind)
	assert.Equal(t, 6, s.MeleeAttack)
	assert.Equal(t, 4, s.RangedAttack)
	assert.Equal(t, 1, s.ForcePointsMax)
	assert.Equal(t, -1, derive.SecondWindHealing(0, -1))
}

type speciesRules map[string][]traits.Rule

func (s speciesRules) RulesFor(id string) []traits.Rule { return s[id] }

func TestPass_ResidentSpeciesRegistry(t *testing.T) {
	reg, err := traits.LoadRegistry("../../../content/species_rules")
	require.NoError(t, err)
	a := newActor(soldier(2))
	a.Species = "wookiee"

	s := derive.Pass(a, derive.Rules{Species: reg})
	assert.Equal(t, derive.Pass(a, derive.Rules{Species: speciesRules{"wookiee": reg.RulesFor("wookiee")}}), s)
	assert.Equal(t, s, derive.Pass(a, derive.Rules{Species: reg}))
}

func TestPass_SpeciesEffects(t *testing.T) {
	src := speciesRules{"wookiee": {
		{Type: traits.RuleSkillModifier, When: traits.Always(), Skills: []string{"endurance"}, Value: 5},
		{Type: traits.RuleDefenseModifier, When: traits.Always(), Defenses: []string{"Reflex"}, Value: 1},
		{Type: traits.RuleMovement, When: traits.Always(), Mode: "swim", Speed: 4},
		{Type: traits.RuleSense, When: traits.Always(), Target: "scent"},
		{Type: traits.RuleImmunity, When: traits.Always(), Target: "poison"},
		{Type: traits.RuleSkillModifier, When: traits.When{Type: "raging"}, Skills: []string{"climb"}, Value: 2},
	}}
	a := newActor(soldier(2))
	a.Species = "wookiee"

	plain := derive.Pass(a, derive.Rules{})
	s := derive.Pass(a, derive.Rules{Species: src})

	assert.Equal(t, plain.Skills["endurance"].Total+5, s.Skills["endurance"].Total)
	assert.Equal(t, plain.Skills["climb"].Total, s.Skills["climb"].Total)
	assert.Equal(t, plain.Defenses[character.Reflex].Total+1, s.Defenses[character.Reflex].Total)
	assert.Equal(t, map[string]int{"swim": 4}, s.Species.Movement)
	assert.Equal(t, []string{"scent"}, s.Species.Senses)
	assert.Equal(t, []string{"poison"}, s.Species.Immunities)
}

func genActor(t *rapid.T) *character.Actor {
	kind := rapid.SampledFrom([]character.Kind{character.KindCharacter, character.KindDroid, character.KindVehicle}).Draw(t, "kind")
	a := &character.Actor{
		Name:      "gen",
		Kind:      kind,
		Level:     rapid.IntRange(0, 20).Draw(t, "level"),
		Size:      rapid.SampledFrom([]inventory.Size{inventory.SizeSmall, inventory.SizeMedium, inventory.SizeHuge, inventory.SizeColossal}).Draw(t, "size"),
		Speed:     rapid.IntRange(2, 12).Draw(t, "speed"),
		Abilities: map[character.Ability]character.AbilityBlock{},
		ConditionTrack: condition.Track{
			Current: rapid.IntRange(0, 5).Draw(t, "step"),
		},
		Statuses: rapid.SliceOfN(rapid.SampledFrom([]string{"flat_footed", "stunned", "helpless"}), 0, 2).Draw(t, "statuses"),
	}
	for _, ab := range character.Abilities {
		a.Abilities[ab] = character.AbilityBlock{
			Base:   rapid.IntRange(3, 20).Draw(t, string(ab)),
			Racial: rapid.IntRange(-4, 4).Draw(t, string(ab)+"_racial"),
		}
	}
	nClasses := rapid.IntRange(0, 3).Draw(t, "classes")
	for i := 0; i < nClasses; i++ {
		a.Classes = append(a.Classes, character.ClassLevel{
			Name:           rapid.SampledFrom([]string{"Jedi", "Noble", "Scout"}).Draw(t, "class"),
			Level:          rapid.IntRange(1, 10).Draw(t, "class_level"),
			BABProgression: rapid.SampledFrom([]ruleset.Progression{ruleset.ProgressionSlow, ruleset.ProgressionMedium, ruleset.ProgressionFast}).Draw(t, "bab"),
			Defenses: ruleset.DefenseBonuses{
				Reflex:    rapid.IntRange(0, 4).Draw(t, "ref"),
				Fortitude: rapid.IntRange(0, 4).Draw(t, "fort"),
				Will:      rapid.IntRange(0, 4).Draw(t, "will"),
			},
		})
	}
	if rapid.Bool().Draw(t, "armored") {
		arm := mediumArmor()
		arm.Armor.ArmorType = rapid.SampledFrom([]inventory.ArmorType{inventory.ArmorLight, inventory.ArmorMedium, inventory.ArmorHeavy}).Draw(t, "armor_type")
		a.Gear = append(a.Gear, arm)
	}
	if kind == character.KindVehicle {
		a.Vehicle = &character.VehicleData{
			ArmorBonus:       rapid.IntRange(0, 20).Draw(t, "vehicle_armor"),
			PilotHeroicLevel: rapid.IntRange(0, 20).Draw(t, "pilot"),
		}
	}
	return a
}

func TestProperty_PassIsIdempotentAndPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genActor(t)
		before := a.Clone()
		first := derive.Pass(a, derive.Rules{})
		second := derive.Pass(a, derive.Rules{})
		require.Equal(t, first, second)
		require.Equal(t, before, a, "Pass must not mutate the actor")
	})
}

func TestProperty_ClassBonusNeverSums(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genActor(t)
		agg := derive.Aggregate(a.Classes)
		best := 0
		for _, c := range a.Classes {
			best = max(best, c.Defenses.Reflex)
		}
		if agg.ClassBonus.Reflex != best {
			t.Fatalf("reflex class bonus %d, want max %d", agg.ClassBonus.Reflex, best)
		}
	})
}
