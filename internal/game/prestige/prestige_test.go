package prestige_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/prestige"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
)

func talents(pairs ...string) []character.Talent {
	var out []character.Talent
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, character.Talent{Tree: pairs[i], Name: pairs[i+1]})
	}
	return out
}

func TestTableIsComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range prestige.Classes() {
		require.NotEmpty(t, c.String(), "class %d has no table entry", int(c))
		require.NotEmpty(t, c.ID())
		assert.False(t, seen[c.ID()], "duplicate id %s", c.ID())
		seen[c.ID()] = true
		got, ok := prestige.Parse(c.ID())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
	assert.GreaterOrEqual(t, len(seen), 20)
}

func TestParse(t *testing.T) {
	c, ok := prestige.Parse("force adept")
	require.True(t, ok)
	assert.Equal(t, prestige.ForceAdept, c)

	c, ok = prestige.Parse("  Elite_Trooper ")
	require.True(t, ok)
	assert.Equal(t, prestige.EliteTrooper, c)

	_, ok = prestige.Parse("Moisture Farmer")
	assert.False(t, ok)
}

func TestForceAdept_ThreeForceTalents(t *testing.T) {
	two := talents("Force", "Force Perception", "Force", "Force Pilot", "Awareness", "Acute Senses")
	assert.False(t, prestige.HasForceAdeptTalents(two))

	three := append(two, character.Talent{Tree: "Force", Name: "Force Recovery"})
	assert.True(t, prestige.HasForceAdeptTalents(three))

	d := prestige.RequirementDetails(two, prestige.ForceAdept)
	assert.False(t, d.Met)
	assert.Equal(t, 3, d.TalentsNeeded)
	assert.Equal(t, 2, d.TalentsHave)
	assert.Equal(t, "Requires 3 talents from the Force tree (have 2).", d.Summary)
}

func TestUnionCount(t *testing.T) {
	assert.True(t, prestige.MeetsTalentRequirements(
		talents("Camouflage", "Hidden Movement", "Spy", "Hidden Eyes"), prestige.Infiltrator))
	assert.False(t, prestige.MeetsTalentRequirements(
		talents("Camouflage", "Hidden Movement", "Awareness", "Acute Senses"), prestige.Infiltrator))
	assert.True(t, prestige.MeetsTalentRequirements(
		talents("Awareness", "Acute Senses", "Awareness", "Keen Shot"), prestige.BountyHunter))

	d := prestige.RequirementDetails(talents("Spy", "a", "Spy", "b", "Spy", "c"), prestige.Infiltrator)
	assert.True(t, d.Met)
	assert.Equal(t, 2, d.TalentsHave, "progress is capped at the requirement")
	assert.Equal(t, "Requires 2 talents from the Camouflage or Spy trees (have 3).", d.Summary)
}

func TestCoverage_EliteTrooper(t *testing.T) {
	partial := talents("Armor Specialist", "Armored Defense", "Commando", "Cover Fire", "Commando", "Harm's Way")
	d := prestige.RequirementDetails(partial, prestige.EliteTrooper)
	assert.False(t, d.Met)
	assert.Equal(t, 4, d.TalentsNeeded)
	assert.Equal(t, 2, d.TalentsHave)
	assert.Equal(t, []string{"Mercenary", "Weapon Specialist"}, d.Missing)

	full := append(partial,
		character.Talent{Tree: "Mercenary", Name: "Combined Fire"},
		character.Talent{Tree: "Weapon Specialist", Name: "Weapon Specialization"})
	assert.True(t, prestige.MeetsTalentRequirements(full, prestige.EliteTrooper))
}

func TestCoverage_Officer(t *testing.T) {
	assert.False(t, prestige.MeetsTalentRequirements(
		talents("Leadership", "Born Leader", "Commando", "Battle Analysis"), prestige.Officer))
	assert.True(t, prestige.MeetsTalentRequirements(
		talents("Leadership", "Born Leader", "Commando", "Battle Analysis", "Veteran", "Battle Hardened"), prestige.Officer))
}

func TestNamed_Assassin(t *testing.T) {
	d := prestige.RequirementDetails(talents("Misfortune", "Sneak Attack"), prestige.Assassin)
	assert.False(t, d.Met)
	assert.Equal(t, []string{"Dastardly Strike"}, d.Missing)

	assert.True(t, prestige.MeetsTalentRequirements(talents("Misfortune", "Dastardly Strike"), prestige.Assassin))
}

func TestUnconditionalAlwaysEligible(t *testing.T) {
	eligible := prestige.EligibleClasses(nil)
	assert.Contains(t, eligible, prestige.AcePilot)
	assert.Contains(t, eligible, prestige.JediKnight)
	assert.NotContains(t, eligible, prestige.ForceAdept)
	assert.NotContains(t, eligible, prestige.Assassin)

	d := prestige.RequirementDetails(nil, prestige.AcePilot)
	assert.True(t, d.Met)
	assert.Zero(t, d.TalentsNeeded)
}

func TestInvalidClassNeverMet(t *testing.T) {
	bogus := prestige.Class(999)
	assert.False(t, bogus.Valid())
	assert.False(t, prestige.MeetsTalentRequirements(nil, bogus))
	assert.Equal(t, "Class(999)", bogus.String())
}

func TestResolveTreesFromContent(t *testing.T) {
	reg, err := ruleset.LoadRegistry("../../../content")
	require.NoError(t, err)

	raw := []character.Talent{
		{Name: "Force Perception"}, {Name: "Force Pilot"}, {Name: "Force Recovery"}, {Name: "Homebrew Talent"},
	}
	assert.False(t, prestige.HasForceAdeptTalents(raw))

	resolved := prestige.ResolveTrees(raw, reg.TreeOf)
	assert.True(t, prestige.HasForceAdeptTalents(resolved))
	assert.Empty(t, resolved[3].Tree)
	assert.Empty(t, raw[0].Tree, "input is not modified")
}

// Property-based tests

func TestProperty_AddingTalentsNeverRevokesEligibility(t *testing.T) {
	trees := []string{"Force", "Awareness", "Camouflage", "Spy", "Commando", "Leadership", "Veteran",
		"Armor Specialist", "Mercenary", "Weapon Specialist", "Misfortune", "Survivor"}
	talentGen := rapid.Custom(func(t *rapid.T) character.Talent {
		return character.Talent{
			Tree: rapid.SampledFrom(trees).Draw(t, "tree"),
			Name: rapid.SampledFrom([]string{"Dastardly Strike", "Sneak Attack", "Keen Shot", "Other"}).Draw(t, "name"),
		}
	})
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SliceOf(talentGen).Draw(t, "base")
		extra := talentGen.Draw(t, "extra")
		before := prestige.EligibleClasses(base)
		after := prestige.EligibleClasses(append(base[:len(base):len(base)], extra))
		for _, c := range before {
			found := false
			for _, a := range after {
				if a == c {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s eligibility revoked by adding %+v", c, extra)
			}
		}
	})
}
