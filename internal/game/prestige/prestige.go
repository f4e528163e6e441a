// Package prestige evaluates prestige class talent prerequisites against an
// actor's talents.
//
// Every prestige class carries exactly one requirement drawn from a fixed
// set of shapes: a talent count within one tree, a talent count across a
// union of trees, one talent from each of several trees, a specific named
// talent, or no talent gate at all.
package prestige

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/swse/internal/game/character"
)

// Class identifies a prestige class.
type Class int

const (
	AcePilot Class = iota
	Assassin
	BountyHunter
	Charlatan
	CorporateAgent
	CrimeLord
	DroidCommander
	EliteTrooper
	Enforcer
	ForceAdept
	ForceDisciple
	Gladiator
	Gunslinger
	ImperialKnight
	IndependentDroid
	Infiltrator
	JediKnight
	JediMaster
	MasterPrivateer
	Medic
	MilitaryEngineer
	Officer
	Outlaw
	Pathfinder
	Saboteur
	SithApprentice
	SithLord
	Vanguard
	numClasses
)

// Kind is the shape of a talent requirement.
type Kind int

const (
	// Unconditional classes have no talent gate.
	Unconditional Kind = iota
	// TreeCount needs Count talents from Trees[0].
	TreeCount
	// UnionCount needs Count talents drawn from any of Trees.
	UnionCount
	// Coverage needs at least one talent from every tree in Trees.
	Coverage
	// Named needs the talent called Talent.
	Named
)

// Requirement is the talent gate of one prestige class.
type Requirement struct {
	Kind   Kind
	Count  int
	Trees  []string
	Talent string
}

type entry struct {
	id   string
	name string
	req  Requirement
}

func none() Requirement { return Requirement{Kind: Unconditional} }

func inTree(n int, tree string) Requirement {
	return Requirement{Kind: TreeCount, Count: n, Trees: []string{tree}}
}

func fromAny(n int, trees ...string) Requirement {
	return Requirement{Kind: UnionCount, Count: n, Trees: trees}
}

func oneEach(trees ...string) Requirement {
	return Requirement{Kind: Coverage, Count: len(trees), Trees: trees}
}

func talent(name string) Requirement {
	return Requirement{Kind: Named, Count: 1, Talent: name}
}

// table is keyed by Class; the length assertion below fails to compile when a
// class is added without an entry.
var table = [...]entry{
	AcePilot:         {"ace_pilot", "Ace Pilot", none()},
	Assassin:         {"assassin", "Assassin", talent("Dastardly Strike")},
	BountyHunter:     {"bounty_hunter", "Bounty Hunter", fromAny(2, "Awareness")},
	Charlatan:        {"charlatan", "Charlatan", fromAny(1, "Disgrace", "Influence", "Lineage")},
	CorporateAgent:   {"corporate_agent", "Corporate Agent", fromAny(1, "Influence", "Leadership")},
	CrimeLord:        {"crime_lord", "Crime Lord", fromAny(1, "Fortune", "Lineage", "Misfortune")},
	DroidCommander:   {"droid_commander", "Droid Commander", fromAny(1, "Leadership", "Commando")},
	EliteTrooper:     {"elite_trooper", "Elite Trooper", oneEach("Armor Specialist", "Commando", "Mercenary", "Weapon Specialist")},
	Enforcer:         {"enforcer", "Enforcer", fromAny(1, "Survivor")},
	ForceAdept:       {"force_adept", "Force Adept", inTree(3, "Force")},
	ForceDisciple:    {"force_disciple", "Force Disciple", fromAny(2, "Dark Side Devotee", "Force Adept", "Force Item")},
	Gladiator:        {"gladiator", "Gladiator", none()},
	Gunslinger:       {"gunslinger", "Gunslinger", none()},
	ImperialKnight:   {"imperial_knight", "Imperial Knight", none()},
	IndependentDroid: {"independent_droid", "Independent Droid", none()},
	Infiltrator:      {"infiltrator", "Infiltrator", fromAny(2, "Camouflage", "Spy")},
	JediKnight:       {"jedi_knight", "Jedi Knight", none()},
	JediMaster:       {"jedi_master", "Jedi Master", none()},
	MasterPrivateer:  {"master_privateer", "Master Privateer", fromAny(2, "Misfortune", "Spacer")},
	Medic:            {"medic", "Medic", none()},
	MilitaryEngineer: {"military_engineer", "Military Engineer", none()},
	Officer:          {"officer", "Officer", oneEach("Leadership", "Commando", "Veteran")},
	Outlaw:           {"outlaw", "Outlaw", fromAny(1, "Disgrace", "Misfortune")},
	Pathfinder:       {"pathfinder", "Pathfinder", fromAny(1, "Awareness", "Camouflage", "Survivor")},
	Saboteur:         {"saboteur", "Saboteur", none()},
	SithApprentice:   {"sith_apprentice", "Sith Apprentice", none()},
	SithLord:         {"sith_lord", "Sith Lord", none()},
	Vanguard:         {"vanguard", "Vanguard", fromAny(2, "Camouflage", "Survivor")},
}

var _ = [1]struct{}{}[len(table)-int(numClasses)]

// Classes returns every prestige class in declaration order.
func Classes() []Class {
	out := make([]Class, numClasses)
	for i := range out {
		out[i] = Class(i)
	}
	return out
}

// Valid reports whether c is a known prestige class.
func (c Class) Valid() bool { return c >= 0 && c < numClasses }

// String returns the display name, e.g. "Force Adept".
func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return table[c].name
}

// ID returns the content identifier, e.g. "force_adept".
func (c Class) ID() string {
	if !c.Valid() {
		return ""
	}
	return table[c].id
}

// Requirement returns the class's talent gate.
//
// Precondition: c.Valid().
func (c Class) Requirement() Requirement {
	return table[c].req
}

// Parse resolves a display name or content ID, case-insensitively.
func Parse(s string) (Class, bool) {
	s = strings.TrimSpace(s)
	for i, e := range table {
		if strings.EqualFold(s, e.name) || strings.EqualFold(s, e.id) {
			return Class(i), true
		}
	}
	return 0, false
}

// TreeCounts tallies talents per tree. Talents without a tree are ignored.
func TreeCounts(talents []character.Talent) map[string]int {
	counts := make(map[string]int)
	for _, t := range talents {
		if t.Tree != "" {
			counts[t.Tree]++
		}
	}
	return counts
}

// HasForceAdeptTalents reports whether the talents include at least three
// from the Force tree.
func HasForceAdeptTalents(talents []character.Talent) bool {
	return MeetsTalentRequirements(talents, ForceAdept)
}

// MeetsTalentRequirements reports whether talents satisfy c's talent gate.
// Unknown classes are never met.
func MeetsTalentRequirements(talents []character.Talent, c Class) bool {
	return RequirementDetails(talents, c).Met
}

// EligibleClasses returns every prestige class whose talent gate is met, in
// declaration order.
//
// Postcondition: every unconditional class is present.
func EligibleClasses(talents []character.Talent) []Class {
	var out []Class
	for _, c := range Classes() {
		if MeetsTalentRequirements(talents, c) {
			out = append(out, c)
		}
	}
	return out
}
