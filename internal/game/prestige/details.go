package prestige

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/swse/internal/game/character"
)

// Details is a progress breakdown of one class's talent gate.
type Details struct {
	Class         string   `json:"class"`
	Met           bool     `json:"met"`
	TalentsNeeded int      `json:"talentsNeeded"`
	TalentsHave   int      `json:"talentsHave"`
	Trees         []string `json:"trees,omitempty"`
	// Missing lists uncovered trees for coverage gates, or the named talent.
	Missing []string `json:"missing,omitempty"`
	Summary string   `json:"summary"`
}

// RequirementDetails evaluates c's talent gate and reports progress.
//
// Postcondition: TalentsHave never exceeds TalentsNeeded for count gates;
// Met is false for an invalid class.
func RequirementDetails(talents []character.Talent, c Class) Details {
	if !c.Valid() {
		return Details{Class: c.String(), Summary: "Unknown prestige class."}
	}
	req := c.Requirement()
	d := Details{Class: c.String(), Trees: req.Trees}
	counts := TreeCounts(talents)

	switch req.Kind {
	case Unconditional:
		d.Met = true
		d.Summary = "No talent requirement."

	case TreeCount, UnionCount:
		have := 0
		for _, tree := range req.Trees {
			have += counts[tree]
		}
		d.TalentsNeeded = req.Count
		d.TalentsHave = min(have, req.Count)
		d.Met = have >= req.Count
		d.Summary = fmt.Sprintf("Requires %d %s from the %s %s (have %d).",
			req.Count, plural(req.Count, "talent"), orList(req.Trees), plural(len(req.Trees), "tree"), have)

	case Coverage:
		d.TalentsNeeded = len(req.Trees)
		for _, tree := range req.Trees {
			if counts[tree] > 0 {
				d.TalentsHave++
			} else {
				d.Missing = append(d.Missing, tree)
			}
		}
		d.Met = len(d.Missing) == 0
		d.Summary = fmt.Sprintf("Requires one talent from each of the %s trees (have %d of %d).",
			andList(req.Trees), d.TalentsHave, d.TalentsNeeded)

	case Named:
		d.TalentsNeeded = 1
		for _, t := range talents {
			if t.Name == req.Talent {
				d.TalentsHave = 1
				break
			}
		}
		d.Met = d.TalentsHave == 1
		if !d.Met {
			d.Missing = []string{req.Talent}
		}
		d.Summary = fmt.Sprintf("Requires the %s talent.", req.Talent)
	}
	return d
}

// ResolveTrees returns a copy of talents with empty Tree fields filled in by
// treeOf. Talents treeOf does not know keep an empty tree.
func ResolveTrees(talents []character.Talent, treeOf func(name string) (string, bool)) []character.Talent {
	out := make([]character.Talent, len(talents))
	for i, t := range talents {
		if t.Tree == "" {
			if tree, ok := treeOf(t.Name); ok {
				t.Tree = tree
			}
		}
		out[i] = t
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func orList(items []string) string  { return joinList(items, "or") }
func andList(items []string) string { return joinList(items, "and") }

func joinList(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", " + conj + " " + items[len(items)-1]
}
