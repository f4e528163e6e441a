package importer

import (
	"sort"

	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/traits"
)

// UnknownSkills returns the skill IDs referenced by s's rules that are not
// defined skills, sorted and without duplicates. Parsed skill names that slug
// to an unknown ID usually mean the trait text named a non-skill check.
func UnknownSkills(s *traits.Species) []string {
	known := derive.Skills()
	seen := map[string]bool{}
	for _, r := range s.Rules() {
		for _, id := range r.Skills {
			if _, ok := known[id]; !ok {
				seen[id] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
