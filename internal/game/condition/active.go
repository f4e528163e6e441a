package condition

import (
	"fmt"
	"sort"
)

// ActiveStatus tracks one applied status on an actor.
type ActiveStatus struct {
	Def               *StatusDef
	DurationRemaining int // -1 = permanent
}

// ActiveSet tracks all statuses currently applied to one actor.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	statuses map[string]*ActiveStatus
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{statuses: make(map[string]*ActiveStatus)}
}

// FromIDs builds an ActiveSet from status IDs stored on an actor. Unknown IDs
// are returned separately so the caller can report them.
func FromIDs(reg *Registry, ids []string) (*ActiveSet, []string) {
	s := NewActiveSet()
	var unknown []string
	for _, id := range ids {
		def, ok := reg.Get(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		_ = s.Apply(def, -1)
	}
	return s, unknown
}

// Apply adds a status or extends its duration to max(existing, duration).
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *StatusDef, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if existing, ok := s.statuses[def.ID]; ok {
		if existing.DurationRemaining >= 0 && (duration < 0 || duration > existing.DurationRemaining) {
			existing.DurationRemaining = duration
		}
		return nil
	}
	s.statuses[def.ID] = &ActiveStatus{Def: def, DurationRemaining: duration}
	return nil
}

// Remove deletes the status with the given ID. Removing an absent status is a no-op.
func (s *ActiveSet) Remove(id string) {
	delete(s.statuses, id)
}

// Tick decrements the duration of DurationRounds statuses and returns the IDs that expired.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, as := range s.statuses {
		if as.Def.DurationType != DurationRounds || as.DurationRemaining < 0 {
			continue
		}
		as.DurationRemaining--
		if as.DurationRemaining <= 0 {
			expired = append(expired, id)
			delete(s.statuses, id)
		}
	}
	return expired
}

// Has reports whether the status with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.statuses[id]
	return ok
}

// DeniesDexToReflex reports whether any active status strips positive Dexterity
// from Reflex Defense.
func (s *ActiveSet) DeniesDexToReflex() bool {
	for _, as := range s.statuses {
		if as.Def.DeniesDexToReflex {
			return true
		}
	}
	return false
}

// Len returns the number of active statuses.
func (s *ActiveSet) Len() int {
	return len(s.statuses)
}

// IDs returns the active status IDs in sorted order.
func (s *ActiveSet) IDs() []string {
	if len(s.statuses) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.statuses))
	for id := range s.statuses {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
