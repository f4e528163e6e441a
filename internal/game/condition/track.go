// Package condition models the condition track and named statuses that modify
// derived statistics.
package condition

// Condition track steps.
const (
	StepNormal   = 0
	StepHelpless = 5
)

// penalties is indexed by condition track step. The helpless step carries no
// numeric penalty; helplessness is reported as a separate flag.
var penalties = [StepHelpless + 1]int{0, -1, -2, -5, -10, 0}

// Penalty returns the condition track penalty for step. Steps outside 0-5 are
// clamped to the nearest end of the track.
//
// Postcondition: Returns one of 0, -1, -2, -5, -10.
func Penalty(step int) int {
	return penalties[clampStep(step)]
}

func clampStep(step int) int {
	if step < StepNormal {
		return StepNormal
	}
	if step > StepHelpless {
		return StepHelpless
	}
	return step
}

// Track is an actor's position on the condition track.
type Track struct {
	Current int `json:"current" yaml:"current"`
	// Persistent conditions cannot be recovered by resting or second wind.
	Persistent bool `json:"persistent" yaml:"persistent"`
}

// Step returns the current step clamped to 0-5.
func (t Track) Step() int {
	return clampStep(t.Current)
}

// Penalty returns the penalty for the current step.
func (t Track) Penalty() int {
	return Penalty(t.Current)
}

// Helpless reports whether the actor is at the bottom of the track.
func (t Track) Helpless() bool {
	return t.Step() == StepHelpless
}

// Shift moves the track by delta steps; positive values move down the track.
//
// Postcondition: result.Current is within 0-5.
func (t Track) Shift(delta int) Track {
	t.Current = clampStep(t.Step() + delta)
	return t
}

// Recover moves one step up the track.
//
// Postcondition: returns (t, false) unchanged when the condition is persistent
// or the actor is already at the top of the track.
func (t Track) Recover() (Track, bool) {
	if t.Persistent || t.Step() == StepNormal {
		return t, false
	}
	t.Current = t.Step() - 1
	return t, true
}
