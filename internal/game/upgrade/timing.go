package upgrade

import "fmt"

// Time is the skill check DC and duration of an installation or removal.
type Time struct {
	DC              int    `json:"dc"`
	MinutesRequired int    `json:"minutesRequired"`
	Label           string `json:"label"`
	Destructive     bool   `json:"destructive,omitempty"`
}

// AutomaticDC marks a removal that needs no check.
const AutomaticDC = -1

type timeKey struct {
	slots        int // 0, 1, or 2 for two or more
	scratchBuilt bool
}

var installTimes = map[timeKey]Time{
	{0, false}: {DC: 10, MinutesRequired: 10},
	{1, false}: {DC: 15, MinutesRequired: 60},
	{2, false}: {DC: 20, MinutesRequired: 240},
	{0, true}:  {DC: 15, MinutesRequired: 60},
	{1, true}:  {DC: 20, MinutesRequired: 480},
	{2, true}:  {DC: 25, MinutesRequired: 1440},
}

func keyFor(slots int, scratchBuilt bool) timeKey {
	return timeKey{slots: min(max(slots, 0), 2), scratchBuilt: scratchBuilt}
}

// InstallationTime returns the Mechanics DC and time to install an upgrade
// using slots upgrade slots.
func InstallationTime(slots int, scratchBuilt bool) Time {
	t := installTimes[keyFor(slots, scratchBuilt)]
	t.Label = durationLabel(t.MinutesRequired)
	return t
}

// RemovalTime returns the DC and time to remove an upgrade. Normal removal is
// 5 easier than installation; destructive removal is automatic, takes half
// the time, and destroys the upgrade.
func RemovalTime(slots int, scratchBuilt, destructive bool) Time {
	t := installTimes[keyFor(slots, scratchBuilt)]
	if destructive {
		t.DC = AutomaticDC
		t.MinutesRequired /= 2
		t.Destructive = true
	} else {
		t.DC -= 5
	}
	t.Label = durationLabel(t.MinutesRequired)
	return t
}

func durationLabel(minutes int) string {
	switch {
	case minutes >= 1440 && minutes%1440 == 0:
		return plural(minutes/1440, "day")
	case minutes >= 60 && minutes%60 == 0:
		return plural(minutes/60, "hour")
	default:
		return plural(minutes, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
