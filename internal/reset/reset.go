// Package reset computes when the current usage block ends. Blocks start at
// fixed UTC hours each day.
package reset

import (
	"slices"
	"time"
)

// DefaultAnchors are the UTC hours at which usage blocks reset.
var DefaultAnchors = []int{0, 4, 9, 14, 19}

// Info describes the next reset.
type Info struct {
	Next        time.Time // in the display location
	HoursLeft   int
	MinutesLeft int
}

// LocalTime formats the next reset as HH:MM.
func (i Info) LocalTime() string {
	return i.Next.Format("15:04")
}

// Calculate returns the first anchor strictly after now. Seconds are
// ignored, so at 10:30:59 UTC with a 14:00 anchor 3h30m remain. anchors must
// be valid hours; nil or empty falls back to DefaultAnchors.
func Calculate(now time.Time, anchors []int, loc *time.Location) Info {
	if len(anchors) == 0 {
		anchors = DefaultAnchors
	}
	if loc == nil {
		loc = time.Local
	}
	hours := slices.Clone(anchors)
	slices.Sort(hours)

	now = now.UTC().Truncate(time.Minute)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	next := day.AddDate(0, 0, 1).Add(time.Duration(hours[0]) * time.Hour)
	for _, h := range hours {
		if t := day.Add(time.Duration(h) * time.Hour); t.After(now) {
			next = t
			break
		}
	}

	left := next.Sub(now)
	return Info{
		Next:        next.In(loc),
		HoursLeft:   int(left / time.Hour),
		MinutesLeft: int(left%time.Hour) / int(time.Minute),
	}
}
