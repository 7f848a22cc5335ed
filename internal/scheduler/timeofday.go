package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// MatchTolerance is how far from a slot's target time a tick may land and
// still fire the slot.
const MatchTolerance = time.Minute

const timeOfDayLayout = "15:04:05"

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Default slot times
var (
	DefaultMorning = TimeOfDay{Hour: 8}
	DefaultEvening = TimeOfDay{Hour: 20}
)

// ParseTimeOfDay parses an HH:MM:SS string. Empty or malformed input yields
// fallback without an error.
func ParseTimeOfDay(s string, fallback TimeOfDay) TimeOfDay {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return fallback
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// String formats t as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Matches reports whether the wall-clock time of now lies within tolerance of
// t, bounds included. The comparison is on seconds since midnight and does
// not wrap around midnight.
func (t TimeOfDay) Matches(now time.Time, tolerance time.Duration) bool {
	current := now.Hour()*3600 + now.Minute()*60 + now.Second()
	diff := current - t.Seconds()
	if diff < 0 {
		diff = -diff
	}
	return diff <= int(tolerance/time.Second)
}
