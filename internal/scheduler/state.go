package scheduler

import (
	"sync"
	"time"

	"github.com/phrazzld/goalpost/internal/domain"
)

const dateLayout = "2006-01-02"

// ScheduleState remembers the calendar date on which each slot last fired.
// It lives in memory only, so a restarted process may fire a slot again on
// the same date.
type ScheduleState struct {
	mu        sync.Mutex
	lastFired map[domain.Slot]string
}

// NewScheduleState creates a state in which no slot has fired.
func NewScheduleState() *ScheduleState {
	return &ScheduleState{lastFired: make(map[domain.Slot]string)}
}

// FiredOn reports whether slot already fired on the calendar date of day.
func (s *ScheduleState) FiredOn(slot domain.Slot, day time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFired[slot] == day.Format(dateLayout)
}

// Record marks slot as fired on the calendar date of day.
func (s *ScheduleState) Record(slot domain.Slot, day time.Time) {
	s.mu.Lock()
	s.lastFired[slot] = day.Format(dateLayout)
	s.mu.Unlock()
}

// Snapshot returns the last-fired date of every slot that has fired.
func (s *ScheduleState) Snapshot() map[domain.Slot]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Slot]string, len(s.lastFired))
	for slot, date := range s.lastFired {
		out[slot] = date
	}
	return out
}
