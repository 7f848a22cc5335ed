package recurrence

import (
	"time"

	"github.com/phrazzld/goalpost/internal/domain"
)

// NextDueDate computes the due date that follows current under rule.
//
// The base date is today when current is nil or lies before today, and
// current's calendar date otherwise, so a next date is never computed in the
// past. Daily adds one day, Weekly seven days and Monthly one calendar month
// clamped to the end of the target month. For RecurrenceNone (or any
// unrecognized rule) current is returned unchanged.
func NextDueDate(current *time.Time, rule domain.Recurrence, now time.Time) *time.Time {
	if !rule.IsRecurring() {
		return current
	}

	today := Today(now)
	base := today
	if current != nil {
		if d := dateOf(*current, now.Location()); !d.Before(today) {
			base = d
		}
	}

	next := step(base, rule)
	return &next
}

// AdvanceFromToday returns the next due date counted from today rather than
// from the task's existing due date. Returns nil for non-recurring rules.
func AdvanceFromToday(rule domain.Recurrence, now time.Time) *time.Time {
	if !rule.IsRecurring() {
		return nil
	}
	next := step(Today(now), rule)
	return &next
}

// Today returns the calendar date of now at midnight in now's location.
func Today(now time.Time) time.Time {
	return dateOf(now, now.Location())
}

// AddMonthsClamped adds n calendar months to t. When the day of month does not
// exist in the target month it is clamped to the month's last day, so
// Jan 31 + 1 month is Feb 28 (Feb 29 in a leap year).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func step(base time.Time, rule domain.Recurrence) time.Time {
	switch rule {
	case domain.RecurrenceDaily:
		return base.AddDate(0, 0, 1)
	case domain.RecurrenceWeekly:
		return base.AddDate(0, 0, 7)
	case domain.RecurrenceMonthly:
		return AddMonthsClamped(base, 1)
	default:
		return base
	}
}

// dateOf keeps t's calendar date and places it at midnight in loc. Due dates
// are calendar dates, so the date is read as stored rather than converted.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// daysIn returns the number of days in month m of year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
