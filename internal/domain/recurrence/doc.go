// Package recurrence implements the due-date arithmetic for recurring tasks.
//
// All functions are pure: the notion of "today" is derived from the now
// argument (its calendar date in its own location), so results are
// deterministic for a given now.
package recurrence
