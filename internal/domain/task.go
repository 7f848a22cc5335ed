package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recurrence is the policy governing whether and how a task's due date
// advances after the task is completed.
type Recurrence string

// Valid recurrence values
const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ParseRecurrence converts a stored recurrence value into a Recurrence.
// Matching is case-insensitive and ignores surrounding whitespace. Empty input
// is RecurrenceNone; unrecognized input is RecurrenceNone together with
// ErrInvalidRecurrence so callers can decide whether to log it.
func ParseRecurrence(s string) (Recurrence, error) {
	switch r := Recurrence(strings.ToLower(strings.TrimSpace(s))); r {
	case "", RecurrenceNone:
		return RecurrenceNone, nil
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return r, nil
	default:
		return RecurrenceNone, fmt.Errorf("%w: %q", ErrInvalidRecurrence, s)
	}
}

// IsRecurring reports whether the rule advances the due date at all.
func (r Recurrence) IsRecurring() bool {
	return r == RecurrenceDaily || r == RecurrenceWeekly || r == RecurrenceMonthly
}

// Task is a user's goal item as stored by the hosted backend. The engine
// reads tasks and updates only Completed, DueDate and CompletedCount.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"user_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Completed      bool       `json:"is_completed"`
	Recurrence     Recurrence `json:"recurrence"`
	CompletedCount int        `json:"completed_count"`
}

// Validate checks the fields the engine relies on.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: %w: task ID cannot be empty", ErrValidation, ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: %w: task owner ID cannot be empty", ErrValidation, ErrInvalidID)
	}
	if t.CompletedCount < 0 {
		return fmt.Errorf("%w: completed count cannot be negative", ErrValidation)
	}
	return nil
}

// GroupByOwner partitions tasks by owner identifier. Order within each group
// follows the input order.
func GroupByOwner(tasks []Task) map[uuid.UUID][]Task {
	groups := make(map[uuid.UUID][]Task)
	for _, t := range tasks {
		groups[t.OwnerID] = append(groups[t.OwnerID], t)
	}
	return groups
}
