package domain

import (
	"fmt"
	"strings"
)

// Slot identifies one of the daily reminder firings.
type Slot string

// Reminder slots
const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
)

// Slots lists the slots in the order they are evaluated on each tick.
var Slots = []Slot{SlotMorning, SlotEvening}

// ParseSlot converts a slot name into a Slot.
func ParseSlot(s string) (Slot, error) {
	switch slot := Slot(strings.ToLower(strings.TrimSpace(s))); slot {
	case SlotMorning, SlotEvening:
		return slot, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
}

// IsMorning reports whether the slot is the morning reminder.
func (s Slot) IsMorning() bool {
	return s == SlotMorning
}
