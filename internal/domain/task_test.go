package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecurrence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Recurrence
		wantErr  bool
	}{
		{"", RecurrenceNone, false},
		{"none", RecurrenceNone, false},
		{"Daily", RecurrenceDaily, false},
		{" weekly ", RecurrenceWeekly, false},
		{"MONTHLY", RecurrenceMonthly, false},
		{"yearly", RecurrenceNone, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseRecurrence(tc.input)
			assert.Equal(t, tc.expected, got)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRecurrence))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecurrence_IsRecurring(t *testing.T) {
	t.Parallel()

	assert.False(t, RecurrenceNone.IsRecurring())
	assert.False(t, Recurrence("").IsRecurring())
	assert.True(t, RecurrenceDaily.IsRecurring())
	assert.True(t, RecurrenceWeekly.IsRecurring())
	assert.True(t, RecurrenceMonthly.IsRecurring())
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	valid := Task{ID: uuid.New(), OwnerID: uuid.New(), Title: "Run 5k"}
	require.NoError(t, valid.Validate())

	noID := valid
	noID.ID = uuid.Nil
	assert.ErrorIs(t, noID.Validate(), ErrValidation)
	assert.ErrorIs(t, noID.Validate(), ErrInvalidID)

	noOwner := valid
	noOwner.OwnerID = uuid.Nil
	assert.ErrorIs(t, noOwner.Validate(), ErrValidation)
	assert.ErrorIs(t, noOwner.Validate(), ErrInvalidID)

	negative := valid
	negative.CompletedCount = -1
	assert.ErrorIs(t, negative.Validate(), ErrValidation)
	assert.NotErrorIs(t, negative.Validate(), ErrInvalidID)
}

func TestGroupByOwner(t *testing.T) {
	t.Parallel()

	alice, bob := uuid.New(), uuid.New()
	tasks := []Task{
		{ID: uuid.New(), OwnerID: alice, Title: "a1"},
		{ID: uuid.New(), OwnerID: bob, Title: "b1"},
		{ID: uuid.New(), OwnerID: alice, Title: "a2"},
	}

	groups := GroupByOwner(tasks)
	require.Len(t, groups, 2)
	require.Len(t, groups[alice], 2)
	assert.Equal(t, "a1", groups[alice][0].Title)
	assert.Equal(t, "a2", groups[alice][1].Title)
	require.Len(t, groups[bob], 1)
	assert.Equal(t, "b1", groups[bob][0].Title)

	assert.Empty(t, GroupByOwner(nil))
}

func TestContact(t *testing.T) {
	t.Parallel()

	c := Contact{Email: "ada@example.com", Name: "Ada"}
	assert.True(t, c.Usable())
	assert.Equal(t, "Ada", c.DisplayName())

	c.Name = "  "
	assert.Equal(t, "ada", c.DisplayName())

	assert.False(t, Contact{Email: "   "}.Usable())
}

func TestParseSlot(t *testing.T) {
	t.Parallel()

	s, err := ParseSlot("Morning")
	require.NoError(t, err)
	assert.Equal(t, SlotMorning, s)
	assert.True(t, s.IsMorning())

	s, err = ParseSlot("evening")
	require.NoError(t, err)
	assert.False(t, s.IsMorning())

	_, err = ParseSlot("noon")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
