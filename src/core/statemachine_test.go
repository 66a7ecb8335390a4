package core

import (
	"hms/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(types.BOOKING_PENDING, types.BOOKING_CONFIRMED))
	assert.True(t, CanTransition(types.BOOKING_PENDING, types.BOOKING_CANCELED))
	assert.True(t, CanTransition(types.BOOKING_CONFIRMED, types.BOOKING_CHECKED_IN))
	assert.True(t, CanTransition(types.BOOKING_CONFIRMED, types.BOOKING_CANCELED))
	assert.True(t, CanTransition(types.BOOKING_CHECKED_IN, types.BOOKING_CHECKED_OUT))

	assert.False(t, CanTransition(types.BOOKING_PENDING, types.BOOKING_CHECKED_IN))
	assert.False(t, CanTransition(types.BOOKING_CHECKED_IN, types.BOOKING_CANCELED))
	assert.False(t, CanTransition(types.BOOKING_CHECKED_OUT, types.BOOKING_CANCELED))
}

// Checked-out and canceled are terminal: nothing is reachable from them.
func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []types.BookingStatus{
		types.BOOKING_PENDING,
		types.BOOKING_CONFIRMED,
		types.BOOKING_CHECKED_IN,
		types.BOOKING_CHECKED_OUT,
		types.BOOKING_CANCELED,
	}
	for _, terminal := range []types.BookingStatus{types.BOOKING_CHECKED_OUT, types.BOOKING_CANCELED} {
		for _, to := range all {
			assert.False(t, CanTransition(terminal, to), "%s -> %s must be rejected", terminal, to)
		}
	}
}

func TestGuardTransitionMessage(t *testing.T) {
	err := guardTransition("check in", types.BOOKING_PENDING, types.BOOKING_CHECKED_IN)
	assert.Error(t, err)

	guard, ok := err.(*GuardError)
	assert.True(t, ok)
	assert.Equal(t, types.BOOKING_PENDING, guard.From)
	assert.Equal(t, []types.BookingStatus{types.BOOKING_CONFIRMED}, guard.Required)
	assert.Contains(t, guard.Error(), "confirmed")
}

// Cancel is reachable from two states; the guard must report them in a
// stable order regardless of map iteration.
func TestGuardTransitionRequiredIsDeterministic(t *testing.T) {
	want := []types.BookingStatus{types.BOOKING_CONFIRMED, types.BOOKING_PENDING}
	for i := 0; i < 20; i++ {
		err := guardTransition("cancel", types.BOOKING_CHECKED_OUT, types.BOOKING_CANCELED)
		guard, ok := err.(*GuardError)
		assert.True(t, ok)
		assert.Equal(t, want, guard.Required)
	}
}

func TestGuardTransitionAllows(t *testing.T) {
	assert.NoError(t, guardTransition("confirm", types.BOOKING_PENDING, types.BOOKING_CONFIRMED))
	assert.NoError(t, guardTransition("check out", types.BOOKING_CHECKED_IN, types.BOOKING_CHECKED_OUT))
}
