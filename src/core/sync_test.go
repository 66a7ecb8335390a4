package core

import (
	"hms/src/models"
	"hms/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatusCheckedInWins(t *testing.T) {
	room := &models.Room{Status: types.ROOM_BOOKED, CleaningStatus: types.CLEANING_CLEAN}
	active := []models.Booking{
		{Status: types.BOOKING_CONFIRMED},
		{Status: types.BOOKING_CHECKED_IN},
	}
	assert.Equal(t, types.ROOM_OCCUPIED, DeriveStatus(room, active))
}

func TestDeriveStatusUpcomingBooking(t *testing.T) {
	room := &models.Room{Status: types.ROOM_AVAILABLE, CleaningStatus: types.CLEANING_CLEAN}
	active := []models.Booking{{Status: types.BOOKING_PENDING}}
	assert.Equal(t, types.ROOM_BOOKED, DeriveStatus(room, active))

	active = []models.Booking{{Status: types.BOOKING_CONFIRMED}}
	assert.Equal(t, types.ROOM_BOOKED, DeriveStatus(room, active))
}

func TestDeriveStatusEmptyRoom(t *testing.T) {
	room := &models.Room{Status: types.ROOM_OCCUPIED, CleaningStatus: types.CLEANING_CLEAN}
	assert.Equal(t, types.ROOM_AVAILABLE, DeriveStatus(room, nil))
}

func TestDeriveStatusHousekeepingStates(t *testing.T) {
	dirty := &models.Room{Status: types.ROOM_OCCUPIED, CleaningStatus: types.CLEANING_DIRTY}
	assert.Equal(t, types.ROOM_VACANT_DIRTY, DeriveStatus(dirty, nil))

	cleaning := &models.Room{Status: types.ROOM_VACANT_DIRTY, CleaningStatus: types.CLEANING_ONGOING}
	assert.Equal(t, types.ROOM_CLEANING, DeriveStatus(cleaning, nil))

	released := &models.Room{Status: types.ROOM_VACANT_CLEAN, CleaningStatus: types.CLEANING_CLEAN}
	assert.Equal(t, types.ROOM_VACANT_CLEAN, DeriveStatus(released, nil))
}

// A staff override is exempt from derivation until cleared.
func TestDeriveStatusOverrideWins(t *testing.T) {
	staff := uint(4)
	room := &models.Room{
		Status:         types.ROOM_MAINTENANCE,
		CleaningStatus: types.CLEANING_CLEAN,
		OverrideBy:     &staff,
	}
	active := []models.Booking{{Status: types.BOOKING_CHECKED_IN}}
	assert.Equal(t, types.ROOM_MAINTENANCE, DeriveStatus(room, active))
}

func TestDateOnly(t *testing.T) {
	at := time.Date(2026, 8, 31, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), DateOnly(at))
}
