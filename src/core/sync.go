package core

import (
	"errors"
	"hms/src/models"
	"hms/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

// Trigger names the booking transition or staff action that made a room's
// status suspect.
type Trigger string

const (
	TriggerCreate       Trigger = "create"
	TriggerConfirm      Trigger = "confirm"
	TriggerCheckIn      Trigger = "check-in"
	TriggerCheckOut     Trigger = "check-out"
	TriggerCancel       Trigger = "cancel"
	TriggerOverride     Trigger = "override"
	TriggerHousekeeping Trigger = "housekeeping"
	TriggerSweep        Trigger = "sweep"
)

// Synchronizer derives a room's operational status from the booking set.
// Room status is a cache: the authoritative truth is always the bookings,
// and every writer funnels through Reconcile instead of touching status
// directly. Staff overrides are the one exception and always win.
type Synchronizer struct {
	now func() time.Time
}

func NewSynchronizer(now func() time.Time) *Synchronizer {
	if now == nil {
		now = time.Now
	}
	return &Synchronizer{now: now}
}

// DeriveStatus computes the ground-truth status for a room given the
// bookings whose date range covers today.
func DeriveStatus(room *models.Room, active []models.Booking) types.RoomStatus {
	if room.HasOverride() {
		return room.Status
	}
	var hasCheckedIn, hasUpcoming bool
	for _, b := range active {
		switch b.Status {
		case types.BOOKING_CHECKED_IN:
			hasCheckedIn = true
		case types.BOOKING_CONFIRMED, types.BOOKING_PENDING:
			hasUpcoming = true
		}
	}
	if hasCheckedIn {
		return types.ROOM_OCCUPIED
	}
	if hasUpcoming {
		return types.ROOM_BOOKED
	}
	switch room.CleaningStatus {
	case types.CLEANING_DIRTY:
		return types.ROOM_VACANT_DIRTY
	case types.CLEANING_ONGOING:
		return types.ROOM_CLEANING
	}
	if room.Status == types.ROOM_VACANT_CLEAN {
		return types.ROOM_VACANT_CLEAN
	}
	return types.ROOM_AVAILABLE
}

// Reconcile recomputes and persists the room's status inside the caller's
// transaction. It returns the room and whether the status changed; the
// caller publishes room-status-changed only after the transaction commits.
func (s *Synchronizer) Reconcile(tx *gorm.DB, roomID uint, trigger Trigger) (*models.Room, bool, error) {
	var room models.Room
	if err := tx.Where("id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrRoomNotFound
		}
		return nil, false, err
	}

	today := DateOnly(s.now())
	var active []models.Booking
	err := tx.
		Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED, types.BOOKING_CHECKED_IN}).
		Where("check_in_date <= ? AND check_out_date > ?", today, today).
		Find(&active).
		Error
	if err != nil {
		return nil, false, err
	}

	derived := DeriveStatus(&room, active)
	if derived == room.Status {
		return &room, false, nil
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Update("status", derived).Error; err != nil {
		return nil, false, err
	}
	log.Printf("[sync] room %s: %s -> %s (%s)\n", room.Number, room.Status, derived, trigger)
	room.Status = derived
	return &room, true, nil
}

// DateOnly truncates an instant to its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
