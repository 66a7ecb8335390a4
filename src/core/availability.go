package core

import (
	"hms/src/models"
	"hms/src/types"
	"time"

	"gorm.io/gorm"
)

// findConflicts runs the half-open overlap test against every non-canceled
// booking on the room: B conflicts with [ci, co) iff B.checkIn < co and
// B.checkOut > ci. Pending bookings block the slot too.
func findConflicts(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time) ([]models.Booking, error) {
	var conflicts []models.Booking
	err := tx.
		Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", types.BOOKING_CANCELED).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Order("check_in_date").
		Find(&conflicts).
		Error
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

// Checker answers availability questions with no side effects. It does not
// reserve the slot; CreateBooking re-runs the same test under a room lock.
type Checker struct {
	db *gorm.DB
}

func NewChecker(gdb *gorm.DB) *Checker {
	return &Checker{db: gdb}
}

func (c *Checker) FindConflicts(roomID uint, checkIn, checkOut time.Time) ([]models.Booking, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	return findConflicts(c.db, roomID, checkIn, checkOut)
}

func (c *Checker) IsAvailable(roomID uint, checkIn, checkOut time.Time) (bool, error) {
	conflicts, err := c.FindConflicts(roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
