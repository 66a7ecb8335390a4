package core

import (
	"errors"
	"fmt"
	"hms/src/models"
	"hms/src/types"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrTaskNotFound     = errors.New("housekeeping task not found")
	ErrAlreadyCanceled  = errors.New("booking is already canceled")
	ErrNotOwner         = errors.New("actor is neither the booking owner nor staff")
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")
	ErrMissingOccupant  = errors.New("booking needs a registered user or guest details")
	ErrOccupantConflict = errors.New("booking cannot have both a user and guest details")
)

// ConflictError reports a create attempt that overlaps existing non-canceled
// bookings. It carries the conflicting bookings so the caller can show which
// dates are taken.
type ConflictError struct {
	RoomID    uint
	Conflicts []models.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is already booked for %d overlapping date range(s)", len(e.Conflicts))
}

// Ranges returns the conflicting [check-in, check-out) pairs for the
// response payload.
func (e *ConflictError) Ranges() []map[string]any {
	out := make([]map[string]any, 0, len(e.Conflicts))
	for _, b := range e.Conflicts {
		out = append(out, map[string]any{
			"booking_id":     b.ID,
			"check_in_date":  b.CheckInDate,
			"check_out_date": b.CheckOutDate,
		})
	}
	return out
}

// GuardError is a transition attempted from a state that does not permit it,
// or blocked by a business rule such as the cancellation cutoff.
type GuardError struct {
	Op       string
	From     types.BookingStatus
	Required []types.BookingStatus
	Reason   string
}

func (e *GuardError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if len(e.Required) > 0 {
		return fmt.Sprintf("cannot %s a booking in status %q; booking must be %s first", e.Op, e.From, e.Required[0])
	}
	return fmt.Sprintf("cannot %s a booking in status %q", e.Op, e.From)
}
