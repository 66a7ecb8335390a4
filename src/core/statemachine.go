package core

import (
	"hms/src/types"
	"slices"
)

// transitions is the booking lifecycle: a linear happy path with canceled
// reachable only before check-in. Checked-out and canceled are terminal.
var transitions = map[types.BookingStatus][]types.BookingStatus{
	types.BOOKING_PENDING:     {types.BOOKING_CONFIRMED, types.BOOKING_CANCELED},
	types.BOOKING_CONFIRMED:   {types.BOOKING_CHECKED_IN, types.BOOKING_CANCELED},
	types.BOOKING_CHECKED_IN:  {types.BOOKING_CHECKED_OUT},
	types.BOOKING_CHECKED_OUT: {},
	types.BOOKING_CANCELED:    {},
}

func CanTransition(from, to types.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// requiredSources lists the statuses a booking must currently hold for the
// target status to be reachable. Used for guard-violation messages.
func requiredSources(to types.BookingStatus) []types.BookingStatus {
	var sources []types.BookingStatus
	for from, nexts := range transitions {
		for _, next := range nexts {
			if next == to {
				sources = append(sources, from)
			}
		}
	}
	slices.Sort(sources)
	return sources
}

func guardTransition(op string, from, to types.BookingStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return &GuardError{Op: op, From: from, Required: requiredSources(to)}
}
