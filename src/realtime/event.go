package realtime

import (
	"hms/src/types"
	"time"
)

type EventKind string

const (
	EventBookingCreated    EventKind = "booking-created"
	EventBookingUpdated    EventKind = "booking-updated"
	EventBookingCanceled   EventKind = "booking-canceled"
	EventRoomStatusChanged EventKind = "room-status-changed"
	EventNotification      EventKind = "notification"
	EventStaffActivity     EventKind = "staff-activity"
	EventAdminActivity     EventKind = "admin-activity"
)

// Audience scopes a broadcast: any number of role channels, at most one user
// channel, or everyone connected. Zero value means nobody.
type Audience struct {
	Roles  []types.Role
	UserID *uint
	All    bool
}

func ToAll() Audience {
	return Audience{All: true}
}

func ToRoles(roles ...types.Role) Audience {
	return Audience{Roles: roles}
}

func ToUser(id uint) Audience {
	return Audience{UserID: &id}
}

// ToStaffAndUser targets the back-office channels plus one user's private
// channel, the shape booking-created and booking-canceled use.
func ToStaffAndUser(id *uint) Audience {
	return Audience{Roles: []types.Role{types.ROLE_ADMIN, types.ROLE_STAFF}, UserID: id}
}

// Event is an ephemeral UI-refresh signal. It is never persisted and never
// replayed; the persisted records stay the source of truth.
type Event struct {
	Kind      EventKind `json:"kind"`
	Audience  Audience  `json:"-"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(kind EventKind, audience Audience, payload any) Event {
	return Event{
		Kind:      kind,
		Audience:  audience,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
