package models

import (
	"hms/src/types"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	RoomID uint      `json:"room_id,omitempty"`
	Ref    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid()" json:"ref,omitempty"`

	// Occupant: either a registered user or inline guest details, never both.
	UserID       *uint   `json:"user_id,omitempty"`
	GuestName    *string `json:"guest_name,omitempty"`
	GuestEmail   *string `json:"guest_email,omitempty"`
	GuestPhone   *string `json:"guest_phone,omitempty"`
	GuestAddress *string `json:"guest_address,omitempty"`

	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`

	Status        types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	Nights        uint                `json:"nights,omitempty"`
	TotalPrice    float32             `json:"total_price,omitempty"`

	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	CheckedInBy  *uint      `json:"checked_in_by,omitempty"`
	CheckedOutBy *uint      `json:"checked_out_by,omitempty"`
	CanceledBy   *uint      `json:"canceled_by,omitempty"`

	Room *Room `gorm:"foreignKey:room_id" json:"room,omitempty"`
	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

// OccupantName resolves the display name regardless of occupant form.
func (b *Booking) OccupantName() string {
	if b.GuestName != nil {
		return *b.GuestName
	}
	if b.User != nil {
		return b.User.Name
	}
	return ""
}

func (b *Booking) IsGuest() bool {
	return b.UserID == nil
}
