package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type BookingStatus string

const (
	BOOKING_PENDING     BookingStatus = "pending"
	BOOKING_CONFIRMED   BookingStatus = "confirmed"
	BOOKING_CHECKED_IN  BookingStatus = "checked-in"
	BOOKING_CHECKED_OUT BookingStatus = "checked-out"
	BOOKING_CANCELED    BookingStatus = "canceled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

type RoomStatus string

const (
	ROOM_AVAILABLE    RoomStatus = "available"
	ROOM_BOOKED       RoomStatus = "booked"
	ROOM_OCCUPIED     RoomStatus = "occupied"
	ROOM_MAINTENANCE  RoomStatus = "maintenance"
	ROOM_CLEANING     RoomStatus = "cleaning"
	ROOM_VACANT_CLEAN RoomStatus = "vacant-clean"
	ROOM_VACANT_DIRTY RoomStatus = "vacant-dirty"
)

// OverrideStatuses are the room statuses staff set directly. Everything else
// is derived from the booking set and must never be written by a handler.
var OverrideStatuses = []RoomStatus{ROOM_MAINTENANCE, ROOM_CLEANING}

type CleaningStatus string

const (
	CLEANING_CLEAN   CleaningStatus = "clean"
	CLEANING_DIRTY   CleaningStatus = "dirty"
	CLEANING_ONGOING CleaningStatus = "cleaning"
)

type Role string

const (
	ROLE_ADMIN Role = "admin"
	ROLE_STAFF Role = "staff"
	ROLE_USER  Role = "user"
)

func (r Role) IsStaff() bool {
	return r == ROLE_ADMIN || r == ROLE_STAFF
}

type TaskStatus string

const (
	TASK_OPEN        TaskStatus = "open"
	TASK_IN_PROGRESS TaskStatus = "in-progress"
	TASK_DONE        TaskStatus = "done"
)

type TaskKind string

const (
	TASK_CLEANING    TaskKind = "cleaning"
	TASK_MAINTENANCE TaskKind = "maintenance"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateBookingRequestBody struct {
	RoomID       uint   `json:"room" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required,bookabledate"`
	CheckOutDate string `json:"check_out_date" binding:"required,gtdate=CheckInDate"`
}

type GuestInfo struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address,omitempty"`
}

type CreateGuestBookingRequestBody struct {
	RoomID       uint      `json:"room" binding:"required"`
	CheckInDate  string    `json:"check_in_date" binding:"required,bookabledate"`
	CheckOutDate string    `json:"check_out_date" binding:"required,gtdate=CheckInDate"`
	Guest        GuestInfo `json:"guest" binding:"required"`
}

type UpdateRoomStatusRequestBody struct {
	Status string `json:"status" binding:"required,oneof=available maintenance cleaning vacant-clean"`
}

type CreateRoomRequestBody struct {
	Number      string  `json:"number" binding:"required"`
	Type        string  `json:"type,omitempty"`
	Floor       string  `json:"floor,omitempty"`
	Price       float32 `json:"price" binding:"required"`
	Description string  `json:"description,omitempty"`
}

type CreateTaskRequestBody struct {
	RoomID   uint   `json:"room" binding:"required"`
	Kind     string `json:"kind" binding:"required,oneof=cleaning maintenance"`
	Assignee *uint  `json:"assignee,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type CreateNotificationRequestBody struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type,omitempty"`
	UserID  *uint  `json:"user,omitempty"`
}

type AvailabilityQueryParams struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type BookingQueryFilters struct {
	Status string `form:"status,omitempty"`
	RoomID uint   `form:"room,omitempty"`
}
