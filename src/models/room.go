package models

import "hms/src/types"

type Room struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Number      string  `gorm:"uniqueIndex;type:varchar(50)" json:"number"`
	Type        string  `json:"type,omitempty"`
	Floor       string  `gorm:"type:varchar(10)" json:"floor,omitempty"`
	Price       float32 `json:"price,omitempty"`
	Description string  `gorm:"type:text" json:"description,omitempty"`

	Status         types.RoomStatus     `gorm:"default:'available'" json:"status,omitempty"`
	CleaningStatus types.CleaningStatus `gorm:"default:'clean'" json:"cleaning_status,omitempty"`

	// OverrideBy is set while a staff maintenance/cleaning override is active.
	// While set, reconciliation leaves Status alone.
	OverrideBy *uint `json:"override_by,omitempty"`

	Bookings []Booking `gorm:"foreignKey:room_id" json:"bookings,omitempty"`

	types.Timestamps
}

func (r *Room) HasOverride() bool {
	return r.OverrideBy != nil
}
