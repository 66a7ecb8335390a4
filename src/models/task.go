package models

import (
	"hms/src/types"
	"time"
)

type HousekeepingTask struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	RoomID     uint             `json:"room_id"`
	Kind       types.TaskKind   `json:"kind"`
	Status     types.TaskStatus `gorm:"default:'open'" json:"status,omitempty"`
	AssigneeID *uint            `json:"assignee_id,omitempty"`
	Notes      string           `gorm:"type:text" json:"notes,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uint      `json:"completed_by,omitempty"`

	Room     *Room `gorm:"foreignKey:room_id" json:"room,omitempty"`
	Assignee *User `gorm:"foreignKey:assignee_id" json:"assignee,omitempty"`

	types.Timestamps
}
