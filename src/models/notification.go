package models

import (
	"hms/src/types"
	"time"

	"github.com/google/uuid"
)

// Notification is the persisted inbox entry behind a broadcast `notification`
// event. The socket event itself is ephemeral; this row is what an offline
// client finds when it comes back.
type Notification struct {
	ID       uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title    string       `json:"title"`
	Message  string       `gorm:"type:text" json:"message"`
	Type     string       `json:"type"`
	Data     *types.JSONB `gorm:"type:jsonb" json:"data,omitempty"`
	Audience string       `json:"audience"`
	UserID   *uint        `json:"user_id,omitempty"`
	ReadAt   *time.Time   `json:"read_at,omitempty"`

	types.Timestamps
}
