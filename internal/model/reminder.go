package model

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a scheduled notification. The dispatcher picks up unsent rows
// whose SendAt has passed, delivers over the resolved channel and flips Sent,
// or records the delivery error for the next sweep to see.
type Reminder struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Channel   string    `gorm:"type:varchar(20)" json:"channel"` // empty = user preference
	SendAt    time.Time `gorm:"not null;index" json:"sendAt"`
	Sent      bool      `gorm:"not null;default:false;index" json:"sent"`
	Error     *string   `gorm:"type:text" json:"error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
