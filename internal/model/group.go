package model

import (
	"time"

	"github.com/google/uuid"
)

// Group is a set of users sharing expenses and savings goals.
type Group struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	CreatedBy uuid.UUID     `gorm:"type:uuid;not null;index" json:"created_by"`
	Members   []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type GroupMember struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
