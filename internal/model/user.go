package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification channel constants
const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"
)

// User represents the central user entity for logic and database structure
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete

	Preferences NotificationPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"notificationPreferences"`
}

// NotificationPreferences control which reminder categories a user receives
// and over which channel. Stored inline on the user row.
type NotificationPreferences struct {
	Channel        string `gorm:"type:varchar(20);default:'email'" json:"channel"` // email, in_app
	Timezone       string `gorm:"type:varchar(64)" json:"timezone"`
	Bills          bool   `gorm:"default:true" json:"bills"`
	Budgets        bool   `gorm:"default:true" json:"budgets"`
	GroupAlerts    bool   `gorm:"default:true" json:"groupAlerts"`
	SmartReminders bool   `gorm:"default:false" json:"smartReminders"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
