package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target, personal or attached to a group. Only the creator
// may update or delete it.
type Goal struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GoalName     string          `gorm:"type:varchar(255);not null" json:"goal_name"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"target_amount"`
	Deadline     time.Time       `gorm:"not null" json:"deadline"`
	GroupID      *uuid.UUID      `gorm:"type:uuid;index" json:"group_id"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Contribution is money put toward a goal by a group member.
type Contribution struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GoalID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"goal_id"`
	GroupID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"group_id"`
	ContributorID uuid.UUID       `gorm:"type:uuid;not null;index" json:"contributor_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}
