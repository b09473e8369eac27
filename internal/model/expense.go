package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupExpense is a cost shared by the members of a group. Shares either come
// in explicitly or are produced by the equal-split rule; they always sum to
// Amount to the cent.
type GroupExpense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"group_id"`
	PaidBy      uuid.UUID       `gorm:"type:uuid;not null;index" json:"paid_by"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Shares      []ExpenseShare  `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"members"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ExpenseShare struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpenseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Share     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"share"`
}
