package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income is an immutable ledger entry. Mark-paid writes exactly one row per
// invoice, with Amount equal to the invoice's grand total at that moment.
type Income struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	SourceInvoice *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"sourceInvoice"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Source        string          `gorm:"type:varchar(100)" json:"source"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}
