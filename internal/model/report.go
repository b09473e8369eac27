package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportLog records that an export was produced for a user (audit trail for
// the CSV/PDF endpoints).
type ReportLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"` // csv_summary, invoice_pdf
	Meta      string    `gorm:"type:text" json:"meta"`                 // JSON blob: filters, row count
	CreatedAt time.Time `json:"created_at"`
}
