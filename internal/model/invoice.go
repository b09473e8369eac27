package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status enum constants. The transition is one-way: Unpaid -> Paid.
const (
	StatusUnpaid = "Unpaid"
	StatusPaid   = "Paid"
)

// Invoice represents a billable document owned by a user. The four derived
// amounts are recomputed from Items on every mutation and are never accepted
// from a caller; once the invoice is Paid, items and amounts are read-only.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoiceNumber"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string          `gorm:"type:varchar(255)" json:"title"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"totalDiscount"`
	TotalTax      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"totalTax"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"grandTotal"`
	Status        string          `gorm:"type:varchar(10);not null;default:'Unpaid';index" json:"status"`
	IssueDate     time.Time       `gorm:"not null" json:"issueDate"`
	DueDate       *time.Time      `json:"dueDate"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceItem is a persisted line item. Position preserves display order;
// totals do not depend on it.
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position        int             `gorm:"not null;default:0" json:"-"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1" json:"qty"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unitPrice"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"discountPercent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"taxPercent"`
}
