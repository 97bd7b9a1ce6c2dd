package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice lifecycle status.
const (
	InvoiceDraft     = "draft"
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Payment status of an invoice.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

var (
	InvoiceStatuses = []string{InvoiceDraft, InvoicePending, InvoicePaid, InvoiceCancelled}
	PaymentStatuses = []string{PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue}
)

// Invoice is a sale document. Monetary aggregates are computed once at
// creation and stored rounded to cents.
type Invoice struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber  string          `gorm:"uniqueIndex;not null"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	Status         string          `gorm:"type:varchar(16);not null;default:'draft'"`
	PaymentStatus  string          `gorm:"type:varchar(16);not null;default:'pending'"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate        *datatypes.Date
	DeliveryDate   *datatypes.Date
	Notes          *string
	PDFPath        *string
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"index"`
	UpdatedAt      time.Time

	Customer *Customer     `gorm:"foreignKey:CustomerID"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID"`
}

// InvoiceItem is one line of an invoice. Position is the line's index as
// submitted. BatchID is set only when stock was consumed from a specific batch.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null;default:0"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID   *uuid.UUID      `gorm:"type:uuid"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Payment is money received against an invoice.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null"`
	ReferenceNumber *string
	Notes           *string
	PaymentDate     time.Time `gorm:"not null"`
	CreatedAt       time.Time
}
