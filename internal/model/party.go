package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor supplies inventory batches.
type Vendor struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	GSTIN         *string `gorm:"column:gstin"`
	IsActive      bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Customer is an invoice recipient. Invoices without one are walk-in sales.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Email       *string
	Phone       *string `gorm:"index"`
	Address     *string
	GSTIN       *string          `gorm:"column:gstin"`
	CreditLimit *decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsActive    bool             `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
