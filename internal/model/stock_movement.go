package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types.
const (
	MovementPurchase   = "purchase"
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
)

// StockMovement is an append-only record of stock entering or leaving a batch.
// Quantity is positive for stock in, negative for stock out.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID       *uuid.UUID      `gorm:"type:uuid;index"`
	MovementType  string          `gorm:"type:varchar(16);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid"`
	ReferenceType *string
	Notes         *string
	CreatedAt     time.Time `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
