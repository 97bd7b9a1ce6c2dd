package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DefaultBatchLocation is used when a purchase does not say where stock went.
const DefaultBatchLocation = "Warehouse"

// InventoryBatch is one received lot of a product. RemainingQuantity starts
// equal to Quantity and is the only field stock levels are derived from.
type InventoryBatch struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID          *uuid.UUID      `gorm:"type:uuid;index"`
	BatchNumber       *string         `gorm:"index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PurchasedAt       time.Time       `gorm:"not null;index"`
	ExpiryDate        *datatypes.Date
	Location          *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Vendor  *Vendor  `gorm:"foreignKey:VendorID"`
}
