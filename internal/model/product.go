package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Units a product can be sold in.
const (
	UnitKg   = "kg"
	UnitGm   = "gm"
	UnitLtr  = "ltr"
	UnitMl   = "ml"
	UnitPcs  = "pcs"
	UnitBox  = "box"
	UnitPack = "pack"
)

// ValidUnits is the product_unit enum.
var ValidUnits = []string{UnitKg, UnitGm, UnitLtr, UnitMl, UnitPcs, UnitBox, UnitPack}

// Product is a catalog entry. Stock is not stored here; it is derived from
// the remaining quantity of the product's inventory batches.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Description   *string
	SKU           *string          `gorm:"column:sku;uniqueIndex"`
	Barcode       *string          `gorm:"uniqueIndex"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	Unit          string           `gorm:"type:varchar(8);not null;default:'pcs'"`
	PurchasePrice decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SellingPrice  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MRP           *decimal.Decimal `gorm:"column:mrp;type:decimal(12,2)"`
	TaxRate       *decimal.Decimal `gorm:"type:decimal(5,2)"`
	MinStockLevel *decimal.Decimal `gorm:"type:decimal(12,3)"`
	MaxStockLevel *decimal.Decimal `gorm:"type:decimal(12,3)"`
	HSNCode       *string          `gorm:"column:hsn_code"`
	IsActive      bool             `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
