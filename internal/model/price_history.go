package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory records every price change of a product. Rows are never
// updated or deleted.
type PriceHistory struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchasePriceBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PurchasePriceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPriceBefore  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPriceAfter   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangedBy           *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt           time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
