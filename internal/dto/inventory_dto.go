package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddBatchRequest struct {
	ProductID     string          `json:"product_id"     validate:"required,uuid"`
	VendorID      *string         `json:"vendor_id"      validate:"omitempty,uuid"`
	BatchNumber   *string         `json:"batch_number"   validate:"omitempty,max=64"`
	Quantity      decimal.Decimal `json:"quantity"       validate:"gt=0,places=3"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0,places=2"`
	PurchasedAt   *string         `json:"purchased_at"   validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ExpiryDate    *string         `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
	Location      *string         `json:"location"       validate:"omitempty,max=80"`
}

type PurchaseItemRequest struct {
	ProductID     string          `json:"product_id"     validate:"required,uuid"`
	Quantity      decimal.Decimal `json:"quantity"       validate:"gt=0,places=3"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0,places=2"`
	BatchNumber   *string         `json:"batch_number"   validate:"omitempty,max=64"`
	ExpiryDate    *string         `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
	Location      *string         `json:"location"       validate:"omitempty,max=80"`
}

// RecordPurchaseRequest receives stock from one vendor; each item becomes a batch.
type RecordPurchaseRequest struct {
	VendorID string                `json:"vendor_id" validate:"required,uuid"`
	Items    []PurchaseItemRequest `json:"items"     validate:"required,min=1,dive"`
	Notes    *string               `json:"notes"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

type StockSummaryFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock"`
	Sort   string `form:"sort"   validate:"omitempty,oneof=name"`
}

type MovementFilter struct {
	ProductID    string `form:"product_id"    validate:"omitempty,uuid"`
	MovementType string `form:"movement_type" validate:"omitempty,oneof=purchase sale adjustment"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BatchProductResponse struct {
	Name          string           `json:"name"`
	Unit          string           `json:"unit"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
}

type BatchResponse struct {
	ID                string                `json:"id"`
	ProductID         string                `json:"product_id"`
	VendorID          *string               `json:"vendor_id"`
	BatchNumber       *string               `json:"batch_number"`
	Quantity          decimal.Decimal       `json:"quantity"`
	RemainingQuantity decimal.Decimal       `json:"remaining_quantity"`
	PurchasePrice     decimal.Decimal       `json:"purchase_price"`
	PurchasedAt       string                `json:"purchased_at"`
	ExpiryDate        *string               `json:"expiry_date"`
	Location          *string               `json:"location"`
	Product           *BatchProductResponse `json:"products"`
}

type StockSummaryResponse struct {
	ProductID     string           `json:"product_id"`
	ProductName   string           `json:"product_name"`
	Unit          string           `json:"unit"`
	TotalStock    decimal.Decimal  `json:"total_stock"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	Status        string           `json:"status"`
}

type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	BatchID       *string         `json:"batch_id"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceID   *string         `json:"reference_id"`
	ReferenceType *string         `json:"reference_type"`
	Notes         *string         `json:"notes"`
	CreatedAt     string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
