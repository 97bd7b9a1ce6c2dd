package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string           `json:"name"            validate:"required,min=2,max=120"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"             validate:"omitempty,max=64"`
	Barcode       *string          `json:"barcode"         validate:"omitempty,min=4,max=32"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	Unit          string           `json:"unit"            validate:"required,oneof=kg gm ltr ml pcs box pack"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"  validate:"min=0,places=2"`
	SellingPrice  decimal.Decimal  `json:"selling_price"   validate:"min=0,places=2"`
	MRP           *decimal.Decimal `json:"mrp"             validate:"omitempty,min=0,places=2"`
	TaxRate       *decimal.Decimal `json:"tax_rate"        validate:"omitempty,min=0,max=100,places=2"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level" validate:"omitempty,min=0,places=3"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level" validate:"omitempty,min=0,places=3"`
	HSNCode       *string          `json:"hsn_code"        validate:"omitempty,max=16"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"             validate:"omitempty,max=64"`
	Barcode       *string          `json:"barcode"         validate:"omitempty,min=4,max=32"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	Unit          *string          `json:"unit"            validate:"omitempty,oneof=kg gm ltr ml pcs box pack"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"  validate:"omitempty,min=0,places=2"`
	SellingPrice  *decimal.Decimal `json:"selling_price"   validate:"omitempty,min=0,places=2"`
	MRP           *decimal.Decimal `json:"mrp"             validate:"omitempty,min=0,places=2"`
	TaxRate       *decimal.Decimal `json:"tax_rate"        validate:"omitempty,min=0,max=100,places=2"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level" validate:"omitempty,min=0,places=3"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level" validate:"omitempty,min=0,places=3"`
	HSNCode       *string          `json:"hsn_code"        validate:"omitempty,max=16"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name       string `form:"name"`
	Barcode    string `form:"barcode"`
	CategoryID string `form:"category_id" validate:"omitempty,uuid"`
	// Active: "false" = inactive only, "all" = everything, anything else = active only
	Active string `form:"active"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"`
	Barcode       *string          `json:"barcode"`
	CategoryID    *string          `json:"category_id"`
	CategoryName  *string          `json:"category_name,omitempty"`
	Unit          string           `json:"unit"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	MRP           *decimal.Decimal `json:"mrp"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
	HSNCode       *string          `json:"hsn_code"`
	IsActive      bool             `json:"is_active"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// PriceLookupResponse is returned by the public barcode price check.
type PriceLookupResponse struct {
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	SellingPrice decimal.Decimal  `json:"selling_price"`
	MRP          *decimal.Decimal `json:"mrp"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	InStock      decimal.Decimal  `json:"in_stock"`
}

// PriceHistoryItem is one row of a product's price history.
type PriceHistoryItem struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	PurchasePriceBefore decimal.Decimal `json:"purchase_price_before"`
	PurchasePriceAfter  decimal.Decimal `json:"purchase_price_after"`
	SellingPriceBefore  decimal.Decimal `json:"selling_price_before"`
	SellingPriceAfter   decimal.Decimal `json:"selling_price_after"`
	ChangedBy           *string         `json:"changed_by,omitempty"`
	CreatedAt           string          `json:"created_at"`
}

type PriceHistoryListResponse struct {
	Data  []PriceHistoryItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
