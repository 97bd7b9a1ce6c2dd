package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InvoiceItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price" validate:"min=0"`
	TaxRate   *decimal.Decimal `json:"tax_rate"   validate:"omitempty,min=0,max=100"`
}

// CreateInvoiceRequest is the invoice form. Quantities are checked by the
// calculator so that every failing line is reported at once.
type CreateInvoiceRequest struct {
	CustomerID     *string              `json:"customer_id"     validate:"omitempty,uuid"`
	Items          []InvoiceItemRequest `json:"items"           validate:"required,min=1,dive"`
	DiscountAmount decimal.Decimal      `json:"discount_amount" validate:"min=0,places=2"`
	DueDate        *string              `json:"due_date"        validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate   *string              `json:"delivery_date"   validate:"omitempty,datetime=2006-01-02"`
	Notes          *string              `json:"notes"           validate:"omitempty,max=1000"`
}

type UpdateInvoiceStatusRequest struct {
	Status        string  `json:"status"         validate:"required,oneof=draft pending paid cancelled"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=pending partial paid overdue"`
}

type RecordPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"           validate:"gt=0,places=2"`
	PaymentMethod   string          `json:"payment_method"   validate:"required,oneof=cash card upi bank_transfer cheque"`
	ReferenceNumber *string         `json:"reference_number" validate:"omitempty,max=64"`
	Notes           *string         `json:"notes"            validate:"omitempty,max=500"`
	PaymentDate     *string         `json:"payment_date"     validate:"omitempty,datetime=2006-01-02"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type InvoiceFilter struct {
	Status        string `form:"status"         validate:"omitempty,oneof=draft pending paid cancelled"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=pending partial paid overdue"`
	CustomerID    string `form:"customer_id"    validate:"omitempty,uuid"`
	From          string `form:"from"           validate:"omitempty,datetime=2006-01-02"`
	To            string `form:"to"             validate:"omitempty,datetime=2006-01-02"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	BatchID     *string         `json:"batch_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type PaymentResponse struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number"`
	Notes           *string         `json:"notes"`
	PaymentDate     string          `json:"payment_date"`
}

type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     *string               `json:"customer_id"`
	CustomerName   string                `json:"customer_name"`
	Status         string                `json:"status"`
	PaymentStatus  string                `json:"payment_status"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	DueDate        *string               `json:"due_date"`
	DeliveryDate   *string               `json:"delivery_date"`
	Notes          *string               `json:"notes"`
	HasPDF         bool                  `json:"has_pdf"`
	CreatedAt      string                `json:"created_at"`
	Items          []InvoiceItemResponse `json:"items"`
	Payments       []PaymentResponse     `json:"payments,omitempty"`
}

type InvoiceListResponse struct {
	Data       []InvoiceResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
