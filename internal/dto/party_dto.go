package dto

import "github.com/shopspring/decimal"

// ─── Vendors ─────────────────────────────────────────────────────────────────

type CreateVendorRequest struct {
	Name          string  `json:"name"           validate:"required,min=2,max=120"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=120"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,max=20"`
	Address       *string `json:"address"        validate:"omitempty,max=255"`
	GSTIN         *string `json:"gstin"          validate:"omitempty,len=15,alphanum"`
}

type UpdateVendorRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=120"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=120"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,max=20"`
	Address       *string `json:"address"        validate:"omitempty,max=255"`
	GSTIN         *string `json:"gstin"          validate:"omitempty,len=15,alphanum"`
}

type VendorResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	GSTIN         *string `json:"gstin"`
	IsActive      bool    `json:"is_active"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name        string           `json:"name"         validate:"required,min=2,max=120"`
	Email       *string          `json:"email"        validate:"omitempty,email"`
	Phone       *string          `json:"phone"        validate:"omitempty,max=20"`
	Address     *string          `json:"address"      validate:"omitempty,max=255"`
	GSTIN       *string          `json:"gstin"        validate:"omitempty,len=15,alphanum"`
	CreditLimit *decimal.Decimal `json:"credit_limit" validate:"omitempty,min=0,places=2"`
}

type UpdateCustomerRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=2,max=120"`
	Email       *string          `json:"email"        validate:"omitempty,email"`
	Phone       *string          `json:"phone"        validate:"omitempty,max=20"`
	Address     *string          `json:"address"      validate:"omitempty,max=255"`
	GSTIN       *string          `json:"gstin"        validate:"omitempty,len=15,alphanum"`
	CreditLimit *decimal.Decimal `json:"credit_limit" validate:"omitempty,min=0,places=2"`
}

type CustomerFilter struct {
	// Search matches name or phone.
	Search string `form:"search"`
	All    bool   `form:"all"`
}

type CustomerResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	Address     *string          `json:"address"`
	GSTIN       *string          `json:"gstin"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	IsActive    bool             `json:"is_active"`
}
