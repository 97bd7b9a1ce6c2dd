package service

import (
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/calc"
	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// walkInCustomer is shown for invoices without a customer.
const walkInCustomer = "Walk-in Customer"

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(s *string) (*datatypes.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, *s, time.Local)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

func formatDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format(dto.DateLayout)
	return &s
}

func productResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		CategoryID:    uuidPtrString(p.CategoryID),
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		MRP:           p.MRP,
		TaxRate:       p.TaxRate,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		HSNCode:       p.HSNCode,
		IsActive:      p.IsActive,
	}
	if p.Category != nil {
		name := p.Category.Name
		resp.CategoryName = &name
	}
	return resp
}

func categoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		IsActive:    c.IsActive,
	}
}

func vendorResponse(v *model.Vendor) dto.VendorResponse {
	return dto.VendorResponse{
		ID:            v.ID.String(),
		Name:          v.Name,
		ContactPerson: v.ContactPerson,
		Email:         v.Email,
		Phone:         v.Phone,
		Address:       v.Address,
		GSTIN:         v.GSTIN,
		IsActive:      v.IsActive,
	}
}

func customerResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		GSTIN:       c.GSTIN,
		CreditLimit: c.CreditLimit,
		IsActive:    c.IsActive,
	}
}

func userResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

func batchResponse(b *model.InventoryBatch) dto.BatchResponse {
	resp := dto.BatchResponse{
		ID:                b.ID.String(),
		ProductID:         b.ProductID.String(),
		VendorID:          uuidPtrString(b.VendorID),
		BatchNumber:       b.BatchNumber,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		PurchasePrice:     b.PurchasePrice,
		PurchasedAt:       b.PurchasedAt.Format(time.RFC3339),
		ExpiryDate:        formatDate(b.ExpiryDate),
		Location:          b.Location,
	}
	if b.Product != nil {
		resp.Product = &dto.BatchProductResponse{
			Name:          b.Product.Name,
			Unit:          b.Product.Unit,
			MinStockLevel: b.Product.MinStockLevel,
			SellingPrice:  b.Product.SellingPrice,
		}
	}
	return resp
}

// toCalcBatches projects batch rows onto the aggregator's input.
func toCalcBatches(batches []model.InventoryBatch) []calc.Batch {
	out := make([]calc.Batch, 0, len(batches))
	for _, b := range batches {
		cb := calc.Batch{
			ProductID:         b.ProductID.String(),
			RemainingQuantity: b.RemainingQuantity,
		}
		if b.Product != nil {
			cb.Product = &calc.BatchProduct{
				Name:          b.Product.Name,
				Unit:          b.Product.Unit,
				MinStockLevel: b.Product.MinStockLevel,
				SellingPrice:  b.Product.SellingPrice,
			}
		}
		out = append(out, cb)
	}
	return out
}

func stockSummaryResponse(s calc.StockSummary) dto.StockSummaryResponse {
	return dto.StockSummaryResponse{
		ProductID:     s.ProductID,
		ProductName:   s.ProductName,
		Unit:          s.Unit,
		TotalStock:    s.TotalStock,
		MinStockLevel: s.MinStockLevel,
		SellingPrice:  s.SellingPrice,
		Status:        string(s.Status),
	}
}

func movementResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:            m.ID.String(),
		ProductID:     m.ProductID.String(),
		BatchID:       uuidPtrString(m.BatchID),
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		ReferenceID:   uuidPtrString(m.ReferenceID),
		ReferenceType: m.ReferenceType,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	return resp
}

func invoiceResponse(inv *model.Invoice) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     uuidPtrString(inv.CustomerID),
		CustomerName:   walkInCustomer,
		Status:         inv.Status,
		PaymentStatus:  inv.PaymentStatus,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		AmountPaid:     decimal.Zero,
		DueDate:        formatDate(inv.DueDate),
		DeliveryDate:   formatDate(inv.DeliveryDate),
		Notes:          inv.Notes,
		HasPDF:         inv.PDFPath != nil && *inv.PDFPath != "",
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		Items:          make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
	}
	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.Name
	}
	for _, it := range inv.Items {
		item := dto.InvoiceItemResponse{
			ID:        it.ID.String(),
			ProductID: it.ProductID.String(),
			BatchID:   uuidPtrString(it.BatchID),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
			LineTotal: it.LineTotal,
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
		}
		resp.Items = append(resp.Items, item)
	}
	for _, p := range inv.Payments {
		resp.AmountPaid = resp.AmountPaid.Add(p.Amount)
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:              p.ID.String(),
			Amount:          p.Amount,
			PaymentMethod:   p.PaymentMethod,
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
			PaymentDate:     p.PaymentDate.Format(dto.DateLayout),
		})
	}
	return resp
}
