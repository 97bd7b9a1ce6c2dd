package repository

import (
	"context"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceFilter defines filters for listing invoices. Zero values are ignored.
type InvoiceFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    *uuid.UUID
	From          *time.Time
	To            *time.Time // exclusive
	Page          int
	Limit         int
}

type InvoiceRepository interface {
	// CreateTx inserts the invoice header and its items.
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	// ListCreatedBetween returns non-cancelled invoices with items and
	// products, created in [from, to).
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, paymentStatus *string) error
	SetPDFPath(ctx context.Context, id uuid.UUID, path string) error
	// ListMissingDocument returns ids of non-cancelled invoices created before
	// the cutoff that still have no rendered PDF, oldest first.
	ListMissingDocument(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
	// MarkOverdue flags unpaid invoices whose due date is before today.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)

	AddPaymentTx(tx *gorm.DB, p *model.Payment) error
	PaidTotalTx(tx *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error)
	SetPaymentStatusTx(tx *gorm.DB, invoiceID uuid.UUID, paymentStatus string) error

	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

// itemsInOrder preloads invoice lines in the order they were submitted.
func itemsInOrder(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return translate(tx.Omit("Customer", "Payments", "Items.Product").Create(inv).Error)
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", itemsInOrder).
		Preload("Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date ASC") }).
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := pageBounds(filter.Page, filter.Limit, 100)
	var invoices []model.Invoice
	err := q.Preload("Customer").
		Preload("Items", itemsInOrder).
		Preload("Items.Product").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Preload("Items.Product").
		Where("created_at >= ? AND created_at < ? AND status <> ?", from, to, model.InvoiceCancelled).
		Order("created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, paymentStatus *string) error {
	updates := map[string]any{"status": status}
	if paymentStatus != nil {
		updates["payment_status"] = *paymentStatus
	}
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) SetPDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return translate(r.db.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).Update("pdf_path", path).Error)
}

func (r *invoiceRepo) ListMissingDocument(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("(pdf_path IS NULL OR pdf_path = '') AND status <> ? AND created_at < ?", model.InvoiceCancelled, createdBefore).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("due_date < ? AND payment_status IN ? AND status <> ?",
			today.Format("2006-01-02"),
			[]string{model.PaymentPending, model.PaymentPartial},
			model.InvoiceCancelled).
		Update("payment_status", model.PaymentOverdue)
	return res.RowsAffected, res.Error
}

func (r *invoiceRepo) AddPaymentTx(tx *gorm.DB, p *model.Payment) error {
	return translate(tx.Create(p).Error)
}

func (r *invoiceRepo) PaidTotalTx(tx *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.Payment{}).
		Select("SUM(amount)").
		Where("invoice_id = ?", invoiceID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *invoiceRepo) SetPaymentStatusTx(tx *gorm.DB, invoiceID uuid.UUID, paymentStatus string) error {
	return translate(tx.Model(&model.Invoice{}).Where("id = ?", invoiceID).Update("payment_status", paymentStatus).Error)
}
