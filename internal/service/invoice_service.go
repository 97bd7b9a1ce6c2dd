package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/calc"
	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const refTypeInvoice = "invoice"

// InvoiceNumberer issues unique, human-readable invoice numbers.
type InvoiceNumberer interface {
	Next() string
}

// DocumentQueue schedules the asynchronous PDF and e-mail work for an invoice.
type DocumentQueue interface {
	EnqueueInvoiceDocument(ctx context.Context, invoiceID uuid.UUID) error
}

// InvoiceRenderer writes an invoice document and returns its path.
type InvoiceRenderer interface {
	Render(inv *model.Invoice) (string, error)
}

// InvoiceOptions carries the configurable invoicing rules.
type InvoiceOptions struct {
	// StrictPricing rejects lines with a zero unit price.
	StrictPricing bool
	// DecrementStock consumes batches FIFO when an invoice is created.
	DecrementStock bool
}

type InvoiceService interface {
	Create(ctx context.Context, createdBy *uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.InvoiceResponse, error)
	// DocumentPath returns the invoice PDF, rendering it first when missing.
	DocumentPath(ctx context.Context, id uuid.UUID) (path string, number string, err error)
}

type invoiceService struct {
	repo      repository.InvoiceRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	inventory InventoryService
	numbers   InvoiceNumberer
	queue     DocumentQueue
	renderer  InvoiceRenderer
	opts      InvoiceOptions
	now       func() time.Time
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	inventory InventoryService,
	numbers InvoiceNumberer,
	queue DocumentQueue,
	renderer InvoiceRenderer,
	opts InvoiceOptions,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		products:  products,
		customers: customers,
		inventory: inventory,
		numbers:   numbers,
		queue:     queue,
		renderer:  renderer,
		opts:      opts,
		now:       time.Now,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
//   1. Validate every line (all violations reported together)
//   2. Resolve customer and products
//   3. Compute totals with the invoice calculator
//   4. BEGIN TX: optional FIFO consumption, insert header + items
//   5. COMMIT, then enqueue the document job

func (s *invoiceService) Create(ctx context.Context, createdBy *uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(req.Items) == 0 {
		return nil, &calc.ValidationError{Violations: []calc.Violation{{Index: -1, Field: "items", Rule: "at least one item is required"}}}
	}
	if req.DiscountAmount.IsNegative() {
		return nil, &calc.ValidationError{Violations: []calc.Violation{{Index: -1, Field: "discount_amount", Rule: "must not be negative"}}}
	}
	if !calc.FitsPlaces(req.DiscountAmount, calc.MoneyPlaces) {
		return nil, &calc.ValidationError{Violations: []calc.Violation{{Index: -1, Field: "discount_amount", Rule: "must have at most 2 decimal places"}}}
	}

	drafts := make([]calc.LineItemDraft, len(req.Items))
	for i, it := range req.Items {
		drafts[i] = calc.LineItemDraft{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice, TaxRate: it.TaxRate}
	}
	if err := calc.ValidateLineItems(drafts, calc.ValidationOptions{RequirePositivePrice: s.opts.StrictPricing}); err != nil {
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	productIDs, byID, err := s.resolveProducts(ctx, drafts)
	if err != nil {
		return nil, err
	}

	// Lines without an explicit rate take the product's catalog rate.
	for i := range drafts {
		if drafts[i].TaxRate == nil {
			drafts[i].TaxRate = byID[productIDs[i]].TaxRate
		}
	}
	totals := calc.CalculateInvoice(drafts, req.DiscountAmount)
	if totals.TotalAmount.IsNegative() {
		return nil, &calc.ValidationError{Violations: []calc.Violation{{Index: -1, Field: "discount_amount", Rule: "must not exceed subtotal plus tax"}}}
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, newError(ErrInvalid, "due_date must be YYYY-MM-DD")
	}
	deliveryDate, err := parseDate(req.DeliveryDate)
	if err != nil {
		return nil, newError(ErrInvalid, "delivery_date must be YYYY-MM-DD")
	}

	inv := &model.Invoice{
		ID:             uuid.New(),
		InvoiceNumber:  s.numbers.Next(),
		Status:         model.InvoiceDraft,
		PaymentStatus:  model.PaymentPending,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		DueDate:        dueDate,
		DeliveryDate:   deliveryDate,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
	}
	if customer != nil {
		inv.CustomerID = &customer.ID
	}
	inv.Items = make([]model.InvoiceItem, len(totals.LineItems))
	for i, line := range totals.LineItems {
		inv.Items[i] = model.InvoiceItem{
			InvoiceID: inv.ID,
			Position:  i,
			ProductID: productIDs[i],
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.Rate(),
			LineTotal: line.LineTotal,
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if s.opts.DecrementStock {
			for i := range inv.Items {
				item := &inv.Items[i]
				allocations, err := s.inventory.ConsumeTx(tx, item.ProductID, item.Quantity, inv.ID, refTypeInvoice)
				if err != nil {
					return err
				}
				// A line drawn from exactly one batch records it; otherwise
				// the per-batch detail lives in the sale movements.
				if len(allocations) == 1 {
					if id, err := uuid.Parse(allocations[0].BatchID); err == nil {
						item.BatchID = &id
					}
				}
			}
		}
		return s.repo.CreateTx(tx, inv)
	})
	if txErr != nil {
		var svcErr *Error
		if errors.As(txErr, &svcErr) {
			return nil, svcErr
		}
		return nil, fromRepo(txErr, "invoice")
	}

	if s.opts.DecrementStock {
		consumed := make([]*model.Product, 0, len(byID))
		for _, p := range byID {
			consumed = append(consumed, p)
		}
		s.inventory.InvalidateProducts(ctx, consumed...)
	}

	log.Info().
		Str("invoice_id", inv.ID.String()).
		Str("invoice_number", inv.InvoiceNumber).
		Str("total", inv.TotalAmount.StringFixed(2)).
		Int("items", len(inv.Items)).
		Msg("invoice created")

	if s.queue != nil {
		if err := s.queue.EnqueueInvoiceDocument(ctx, inv.ID); err != nil {
			log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("failed to enqueue invoice document")
		}
	}

	inv.Customer = customer
	for i := range inv.Items {
		inv.Items[i].Product = byID[inv.Items[i].ProductID]
	}
	inv.CreatedAt = s.now()
	resp := invoiceResponse(inv)
	return &resp, nil
}

func (s *invoiceService) resolveCustomer(ctx context.Context, raw *string) (*model.Customer, error) {
	id, err := parseUUIDPtr(raw)
	if err != nil {
		return nil, newError(ErrInvalid, "customer_id is not a valid id")
	}
	if id == nil {
		return nil, nil
	}
	c, err := s.customers.FindByID(ctx, *id)
	if err != nil {
		return nil, fromRepo(err, "customer")
	}
	return c, nil
}

// resolveProducts parses each line's product id and loads the products.
// Unknown or inactive products are reported per line.
func (s *invoiceService) resolveProducts(ctx context.Context, drafts []calc.LineItemDraft) ([]uuid.UUID, map[uuid.UUID]*model.Product, error) {
	ids := make([]uuid.UUID, len(drafts))
	var violations []calc.Violation
	for i, d := range drafts {
		id, err := uuid.Parse(d.ProductID)
		if err != nil {
			violations = append(violations, calc.Violation{Index: i, Field: "product_id", Rule: "must be a valid id"})
			continue
		}
		ids[i] = id
	}
	if len(violations) > 0 {
		return nil, nil, &calc.ValidationError{Violations: violations}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i, id := range ids {
		p, ok := byID[id]
		switch {
		case !ok:
			violations = append(violations, calc.Violation{Index: i, Field: "product_id", Rule: "product does not exist"})
		case !p.IsActive:
			violations = append(violations, calc.Violation{Index: i, Field: "product_id", Rule: "product is inactive"})
		}
	}
	if len(violations) > 0 {
		return nil, nil, &calc.ValidationError{Violations: violations}
	}
	return ids, byID, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "invoice")
	}
	resp := invoiceResponse(inv)
	return &resp, nil
}

func (s *invoiceService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	f := repository.InvoiceFilter{
		Status:        filter.Status,
		PaymentStatus: filter.PaymentStatus,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}
	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, newError(ErrInvalid, "customer_id is not a valid id")
		}
		f.CustomerID = &id
	}
	if filter.From != "" {
		from, err := time.ParseInLocation(dto.DateLayout, filter.From, time.Local)
		if err != nil {
			return nil, newError(ErrInvalid, "from must be YYYY-MM-DD")
		}
		f.From = &from
	}
	if filter.To != "" {
		to, err := time.ParseInLocation(dto.DateLayout, filter.To, time.Local)
		if err != nil {
			return nil, newError(ErrInvalid, "to must be YYYY-MM-DD")
		}
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	invoices, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		data = append(data, invoiceResponse(&invoices[i]))
	}
	return &dto.InvoiceListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}

// ── Status & payments ─────────────────────────────────────────────────────────

func (s *invoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if !contains(model.InvoiceStatuses, req.Status) {
		return nil, newError(ErrInvalid, "unknown invoice status %q", req.Status)
	}
	if req.PaymentStatus != nil && !contains(model.PaymentStatuses, *req.PaymentStatus) {
		return nil, newError(ErrInvalid, "unknown payment status %q", *req.PaymentStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.PaymentStatus); err != nil {
		return nil, fromRepo(err, "invoice")
	}
	return s.GetByID(ctx, id)
}

// RecordPayment adds a payment and recomputes the payment status: paid once
// payments cover the total; before that overdue while the due date is past,
// otherwise partial.
func (s *invoiceService) RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, newError(ErrInvalid, "amount must be greater than 0")
	}
	if !calc.FitsPlaces(req.Amount, calc.MoneyPlaces) {
		return nil, newError(ErrInvalid, "amount must have at most 2 decimal places")
	}
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "invoice")
	}
	if inv.Status == model.InvoiceCancelled {
		return nil, newError(ErrConflict, "invoice %s is cancelled", inv.InvoiceNumber)
	}

	paidAt := s.now()
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		paidAt, err = time.ParseInLocation(dto.DateLayout, *req.PaymentDate, time.Local)
		if err != nil {
			return nil, newError(ErrInvalid, "payment_date must be YYYY-MM-DD")
		}
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AddPaymentTx(tx, &model.Payment{
			InvoiceID:       inv.ID,
			Amount:          req.Amount,
			PaymentMethod:   req.PaymentMethod,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
			PaymentDate:     paidAt,
		}); err != nil {
			return err
		}
		paid, err := s.repo.PaidTotalTx(tx, inv.ID)
		if err != nil {
			return err
		}
		return s.repo.SetPaymentStatusTx(tx, inv.ID, paymentStatusFor(paid, inv.TotalAmount, s.pastDue(inv)))
	})
	if err != nil {
		return nil, fromRepo(err, "payment")
	}
	return s.GetByID(ctx, id)
}

func paymentStatusFor(paid, total decimal.Decimal, pastDue bool) string {
	switch {
	case paid.GreaterThanOrEqual(total):
		return model.PaymentPaid
	case pastDue:
		return model.PaymentOverdue
	case paid.IsPositive():
		return model.PaymentPartial
	default:
		return model.PaymentPending
	}
}

// pastDue uses the same day boundary as the overdue sweep: due before today.
func (s *invoiceService) pastDue(inv *model.Invoice) bool {
	if inv.DueDate == nil {
		return false
	}
	return time.Time(*inv.DueDate).Format(dto.DateLayout) < s.now().Format(dto.DateLayout)
}

// ── Documents ─────────────────────────────────────────────────────────────────

func (s *invoiceService) DocumentPath(ctx context.Context, id uuid.UUID) (string, string, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", "", fromRepo(err, "invoice")
	}
	if inv.PDFPath != nil && *inv.PDFPath != "" {
		if _, err := os.Stat(*inv.PDFPath); err == nil {
			return *inv.PDFPath, inv.InvoiceNumber, nil
		}
	}
	if s.renderer == nil {
		return "", "", newError(ErrNotFound, "invoice document not available")
	}

	path, err := s.renderer.Render(inv)
	if err != nil {
		return "", "", err
	}
	if err := s.repo.SetPDFPath(ctx, inv.ID, path); err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("failed to store invoice pdf path")
	}
	return path, inv.InvoiceNumber, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
