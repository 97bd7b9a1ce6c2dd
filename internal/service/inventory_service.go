package service

import (
	"context"
	"errors"
	"fmt"
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

const refTypePurchase = "purchase"

// InventoryService manages batches and the stock levels derived from them.
type InventoryService interface {
	AddBatch(ctx context.Context, req dto.AddBatchRequest) (*dto.BatchResponse, error)
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) ([]dto.BatchResponse, error)
	ListBatches(ctx context.Context) ([]dto.BatchResponse, error)
	StockSummary(ctx context.Context, filter dto.StockSummaryFilter) ([]dto.StockSummaryResponse, error)
	LowStock(ctx context.Context) ([]dto.StockSummaryResponse, error)
	Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	// ConsumeTx takes qty of a product from its batches, oldest purchase
	// first, inside the caller's transaction, recording one sale movement
	// per batch touched.
	ConsumeTx(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal, ref uuid.UUID, refType string) ([]calc.Allocation, error)
	// InvalidateStock retires the cached stock summary.
	InvalidateStock(ctx context.Context)
	// InvalidateProducts drops the stock summary and the price lookups of
	// products whose stock changed.
	InvalidateProducts(ctx context.Context, products ...*model.Product)
}

type inventoryService struct {
	batches   repository.BatchRepository
	products  repository.ProductRepository
	vendors   repository.VendorRepository
	movements repository.MovementRepository
	cache     repository.Cache
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewInventoryService(
	batches repository.BatchRepository,
	products repository.ProductRepository,
	vendors repository.VendorRepository,
	movements repository.MovementRepository,
	cache repository.Cache,
	cacheTTL time.Duration,
) InventoryService {
	if cache == nil {
		cache = repository.NopCache{}
	}
	return &inventoryService{
		batches:   batches,
		products:  products,
		vendors:   vendors,
		movements: movements,
		cache:     cache,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// ── AddBatch ──────────────────────────────────────────────────────────────────

func (s *inventoryService) AddBatch(ctx context.Context, req dto.AddBatchRequest) (*dto.BatchResponse, error) {
	if err := checkBatchAmounts("", req.Quantity, req.PurchasePrice); err != nil {
		return nil, err
	}
	product, err := s.activeProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	vendorID, err := s.resolveVendor(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		return nil, newError(ErrInvalid, "expiry_date must be YYYY-MM-DD")
	}
	purchasedAt := s.now()
	if req.PurchasedAt != nil && *req.PurchasedAt != "" {
		purchasedAt, err = time.Parse(time.RFC3339, *req.PurchasedAt)
		if err != nil {
			return nil, newError(ErrInvalid, "purchased_at must be an RFC 3339 timestamp")
		}
	}

	batch := &model.InventoryBatch{
		ID:                uuid.New(),
		ProductID:         product.ID,
		VendorID:          vendorID,
		BatchNumber:       blankToNil(req.BatchNumber),
		Quantity:          req.Quantity,
		RemainingQuantity: req.Quantity,
		PurchasePrice:     req.PurchasePrice,
		PurchasedAt:       purchasedAt,
		ExpiryDate:        expiry,
		Location:          blankToNil(req.Location),
	}

	err = runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		return s.receiveTx(tx, batch, batch.ID, "batch", nil)
	})
	if err != nil {
		return nil, fromRepo(err, "batch")
	}
	s.InvalidateProducts(ctx, product)

	batch.Product = product
	resp := batchResponse(batch)
	return &resp, nil
}

// ── RecordPurchase ────────────────────────────────────────────────────────────
// One vendor, many items: each item becomes its own batch. Location defaults
// to the warehouse. All batches are written in one transaction.

func (s *inventoryService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) ([]dto.BatchResponse, error) {
	vendorID, err := s.resolveVendor(ctx, &req.VendorID)
	if err != nil {
		return nil, err
	}
	if vendorID == nil {
		return nil, newError(ErrInvalid, "vendor_id is required")
	}
	if len(req.Items) == 0 {
		return nil, newError(ErrInvalid, "a purchase needs at least one item")
	}

	products := make([]*model.Product, len(req.Items))
	batches := make([]*model.InventoryBatch, len(req.Items))
	now := s.now()
	for i, item := range req.Items {
		if err := checkBatchAmounts(fmt.Sprintf("items[%d].", i), item.Quantity, item.PurchasePrice); err != nil {
			return nil, err
		}
		p, err := s.activeProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		expiry, err := parseDate(item.ExpiryDate)
		if err != nil {
			return nil, newError(ErrInvalid, "items[%d].expiry_date must be YYYY-MM-DD", i)
		}
		location := model.DefaultBatchLocation
		if item.Location != nil && *item.Location != "" {
			location = *item.Location
		}
		products[i] = p
		batches[i] = &model.InventoryBatch{
			ID:                uuid.New(),
			ProductID:         p.ID,
			VendorID:          vendorID,
			BatchNumber:       blankToNil(item.BatchNumber),
			Quantity:          item.Quantity,
			RemainingQuantity: item.Quantity,
			PurchasePrice:     item.PurchasePrice,
			PurchasedAt:       now,
			ExpiryDate:        expiry,
			Location:          &location,
		}
	}

	purchaseID := uuid.New()
	err = runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		for _, b := range batches {
			if err := s.receiveTx(tx, b, purchaseID, refTypePurchase, req.Notes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fromRepo(err, "purchase")
	}

	s.InvalidateProducts(ctx, products...)
	out := make([]dto.BatchResponse, 0, len(batches))
	for i, b := range batches {
		b.Product = products[i]
		out = append(out, batchResponse(b))
	}
	log.Info().
		Str("purchase_id", purchaseID.String()).
		Str("vendor_id", req.VendorID).
		Int("batches", len(batches)).
		Msg("purchase recorded")
	return out, nil
}

// receiveTx inserts a batch and its purchase movement.
func (s *inventoryService) receiveTx(tx *gorm.DB, b *model.InventoryBatch, ref uuid.UUID, refType string, notes *string) error {
	if err := s.batches.CreateTx(tx, b); err != nil {
		return err
	}
	batchID := b.ID
	return s.movements.CreateTx(tx, &model.StockMovement{
		ProductID:     b.ProductID,
		BatchID:       &batchID,
		MovementType:  model.MovementPurchase,
		Quantity:      b.Quantity,
		ReferenceID:   &ref,
		ReferenceType: &refType,
		Notes:         notes,
	})
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *inventoryService) ListBatches(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.batches.ListWithProduct(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		out = append(out, batchResponse(&batches[i]))
	}
	return out, nil
}

// StockSummary aggregates all batches per product. The unfiltered summary is
// cached under the current stock generation until the next batch mutation
// bumps it or the TTL runs out.
func (s *inventoryService) StockSummary(ctx context.Context, filter dto.StockSummaryFilter) ([]dto.StockSummaryResponse, error) {
	summaries, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" {
		summaries = calc.FilterByStatus(summaries, calc.StockStatus(filter.Status))
	}
	if filter.Sort == "name" {
		sorted := make([]calc.StockSummary, len(summaries))
		copy(sorted, summaries)
		calc.SortByProductName(sorted)
		summaries = sorted
	}
	return toSummaryResponses(summaries), nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.StockSummaryResponse, error) {
	summaries, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	alerts := calc.FilterByStatus(summaries, calc.StatusLowStock, calc.StatusOutOfStock)
	return toSummaryResponses(alerts), nil
}

func (s *inventoryService) summaries(ctx context.Context) ([]calc.StockSummary, error) {
	// The generation is read before the batches: a write that lands while
	// they are loading bumps it, and this fill goes to a key nobody reads.
	gen, cacheable := s.cache.Generation(ctx, repository.StockGenerationKey)
	var cached []calc.StockSummary
	if cacheable && s.cache.GetJSON(ctx, repository.StockSummaryKey(gen), &cached) {
		return cached, nil
	}

	batches, err := s.batches.ListWithProduct(ctx)
	if err != nil {
		return nil, err
	}
	summaries := calc.SummarizeStock(toCalcBatches(batches))
	if cacheable {
		s.cache.SetJSON(ctx, repository.StockSummaryKey(gen), summaries, s.cacheTTL)
	}
	return summaries, nil
}

func (s *inventoryService) Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	f := repository.MovementFilter{
		MovementType: filter.MovementType,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}
	if filter.ProductID != "" {
		id, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, newError(ErrInvalid, "product_id is not a valid id")
		}
		f.ProductID = &id
	}

	rows, total, err := s.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(rows))
	for i := range rows {
		data = append(data, movementResponse(&rows[i]))
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── FIFO consumption ──────────────────────────────────────────────────────────

func (s *inventoryService) ConsumeTx(tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal, ref uuid.UUID, refType string) ([]calc.Allocation, error) {
	rows, err := s.batches.LotsForProductTx(tx, productID)
	if err != nil {
		return nil, err
	}
	lots := make([]calc.Lot, 0, len(rows))
	for _, b := range rows {
		lots = append(lots, calc.Lot{BatchID: b.ID.String(), PurchasedAt: b.PurchasedAt, Remaining: b.RemainingQuantity})
	}

	allocations, err := calc.AllocateFIFO(lots, qty)
	if errors.Is(err, calc.ErrInsufficientStock) {
		return nil, newError(ErrConflict, "insufficient stock for product %s", productID)
	}
	if err != nil {
		return nil, err
	}

	for _, a := range allocations {
		batchID, err := uuid.Parse(a.BatchID)
		if err != nil {
			return nil, fmt.Errorf("allocation batch id: %w", err)
		}
		if err := s.batches.DecrementTx(tx, batchID, a.Quantity); err != nil {
			if errors.Is(err, repository.ErrBatchExhausted) {
				return nil, newError(ErrConflict, "insufficient stock for product %s", productID)
			}
			return nil, err
		}
		if err := s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:     productID,
			BatchID:       &batchID,
			MovementType:  model.MovementSale,
			Quantity:      a.Quantity.Neg(),
			ReferenceID:   &ref,
			ReferenceType: &refType,
		}); err != nil {
			return nil, err
		}
	}
	return allocations, nil
}

func (s *inventoryService) InvalidateStock(ctx context.Context) {
	s.cache.Bump(ctx, repository.StockGenerationKey)
}

func (s *inventoryService) InvalidateProducts(ctx context.Context, products ...*model.Product) {
	s.InvalidateStock(ctx)
	barcodes := make([]*string, 0, len(products))
	for _, p := range products {
		if p != nil {
			barcodes = append(barcodes, p.Barcode)
		}
	}
	s.cache.Delete(ctx, priceKeys(barcodes...)...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// checkBatchAmounts keeps batch quantities and costs at storage scale, so
// FIFO consumption never works on digits the database would drop.
func checkBatchAmounts(prefix string, qty, price decimal.Decimal) error {
	switch {
	case !qty.IsPositive():
		return newError(ErrInvalid, "%squantity must be greater than 0", prefix)
	case !calc.FitsPlaces(qty, calc.QuantityPlaces):
		return newError(ErrInvalid, "%squantity must have at most %d decimal places", prefix, calc.QuantityPlaces)
	case price.IsNegative():
		return newError(ErrInvalid, "%spurchase_price must not be negative", prefix)
	case !calc.FitsPlaces(price, calc.MoneyPlaces):
		return newError(ErrInvalid, "%spurchase_price must have at most %d decimal places", prefix, calc.MoneyPlaces)
	}
	return nil
}

func (s *inventoryService) activeProduct(ctx context.Context, raw string) (*model.Product, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, newError(ErrInvalid, "product_id is not a valid id")
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	if !p.IsActive {
		return nil, newError(ErrInvalid, "product %q is inactive", p.Name)
	}
	return p, nil
}

func (s *inventoryService) resolveVendor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	id, err := parseUUIDPtr(raw)
	if err != nil {
		return nil, newError(ErrInvalid, "vendor_id is not a valid id")
	}
	if id == nil {
		return nil, nil
	}
	if _, err := s.vendors.FindByID(ctx, *id); err != nil {
		return nil, fromRepo(err, "vendor")
	}
	return id, nil
}

func toSummaryResponses(summaries []calc.StockSummary) []dto.StockSummaryResponse {
	out := make([]dto.StockSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, stockSummaryResponse(s))
	}
	return out
}
