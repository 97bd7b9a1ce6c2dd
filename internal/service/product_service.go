package service

import (
	"context"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const priceCacheTTL = 4 * time.Hour

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, changedBy *uuid.UUID) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	PriceHistory(ctx context.Context, id uuid.UUID, page, limit int) (*dto.PriceHistoryListResponse, error)
	// LookupPrice serves the public price check. Results are cached by barcode.
	LookupPrice(ctx context.Context, barcode string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	history    repository.PriceHistoryRepository
	batches    repository.BatchRepository
	cache      repository.Cache
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	history repository.PriceHistoryRepository,
	batches repository.BatchRepository,
	cache repository.Cache,
) ProductService {
	if cache == nil {
		cache = repository.NopCache{}
	}
	return &productService{repo: repo, categories: categories, history: history, batches: batches, cache: cache}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := checkStockLevels(req.MinStockLevel, req.MaxStockLevel); err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           blankToNil(req.SKU),
		Barcode:       blankToNil(req.Barcode),
		CategoryID:    categoryID,
		Unit:          req.Unit,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		MRP:           req.MRP,
		TaxRate:       req.TaxRate,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		HSNCode:       req.HSNCode,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fromRepo(err, "product with this sku or barcode")
	}
	resp := productResponse(p)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	resp := productResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}, nil
}

// Update applies the non-nil fields of req. A change to either price writes
// a PriceHistory row in the same transaction.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, changedBy *uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	oldBarcode := p.Barcode
	oldPurchase, oldSelling := p.PurchasePrice, p.SellingPrice

	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
		p.Category = nil
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.SKU != nil {
		p.SKU = blankToNil(req.SKU)
	}
	if req.Barcode != nil {
		p.Barcode = blankToNil(req.Barcode)
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.MRP != nil {
		p.MRP = req.MRP
	}
	if req.TaxRate != nil {
		p.TaxRate = req.TaxRate
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = req.MinStockLevel
	}
	if req.MaxStockLevel != nil {
		p.MaxStockLevel = req.MaxStockLevel
	}
	if req.HSNCode != nil {
		p.HSNCode = req.HSNCode
	}
	if err := checkStockLevels(p.MinStockLevel, p.MaxStockLevel); err != nil {
		return nil, err
	}

	priceChanged := !p.PurchasePrice.Equal(oldPurchase) || !p.SellingPrice.Equal(oldSelling)
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if !priceChanged {
			return nil
		}
		return s.history.CreateTx(tx, &model.PriceHistory{
			ProductID:           p.ID,
			PurchasePriceBefore: oldPurchase,
			PurchasePriceAfter:  p.PurchasePrice,
			SellingPriceBefore:  oldSelling,
			SellingPriceAfter:   p.SellingPrice,
			ChangedBy:           changedBy,
		})
	})
	if err != nil {
		return nil, fromRepo(err, "product with this sku or barcode")
	}

	// Name, unit, threshold and price all feed the stock summary and price lookup.
	s.cache.Delete(ctx, priceKeys(oldBarcode, p.Barcode)...)
	s.cache.Bump(ctx, repository.StockGenerationKey)

	if priceChanged {
		log.Info().
			Str("product_id", p.ID.String()).
			Str("selling_before", oldSelling.String()).
			Str("selling_after", p.SellingPrice.String()).
			Msg("product price changed")
	}

	resp := productResponse(p)
	return &resp, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *productService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fromRepo(err, "product")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return fromRepo(err, "product")
	}
	s.cache.Delete(ctx, priceKeys(p.Barcode)...)
	return nil
}

func (s *productService) PriceHistory(ctx context.Context, id uuid.UUID, page, limit int) (*dto.PriceHistoryListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, fromRepo(err, "product")
	}
	rows, total, err := s.history.ListByProduct(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PriceHistoryItem, 0, len(rows))
	for _, h := range rows {
		data = append(data, dto.PriceHistoryItem{
			ID:                  h.ID.String(),
			ProductID:           h.ProductID.String(),
			PurchasePriceBefore: h.PurchasePriceBefore,
			PurchasePriceAfter:  h.PurchasePriceAfter,
			SellingPriceBefore:  h.SellingPriceBefore,
			SellingPriceAfter:   h.SellingPriceAfter,
			ChangedBy:           uuidPtrString(h.ChangedBy),
			CreatedAt:           h.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.PriceHistoryListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *productService) LookupPrice(ctx context.Context, barcode string) (*dto.PriceLookupResponse, error) {
	key := repository.PriceKey(barcode)

	var cached dto.PriceLookupResponse
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	stock, err := s.batches.StockForProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PriceLookupResponse{
		Name:         p.Name,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		MRP:          p.MRP,
		TaxRate:      p.TaxRate,
		InStock:      stock,
	}
	s.cache.SetJSON(ctx, key, resp, priceCacheTTL)
	return resp, nil
}

func (s *productService) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	id, err := parseUUIDPtr(raw)
	if err != nil {
		return nil, newError(ErrInvalid, "category_id is not a valid id")
	}
	if id == nil {
		return nil, nil
	}
	c, err := s.categories.FindByID(ctx, *id)
	if err != nil {
		return nil, fromRepo(err, "category")
	}
	if !c.IsActive {
		return nil, newError(ErrInvalid, "category %q is inactive", c.Name)
	}
	return id, nil
}

func checkStockLevels(min, max *decimal.Decimal) error {
	if min != nil && max != nil && min.GreaterThan(*max) {
		return newError(ErrInvalid, "min_stock_level cannot exceed max_stock_level")
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func priceKeys(barcodes ...*string) []string {
	keys := make([]string, 0, len(barcodes))
	for _, b := range barcodes {
		if b != nil && *b != "" {
			keys = append(keys, repository.PriceKey(*b))
		}
	}
	return keys
}
