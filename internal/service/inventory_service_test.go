package service

import (
	"context"
	"testing"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/calc"
	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	svc       *inventoryService
	products  *stubProductRepo
	batches   *stubBatchRepo
	movements *stubMovementRepo
	cache     *memCache
	vendor    *model.Vendor
	rice      *model.Product
	salt      *model.Product
}

func newInventoryFixture() *inventoryFixture {
	rice := newProduct("Rice", "60", nil, ptr(dec("10")))
	rice.Barcode = ptr("8901234")
	salt := newProduct("Salt", "20", nil, nil)
	vendor := &model.Vendor{ID: uuid.New(), Name: "Metro Wholesale", IsActive: true}

	f := &inventoryFixture{
		products:  newStubProductRepo(rice, salt),
		movements: &stubMovementRepo{},
		cache:     newMemCache(),
		vendor:    vendor,
		rice:      rice,
		salt:      salt,
	}
	f.batches = &stubBatchRepo{products: f.products}
	f.svc = NewInventoryService(f.batches, f.products, newStubVendorRepo(vendor), f.movements, f.cache, time.Minute).(*inventoryService)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC) }
	return f
}

func TestAddBatch(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	f.cache.SetJSON(ctx, repository.PriceKey("8901234"), dto.PriceLookupResponse{}, time.Minute)
	vendorID := f.vendor.ID.String()

	resp, err := f.svc.AddBatch(ctx, dto.AddBatchRequest{
		ProductID:     f.rice.ID.String(),
		VendorID:      &vendorID,
		BatchNumber:   ptr("R-001"),
		Quantity:      dec("25"),
		PurchasePrice: dec("48"),
		ExpiryDate:    ptr("2026-01-31"),
	})
	require.NoError(t, err)

	assert.True(t, resp.RemainingQuantity.Equal(dec("25")))
	assert.Equal(t, "2025-03-10T11:00:00Z", resp.PurchasedAt)
	require.NotNil(t, resp.ExpiryDate)
	assert.Equal(t, "2026-01-31", *resp.ExpiryDate)
	require.NotNil(t, resp.Product)
	assert.Equal(t, "Rice", resp.Product.Name)

	require.Len(t, f.batches.batches, 1)
	require.Len(t, f.movements.rows, 1)
	assert.Equal(t, model.MovementPurchase, f.movements.rows[0].MovementType)
	assert.True(t, f.movements.rows[0].Quantity.Equal(dec("25")))

	assert.Equal(t, int64(1), f.cache.generation(repository.StockGenerationKey))
	assert.False(t, f.cache.has(repository.PriceKey("8901234")))
}

func TestAddBatch_Rejections(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()

	_, err := f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: uuid.NewString(), Quantity: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	f.salt.IsActive = false
	_, err = f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.salt.ID.String(), Quantity: dec("1")})
	assert.ErrorIs(t, err, ErrInvalid)

	unknownVendor := uuid.NewString()
	_, err = f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.rice.ID.String(), VendorID: &unknownVendor, Quantity: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.rice.ID.String(), Quantity: dec("1"), PurchasedAt: ptr("yesterday")})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.rice.ID.String(), Quantity: dec("2.0005")})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "quantity must have at most 3 decimal places")

	_, err = f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.rice.ID.String(), Quantity: dec("2"), PurchasePrice: dec("48.125")})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "purchase_price must have at most 2 decimal places")
	assert.Empty(t, f.batches.batches)
}

func TestRecordPurchase(t *testing.T) {
	f := newInventoryFixture()

	out, err := f.svc.RecordPurchase(context.Background(), dto.RecordPurchaseRequest{
		VendorID: f.vendor.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: f.rice.ID.String(), Quantity: dec("10"), PurchasePrice: dec("45")},
			{ProductID: f.salt.ID.String(), Quantity: dec("30"), PurchasePrice: dec("12"), Location: ptr("Shelf B")},
		},
		Notes: ptr("weekly restock"),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].Location)
	assert.Equal(t, model.DefaultBatchLocation, *out[0].Location)
	assert.Equal(t, "Shelf B", *out[1].Location)
	for _, b := range out {
		require.NotNil(t, b.VendorID)
		assert.Equal(t, f.vendor.ID.String(), *b.VendorID)
	}

	require.Len(t, f.movements.rows, 2)
	ref := f.movements.rows[0].ReferenceID
	require.NotNil(t, ref)
	assert.Equal(t, *ref, *f.movements.rows[1].ReferenceID, "one purchase, one reference")
	assert.Equal(t, "purchase", *f.movements.rows[0].ReferenceType)
}

func TestRecordPurchase_Rejections(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()

	_, err := f.svc.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		Items: []dto.PurchaseItemRequest{{ProductID: f.rice.ID.String(), Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.svc.RecordPurchase(ctx, dto.RecordPurchaseRequest{VendorID: f.vendor.ID.String()})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.svc.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		VendorID: f.vendor.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: f.rice.ID.String(), Quantity: dec("5")},
			{ProductID: f.salt.ID.String(), Quantity: dec("0")},
		},
	})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.svc.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		VendorID: f.vendor.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: f.rice.ID.String(), Quantity: dec("5")},
			{ProductID: f.salt.ID.String(), Quantity: dec("1.5"), PurchasePrice: dec("9.999")},
		},
	})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "items[1].purchase_price")
	assert.Empty(t, f.batches.batches, "nothing is written when one item is bad")
}

func TestStockSummary_CachedAndFiltered(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	f.batches.batches = []*model.InventoryBatch{
		{ID: uuid.New(), ProductID: f.rice.ID, RemainingQuantity: dec("4")},
		{ID: uuid.New(), ProductID: f.salt.ID, RemainingQuantity: dec("0")},
		{ID: uuid.New(), ProductID: f.rice.ID, RemainingQuantity: dec("3")},
	}

	all, err := f.svc.StockSummary(ctx, dto.StockSummaryFilter{Sort: "name"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Rice", all[0].ProductName)
	assert.True(t, all[0].TotalStock.Equal(dec("7")))
	assert.Equal(t, string(calc.StatusLowStock), all[0].Status)
	assert.Equal(t, string(calc.StatusOutOfStock), all[1].Status)

	out, err := f.svc.StockSummary(ctx, dto.StockSummaryFilter{Status: string(calc.StatusOutOfStock)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Salt", out[0].ProductName)

	alerts, err := f.svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)

	assert.Equal(t, 1, f.batches.lists, "later reads are served from cache")

	f.svc.InvalidateStock(ctx)
	_, err = f.svc.StockSummary(ctx, dto.StockSummaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.batches.lists)
}

func TestStockSummary_WriteDuringFillIsNotMasked(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	f.batches.batches = []*model.InventoryBatch{
		{ID: uuid.New(), ProductID: f.rice.ID, RemainingQuantity: dec("3")},
	}

	// A batch lands and invalidates while the summary is being built.
	f.batches.onList = func() {
		f.batches.onList = nil
		f.batches.batches = append(f.batches.batches, &model.InventoryBatch{ID: uuid.New(), ProductID: f.rice.ID, RemainingQuantity: dec("20")})
		f.svc.InvalidateStock(ctx)
	}
	first, err := f.svc.StockSummary(ctx, dto.StockSummaryFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].TotalStock.Equal(dec("3")))

	second, err := f.svc.StockSummary(ctx, dto.StockSummaryFilter{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].TotalStock.Equal(dec("23")), "stale fill must not be served, got %s", second[0].TotalStock)
	assert.Equal(t, 2, f.batches.lists)
}

func TestMovements_FilterByProduct(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	_, err := f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.rice.ID.String(), Quantity: dec("5")})
	require.NoError(t, err)
	_, err = f.svc.AddBatch(ctx, dto.AddBatchRequest{ProductID: f.salt.ID.String(), Quantity: dec("5")})
	require.NoError(t, err)

	resp, err := f.svc.Movements(ctx, dto.MovementFilter{ProductID: f.salt.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, f.salt.ID.String(), resp.Data[0].ProductID)

	_, err = f.svc.Movements(ctx, dto.MovementFilter{ProductID: "nope"})
	assert.ErrorIs(t, err, ErrInvalid)
}
