package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── cache ─────────────────────────────────────────────────────────────────────

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gens    map[string]int64
	deletes []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}, gens: map[string]int64{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := json.Marshal(v)
	c.data[key] = b
}

func (c *memCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
}

func (c *memCache) Generation(_ context.Context, key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key], true
}

func (c *memCache) Bump(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
}

func (c *memCache) generation(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// ── products ──────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	items map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{items: map[uuid.UUID]*model.Product{}}
	for _, p := range products {
		r.items[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	for _, other := range r.items {
		if p.Barcode != nil && other.Barcode != nil && *p.Barcode == *other.Barcode {
			return repository.ErrDuplicate
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.items[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if p, ok := r.items[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.items {
		if p.Barcode != nil && *p.Barcode == barcode && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.items {
		if filter.Active != "all" && !p.IsActive {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	return r.Update(context.Background(), p)
}

func (r *stubProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── categories ────────────────────────────────────────────────────────────────

type stubCategoryRepo struct {
	items map[uuid.UUID]*model.Category
}

func newStubCategoryRepo(cats ...*model.Category) *stubCategoryRepo {
	r := &stubCategoryRepo{items: map[uuid.UUID]*model.Category{}}
	for _, c := range cats {
		r.items[c.ID] = c
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	c.ID = uuid.New()
	r.items[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.items {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubCategoryRepo) List(_ context.Context, includeInactive bool) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.items {
		if includeInactive || c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

// ── price history ─────────────────────────────────────────────────────────────

type stubPriceHistoryRepo struct {
	rows []model.PriceHistory
}

func (r *stubPriceHistoryRepo) CreateTx(_ *gorm.DB, h *model.PriceHistory) error {
	h.ID = uuid.New()
	r.rows = append(r.rows, *h)
	return nil
}

func (r *stubPriceHistoryRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]model.PriceHistory, int64, error) {
	var out []model.PriceHistory
	for _, h := range r.rows {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

// ── batches ───────────────────────────────────────────────────────────────────

type stubBatchRepo struct {
	batches  []*model.InventoryBatch
	products *stubProductRepo
	lists    int
	// onList runs after the batches are read, before they are returned.
	onList func()
}

func (r *stubBatchRepo) CreateTx(_ *gorm.DB, b *model.InventoryBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	cp.Product = nil
	r.batches = append(r.batches, &cp)
	return nil
}

func (r *stubBatchRepo) ListWithProduct(_ context.Context) ([]model.InventoryBatch, error) {
	r.lists++
	out := make([]model.InventoryBatch, 0, len(r.batches))
	for _, b := range r.batches {
		cp := *b
		if r.products != nil {
			if p, ok := r.products.items[b.ProductID]; ok {
				cp.Product = p
			}
		}
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	if r.onList != nil {
		r.onList()
	}
	return out, nil
}

func (r *stubBatchRepo) LotsForProductTx(_ *gorm.DB, productID uuid.UUID) ([]model.InventoryBatch, error) {
	var out []model.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.RemainingQuantity.IsPositive() {
			out = append(out, *b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out, nil
}

func (r *stubBatchRepo) StockForProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.batches {
		if b.ProductID == productID {
			total = total.Add(b.RemainingQuantity)
		}
	}
	return total, nil
}

func (r *stubBatchRepo) DecrementTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	for _, b := range r.batches {
		if b.ID == id {
			if b.RemainingQuantity.LessThan(qty) {
				return repository.ErrBatchExhausted
			}
			b.RemainingQuantity = b.RemainingQuantity.Sub(qty)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

// ── movements ─────────────────────────────────────────────────────────────────

type stubMovementRepo struct {
	rows []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	r.rows = append(r.rows, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.rows {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// ── vendors & customers ───────────────────────────────────────────────────────

type stubVendorRepo struct {
	items map[uuid.UUID]*model.Vendor
}

func newStubVendorRepo(vendors ...*model.Vendor) *stubVendorRepo {
	r := &stubVendorRepo{items: map[uuid.UUID]*model.Vendor{}}
	for _, v := range vendors {
		r.items[v.ID] = v
	}
	return r
}

func (r *stubVendorRepo) Create(_ context.Context, v *model.Vendor) error {
	v.ID = uuid.New()
	r.items[v.ID] = v
	return nil
}

func (r *stubVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVendorRepo) List(_ context.Context, includeInactive bool) ([]model.Vendor, error) {
	var out []model.Vendor
	for _, v := range r.items {
		if includeInactive || v.IsActive {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVendorRepo) Update(_ context.Context, v *model.Vendor) error {
	cp := *v
	r.items[v.ID] = &cp
	return nil
}

func (r *stubVendorRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	v, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.IsActive = active
	return nil
}

type stubCustomerRepo struct {
	items map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(customers ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{items: map[uuid.UUID]*model.Customer{}}
	for _, c := range customers {
		r.items[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	c.ID = uuid.New()
	r.items[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) Search(_ context.Context, term string, includeInactive bool) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.items {
		if !includeInactive && !c.IsActive {
			continue
		}
		phone := ""
		if c.Phone != nil {
			phone = *c.Phone
		}
		if term != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) && !strings.Contains(phone, term) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	c, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = active
	return nil
}

func (r *stubCustomerRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.items {
		if c.IsActive {
			n++
		}
	}
	return n, nil
}

// ── invoices ──────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	items    map[uuid.UUID]*model.Invoice
	products *stubProductRepo
	created  int
}

func newStubInvoiceRepo(products *stubProductRepo) *stubInvoiceRepo {
	return &stubInvoiceRepo{items: map[uuid.UUID]*model.Invoice{}, products: products}
}

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	for _, other := range r.items {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return repository.ErrDuplicate
		}
	}
	cp := *inv
	cp.Items = append([]model.InvoiceItem(nil), inv.Items...)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.items[inv.ID] = &cp
	r.created++
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *inv
	cp.Items = append([]model.InvoiceItem(nil), inv.Items...)
	for i := range cp.Items {
		if r.products != nil {
			cp.Items[i].Product = r.products.items[cp.Items[i].ProductID]
		}
	}
	cp.Payments = append([]model.Payment(nil), inv.Payments...)
	return &cp, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range r.items {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Invoice, error) {
	var out []model.Invoice
	for id, inv := range r.items {
		if inv.Status == model.InvoiceCancelled || inv.CreatedAt.Before(from) || !inv.CreatedAt.Before(to) {
			continue
		}
		full, _ := r.FindByID(ctx, id)
		out = append(out, *full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, paymentStatus *string) error {
	inv, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Status = status
	if paymentStatus != nil {
		inv.PaymentStatus = *paymentStatus
	}
	return nil
}

func (r *stubInvoiceRepo) SetPDFPath(_ context.Context, id uuid.UUID, path string) error {
	if inv, ok := r.items[id]; ok {
		inv.PDFPath = &path
	}
	return nil
}

func (r *stubInvoiceRepo) ListMissingDocument(_ context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, inv := range r.items {
		if (inv.PDFPath == nil || *inv.PDFPath == "") && inv.Status != model.InvoiceCancelled && inv.CreatedAt.Before(createdBefore) {
			ids = append(ids, id)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *stubInvoiceRepo) MarkOverdue(context.Context, time.Time) (int64, error) { return 0, nil }

func (r *stubInvoiceRepo) AddPaymentTx(_ *gorm.DB, p *model.Payment) error {
	inv, ok := r.items[p.InvoiceID]
	if !ok {
		return repository.ErrReferenced
	}
	p.ID = uuid.New()
	inv.Payments = append(inv.Payments, *p)
	return nil
}

func (r *stubInvoiceRepo) PaidTotalTx(_ *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.items[invoiceID].Payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (r *stubInvoiceRepo) SetPaymentStatusTx(_ *gorm.DB, invoiceID uuid.UUID, status string) error {
	r.items[invoiceID].PaymentStatus = status
	return nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

// ── users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	items map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{items: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		r.items[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, other := range r.items {
		if other.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	r.items[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.items {
		if u.Username == username && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.items {
		if includeInactive || u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	return nil
}

// ── collaborators ─────────────────────────────────────────────────────────────

type seqNumbers struct{ n int }

func (s *seqNumbers) Next() string {
	s.n++
	return "INV-" + decimal.NewFromInt(int64(s.n)).String()
}

type recordingQueue struct {
	ids []uuid.UUID
	err error
}

func (q *recordingQueue) EnqueueInvoiceDocument(_ context.Context, id uuid.UUID) error {
	q.ids = append(q.ids, id)
	return q.err
}

// ── fixtures ──────────────────────────────────────────────────────────────────

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProduct(name, price string, tax, min *decimal.Decimal) *model.Product {
	return &model.Product{
		ID:            uuid.New(),
		Name:          name,
		Unit:          model.UnitPcs,
		PurchasePrice: dec(price).Div(dec("2")),
		SellingPrice:  dec(price),
		TaxRate:       tax,
		MinStockLevel: min,
		IsActive:      true,
	}
}
