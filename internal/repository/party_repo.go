package repository

import (
	"context"

	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Vendors ───────────────────────────────────────────────────────────────────

type VendorRepository interface {
	Create(ctx context.Context, v *model.Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	List(ctx context.Context, includeInactive bool) ([]model.Vendor, error)
	Update(ctx context.Context, v *model.Vendor) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type vendorRepo struct{ db *gorm.DB }

func NewVendorRepository(db *gorm.DB) VendorRepository { return &vendorRepo{db: db} }

func (r *vendorRepo) Create(ctx context.Context, v *model.Vendor) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *vendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var v model.Vendor
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *vendorRepo) List(ctx context.Context, includeInactive bool) ([]model.Vendor, error) {
	var vendors []model.Vendor
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	err := q.Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepo) Update(ctx context.Context, v *model.Vendor) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

func (r *vendorRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Vendor{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	// Search matches name or phone; an empty term lists everything.
	Search(ctx context.Context, term string, includeInactive bool) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	CountActive(ctx context.Context) (int64, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *customerRepo) Search(ctx context.Context, term string, includeInactive bool) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	if term != "" {
		like := "%" + term + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ?", like, like)
	}
	err := q.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *customerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("is_active = true").Count(&n).Error
	return n, err
}
