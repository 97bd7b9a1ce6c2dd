package repository

import (
	"context"
	"errors"

	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrBatchExhausted is returned when a decrement would take a batch below zero.
var ErrBatchExhausted = errors.New("batch has insufficient remaining quantity")

type BatchRepository interface {
	CreateTx(tx *gorm.DB, b *model.InventoryBatch) error
	// ListWithProduct returns every batch with its product, newest purchase first.
	ListWithProduct(ctx context.Context) ([]model.InventoryBatch, error)
	// LotsForProductTx returns the product's batches that still hold stock,
	// oldest purchase first, locked for update.
	LotsForProductTx(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryBatch, error)
	// StockForProduct sums remaining_quantity over the product's batches.
	StockForProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	DecrementTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error
	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) DB() *gorm.DB { return r.db }

func (r *batchRepo) CreateTx(tx *gorm.DB, b *model.InventoryBatch) error {
	return translate(tx.Omit("Product", "Vendor").Create(b).Error)
}

func (r *batchRepo) ListWithProduct(ctx context.Context) ([]model.InventoryBatch, error) {
	var batches []model.InventoryBatch
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("purchased_at DESC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) LotsForProductTx(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryBatch, error) {
	var lots []model.InventoryBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND remaining_quantity > 0", productID).
		Order("purchased_at ASC").
		Find(&lots).Error
	return lots, err
}

func (r *batchRepo) StockForProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.InventoryBatch{}).
		Select("SUM(remaining_quantity)").
		Where("product_id = ?", productID).
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

func (r *batchRepo) DecrementTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	res := tx.Model(&model.InventoryBatch{}).
		Where("id = ? AND remaining_quantity >= ?", id, qty).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", qty))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBatchExhausted
	}
	return nil
}
