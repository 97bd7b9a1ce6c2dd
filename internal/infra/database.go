package infra

import (
	"fmt"

	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, then brings the
// schema up to date with RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the
// idempotent SQL patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Vendor{},
		&model.Customer{},
		&model.Product{},
		&model.InventoryBatch{},
		&model.StockMovement{},
		&model.PriceHistory{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Payment{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs DDL that GORM tags cannot describe: expression and
// partial indexes plus CHECK constraints. Every statement is guarded so
// re-running on an already-patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"unique category name ignoring case",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_lower_name ON categories (LOWER(name))`},

		{"batches still holding stock, oldest first",
			`CREATE INDEX IF NOT EXISTS idx_inventory_batches_fifo
			    ON inventory_batches (product_id, purchased_at)
			    WHERE remaining_quantity > 0`},

		{"remaining quantity bounded by received quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventory_batches_remaining') THEN
    ALTER TABLE inventory_batches
      ADD CONSTRAINT chk_inventory_batches_remaining
      CHECK (remaining_quantity >= 0 AND remaining_quantity <= quantity);
  END IF;
END $$`},

		{"non-negative invoice amounts", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_invoices_amounts') THEN
    ALTER TABLE invoices
      ADD CONSTRAINT chk_invoices_amounts
      CHECK (subtotal >= 0 AND tax_amount >= 0 AND discount_amount >= 0);
  END IF;
END $$`},

		{"positive payment amounts", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_payments_amount') THEN
    ALTER TABLE payments ADD CONSTRAINT chk_payments_amount CHECK (amount > 0);
  END IF;
END $$`},

		{"movement history per product",
			`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created
			    ON stock_movements (product_id, created_at DESC)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
