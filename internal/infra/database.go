package infra

import (
	"time"

	"dukapos/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection, migrates the schema and applies
// the constraint patches the ORM cannot express.
func NewDatabase(databaseURL string, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
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
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.Shift{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.SupplierPayment{},
		&model.Expense{},
		&model.Settings{},
	); err != nil {
		return nil, err
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database ready")
	return db, nil
}

// applySchemaPatches runs idempotent DDL for constraints AutoMigrate does not
// cover. Each statement is safe to re-run on every boot.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// pgcrypto provides gen_random_uuid() for primary key defaults.
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		// At most one open shift, enforced in the store itself.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_single_open
		   ON shifts ((true)) WHERE NOT closed`,

		// Stock can never be negative regardless of application bugs.
		`DO $$ BEGIN
		   ALTER TABLE products ADD CONSTRAINT chk_products_stock_nonnegative
		     CHECK (stock_quantity >= 0);
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		// Products referenced by sale lines cannot be deleted.
		`DO $$ BEGIN
		   ALTER TABLE sale_items ADD CONSTRAINT fk_sale_items_product
		     FOREIGN KEY (product_id) REFERENCES products (id) ON DELETE RESTRICT;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		// Sale lines go away with their sale (voids hard-delete both, but the
		// cascade keeps a failed half-delete from leaking orphans).
		`DO $$ BEGIN
		   ALTER TABLE sale_items ADD CONSTRAINT fk_sale_items_sale
		     FOREIGN KEY (sale_id) REFERENCES sales (id) ON DELETE CASCADE;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		`CREATE INDEX IF NOT EXISTS idx_sales_needs_reconciliation
		   ON sales (created_at) WHERE status = 'needs_reconciliation'`,

		// One settlement decrement per sale/product pair; the resume path
		// relies on this for idempotence.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_movements_sale_once
		   ON stock_movements (reference_id, product_id) WHERE type = 'sale'`,
	}

	for _, patch := range patches {
		if err := db.Exec(patch).Error; err != nil {
			return err
		}
	}
	return nil
}
