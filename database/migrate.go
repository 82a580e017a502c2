package database

import (
	"fmt"

	"billing-backend/models"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2))
// - Indexes (invoice history listing, idempotency keys)
// - Basic CHECK constraints (positive quantities, non-negative amounts)
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Invoice{},
			&models.InvoiceLine{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE invoices      ALTER COLUMN subtotal   TYPE numeric(12,2)`,
			`ALTER TABLE invoices      ALTER COLUMN tax_total  TYPE numeric(12,2)`,
			`ALTER TABLE invoices      ALTER COLUMN total      TYPE numeric(12,2)`,
			`ALTER TABLE invoices      ALTER COLUMN tax_rate   TYPE numeric(6,4)`,
			`ALTER TABLE invoice_lines ALTER COLUMN unit_price TYPE numeric(12,2)`,
			`ALTER TABLE invoice_lines ALTER COLUMN amount     TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_invoices_user_created ON invoices (user_id, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_lines_invoice ON invoice_lines (invoice_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Line quantities are strictly positive; zero-quantity lines are
			// removed at the cart layer and must never reach storage.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_lines'::regclass
					  AND conname  = 'chk_invoice_lines_quantity_pos'
				) THEN
					ALTER TABLE invoice_lines
					ADD CONSTRAINT chk_invoice_lines_quantity_pos
					CHECK (quantity > 0);
				END IF;
			END $$;`,
			// Non-negative billed prices
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_lines'::regclass
					  AND conname  = 'chk_invoice_lines_unit_price_nonneg'
				) THEN
					ALTER TABLE invoice_lines
					ADD CONSTRAINT chk_invoice_lines_unit_price_nonneg
					CHECK (unit_price >= 0);
				END IF;
			END $$;`,
			// Non-negative invoice totals
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_total_nonneg'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_total_nonneg
					CHECK (total >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
