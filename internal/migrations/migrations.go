package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the inventory and billing
// backend. Statements are idempotent so Run is safe on every startup.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS medicines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0,
			expiry_date TEXT NOT NULL DEFAULT '',
			manufacturer TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS bills (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bill_date TEXT NOT NULL,
			total_amount REAL NOT NULL DEFAULT 0
		);`,
		// medicine_id deliberately carries no foreign key: medicines may be
		// deleted while bills referencing them remain.
		`CREATE TABLE IF NOT EXISTS bill_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bill_id INTEGER NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
			medicine_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			price_per_unit REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items(bill_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
