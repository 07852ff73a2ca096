package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
//
// AUTOINCREMENT primary keys are the public numeric ids; sqlite hands them
// out atomically, so concurrent inserts never collide. Cross-table numeric
// references (properties.location_id, favorites.property_id,
// leases.property_id, leases.tenant_cognito_id) deliberately carry no
// foreign-key constraint: they may dangle, and readers resolve them
// tolerantly.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		cognito_id   TEXT    NOT NULL UNIQUE,
		role         TEXT    NOT NULL,
		name         TEXT    NOT NULL,
		email        TEXT    NOT NULL,
		phone_number TEXT    NOT NULL DEFAULT '',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		account_id  INTEGER NOT NULL,
		property_id INTEGER NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		address     TEXT    NOT NULL,
		city        TEXT    NOT NULL,
		state       TEXT    NOT NULL DEFAULT '',
		country     TEXT    NOT NULL DEFAULT '',
		postal_code TEXT    NOT NULL DEFAULT '',
		coordinates TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		location_id        INTEGER NOT NULL,
		manager_cognito_id TEXT    NOT NULL DEFAULT '',
		name               TEXT    NOT NULL,
		description        TEXT    NOT NULL DEFAULT '',
		property_type      TEXT,
		beds               REAL,
		baths              REAL,
		square_feet        INTEGER,
		price_per_month    REAL    NOT NULL,
		security_deposit   REAL,
		application_fee    REAL,
		created_at         DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leases (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id       INTEGER NOT NULL,
		tenant_cognito_id TEXT    NOT NULL,
		start_date        DATETIME NOT NULL,
		end_date          DATETIME NOT NULL,
		rent              REAL    NOT NULL,
		deposit           REAL    NOT NULL,
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leases_property ON leases(property_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leases_tenant ON leases(tenant_cognito_id)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_manager ON properties(manager_cognito_id)`,
}

// migrate runs all migrations in order.
func migrate(conn *sql.DB) error {
	for i, m := range migrations {
		if _, err := conn.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
