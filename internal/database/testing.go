package database

import (
	"database/sql"
	"testing"
)

// setupCatalogSchema creates the catalog tables for testing.
// This matches the production schema from migrations/001_create_catalog.sql
func setupCatalogSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema := `
		CREATE TABLE menus (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE submenus (
			id TEXT PRIMARY KEY,
			menu_id TEXT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE dishes (
			id TEXT PRIMARY KEY,
			submenu_id TEXT NOT NULL REFERENCES submenus(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL CHECK (price >= 0),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_submenus_menu_id ON submenus(menu_id);
		CREATE INDEX idx_dishes_submenu_id ON dishes(submenu_id);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create catalog schema: %v", err)
	}
}

// insertMenu inserts a test menu row with a fixed id
func insertMenu(t *testing.T, db *sql.DB, id, title, description string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO menus (id, title, description) VALUES (?, ?, ?)`,
		id, title, description)
	if err != nil {
		t.Fatalf("Failed to insert menu: %v", err)
	}
}

// insertSubmenu inserts a test submenu row with a fixed id
func insertSubmenu(t *testing.T, db *sql.DB, id, menuID, title, description string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO submenus (id, menu_id, title, description) VALUES (?, ?, ?, ?)`,
		id, menuID, title, description)
	if err != nil {
		t.Fatalf("Failed to insert submenu: %v", err)
	}
}

// insertDish inserts a test dish row with a fixed id
func insertDish(t *testing.T, db *sql.DB, id, submenuID, title, description string, price float64) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO dishes (id, submenu_id, title, description, price) VALUES (?, ?, ?, ?, ?)`,
		id, submenuID, title, description, price)
	if err != nil {
		t.Fatalf("Failed to insert dish: %v", err)
	}
}

// countRows counts the rows of a catalog table
func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
