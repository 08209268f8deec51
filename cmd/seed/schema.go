// cmd/seed/schema.go
package main

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		store_id TEXT PRIMARY KEY,
		store_name TEXT NOT NULL,
		store_type TEXT NOT NULL CHECK (store_type IN ('physical', 'online')),
		location TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		sku TEXT PRIMARY KEY,
		style_code TEXT NOT NULL,
		style_name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		size NUMERIC NOT NULL DEFAULT 0,
		gender TEXT NOT NULL DEFAULT '',
		cost_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		retail_price NUMERIC(12,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS stock_levels (
		store_id TEXT NOT NULL REFERENCES stores(store_id),
		sku TEXT NOT NULL REFERENCES products(sku),
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (store_id, sku)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		sale_id BIGSERIAL PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(store_id),
		sku TEXT NOT NULL REFERENCES products(sku),
		sale_date DATE NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		revenue NUMERIC(12,2) NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (sale_date)`,
	`CREATE TABLE IF NOT EXISTS transfer_recommendations (
		id BIGSERIAL PRIMARY KEY,
		recommendation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		from_store_id TEXT NOT NULL REFERENCES stores(store_id),
		to_store_id TEXT NOT NULL REFERENCES stores(store_id),
		sku TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT NOT NULL DEFAULT '',
		CHECK (from_store_id <> to_store_id)
	)`,
}

// defaultStores is the initial store set: one online channel plus the
// physical locations.
var defaultStores = [][]interface{}{
	{"ONLINE", "Online Store", "online", "Australia"},
	{"STORE01", "Sydney CBD", "physical", "Sydney"},
	{"STORE02", "Melbourne Central", "physical", "Melbourne"},
	{"STORE03", "Brisbane Queen St", "physical", "Brisbane"},
	{"STORE04", "Perth City", "physical", "Perth"},
	{"STORE05", "Adelaide Rundle", "physical", "Adelaide"},
	{"STORE06", "Canberra Centre", "physical", "Canberra"},
	{"STORE07", "Gold Coast", "physical", "Gold Coast"},
}

func runInit(c *cli.Context) error {
	db, err := dbFromContext(c.Context)
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}

	for _, s := range defaultStores {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO stores (store_id, store_name, store_type, location, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (store_id) DO NOTHING
		`, s...)
		if err != nil {
			return fmt.Errorf("failed to insert default store %v: %w", s[0], err)
		}
	}

	log.Printf("schema initialized with %d default stores", len(defaultStores))
	return nil
}
