// cmd/seed/load.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/strideretail/stock-balancer/internal/importer"
)

func runLoadProducts(c *cli.Context) error {
	db, err := dbFromContext(c.Context)
	if err != nil {
		return err
	}

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open products file: %w", err)
	}
	defer f.Close()

	products, result, err := importer.ParseProducts(f)
	if err != nil {
		return err
	}
	logWarnings(result)

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(c.Context, `DELETE FROM products`); err != nil {
			return err
		}
		for _, p := range products {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO products (sku, style_code, style_name, category, size, gender, cost_price, retail_price)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, p.SKU, p.StyleCode, p.StyleName, p.Category, p.Size, p.Gender, p.CostPrice, p.RetailPrice)
			if err != nil {
				return fmt.Errorf("inserting product %s: %w", p.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("loaded %d products (%d rows skipped)", result.Loaded, result.Skipped)
	return nil
}

func runLoadStock(c *cli.Context) error {
	db, err := dbFromContext(c.Context)
	if err != nil {
		return err
	}

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open stock file: %w", err)
	}
	defer f.Close()

	positions, result, err := importer.ParseStock(f)
	if err != nil {
		return err
	}
	logWarnings(result)

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(c.Context, `DELETE FROM stock_levels`); err != nil {
			return err
		}
		for _, p := range positions {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO stock_levels (store_id, sku, quantity)
				VALUES ($1, $2, $3)
				ON CONFLICT (store_id, sku) DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = NOW()
			`, p.StoreID, p.SKU, p.Quantity)
			if err != nil {
				return fmt.Errorf("inserting stock for %s/%s: %w", p.StoreID, p.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("loaded %d stock positions (%d rows skipped)", result.Loaded, result.Skipped)
	return nil
}

func runLoadSales(c *cli.Context) error {
	db, err := dbFromContext(c.Context)
	if err != nil {
		return err
	}

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open sales file: %w", err)
	}
	defer f.Close()

	events, result, err := importer.ParseSales(f)
	if err != nil {
		return err
	}
	logWarnings(result)

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		for _, ev := range events {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO sales (store_id, sku, sale_date, quantity, revenue)
				VALUES ($1, $2, $3, $4, $5)
			`, ev.StoreID, ev.SKU, ev.SaleDate, ev.Quantity, ev.Revenue)
			if err != nil {
				return fmt.Errorf("inserting sale for %s/%s: %w", ev.StoreID, ev.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("appended %d sale events (%d rows skipped)", result.Loaded, result.Skipped)
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("warning: rollback failed: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func logWarnings(result *importer.Result) {
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
}
