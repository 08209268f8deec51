// cmd/seed/demo.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/urfave/cli/v2"
)

type demoStyle struct {
	Code     string
	Name     string
	Category string
	Gender   string
	Cost     float64
	Retail   float64
}

var demoStyles = []demoStyle{
	{"RUN001", "Running Shoes Pro", "Running", "M", 50.0, 100.0},
	{"RUN002", "Trail Runner X", "Running", "U", 55.0, 110.0},
	{"CAS001", "Casual Sneakers", "Casual", "U", 45.0, 90.0},
	{"CAS002", "Street Canvas", "Casual", "F", 35.0, 75.0},
	{"FOR001", "Formal Oxford", "Formal", "M", 60.0, 130.0},
	{"BOOT01", "Chelsea Boot", "Boots", "F", 65.0, 140.0},
}

var demoSizes = []float64{7, 8, 9, 10, 11}

// runDemo seeds a randomized but plausible dataset: full catalog, patchy
// per-store stock, and a window of daily sales skewed toward popular styles.
func runDemo(c *cli.Context) error {
	db, err := dbFromContext(c.Context)
	if err != nil {
		return err
	}

	seed := c.Int64("rng-seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	days := c.Int("days")
	if days < 1 {
		days = 30
	}

	if err := runInit(c); err != nil {
		return err
	}

	storeIDs, err := listStoreIDs(c, db)
	if err != nil {
		return err
	}

	return withTx(c.Context, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(c.Context, `DELETE FROM sales`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(c.Context, `DELETE FROM stock_levels`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(c.Context, `DELETE FROM products`); err != nil {
			return err
		}

		var skus []string
		retailBySKU := make(map[string]float64)
		for _, style := range demoStyles {
			for _, size := range demoSizes {
				sku := fmt.Sprintf("%s-%g", style.Code, size)
				_, err := tx.ExecContext(c.Context, `
					INSERT INTO products (sku, style_code, style_name, category, size, gender, cost_price, retail_price)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				`, sku, style.Code, style.Name, style.Category, size, style.Gender, style.Cost, style.Retail)
				if err != nil {
					return fmt.Errorf("inserting demo product %s: %w", sku, err)
				}
				skus = append(skus, sku)
				retailBySKU[sku] = style.Retail
			}
		}

		// Roughly 70% of (store, SKU) pairs carry stock; the online channel
		// holds deeper inventory than the physical stores.
		var stockCount int
		for _, storeID := range storeIDs {
			for _, sku := range skus {
				if rng.Float64() < 0.3 {
					continue
				}
				qty := rng.Intn(11)
				if storeID == "ONLINE" {
					qty = 5 + rng.Intn(16)
				}
				_, err := tx.ExecContext(c.Context, `
					INSERT INTO stock_levels (store_id, sku, quantity) VALUES ($1, $2, $3)
				`, storeID, sku, qty)
				if err != nil {
					return fmt.Errorf("inserting demo stock %s/%s: %w", storeID, sku, err)
				}
				stockCount++
			}
		}

		salesCount := len(storeIDs) * len(skus)
		today := time.Now()
		for i := 0; i < salesCount; i++ {
			storeID := storeIDs[rng.Intn(len(storeIDs))]
			sku := skus[rng.Intn(len(skus))]
			qty := 1 + rng.Intn(3)
			date := today.AddDate(0, 0, -rng.Intn(days))
			revenue := float64(qty) * retailBySKU[sku]
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO sales (store_id, sku, sale_date, quantity, revenue)
				VALUES ($1, $2, $3, $4, $5)
			`, storeID, sku, date.Format("2006-01-02"), qty, revenue)
			if err != nil {
				return fmt.Errorf("inserting demo sale: %w", err)
			}
		}

		log.Printf("demo data generated: %d products, %d stock positions, %d sales over %d days (seed %d)",
			len(skus), stockCount, salesCount, days, seed)
		return nil
	})
}

func listStoreIDs(c *cli.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(c.Context, `SELECT store_id FROM stores WHERE is_active ORDER BY store_id`)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
