// cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(ctx context.Context) (*sql.DB, error) {
	db, ok := ctx.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("no database connection in context")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize and seed the stock balancer database",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the database schema and the default store set",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runInit,
			},
			{
				Name:  "products",
				Usage: "Load the product catalog from a CSV file (replace-all)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Usage: "Products CSV path", Required: true},
				},
				Before: initDB,
				After:  closeDB,
				Action: runLoadProducts,
			},
			{
				Name:  "stock",
				Usage: "Load stock levels from a CSV file (replace-all)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Usage: "Stock CSV path", Required: true},
				},
				Before: initDB,
				After:  closeDB,
				Action: runLoadStock,
			},
			{
				Name:  "sales",
				Usage: "Append sale events from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Usage: "Sales CSV path", Required: true},
				},
				Before: initDB,
				After:  closeDB,
				Action: runLoadSales,
			},
			{
				Name:  "demo",
				Usage: "Generate randomized demo products, stock and sales",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "days", Usage: "Days of sales history to generate", Value: 30},
					&cli.Int64Flag{Name: "rng-seed", Usage: "Random seed (0 uses the current time)"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
