package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedParty struct {
	name       string
	nationalID string
	address    string
}

type seedProduct struct {
	name  string
	price string
	stock int
}

var (
	seedCustomers = []seedParty{
		{"Jailson", "111.222.333-44", "Endereço 1"},
		{"Carlos", "555.666.777-88", "Endereço 2"},
		{"Roberto", "777.888.999-00", "Endereço 3"},
		{"Julia", "245.898.789-08", "Endereço 3"},
		{"Larissa", "734.848.949-40", "Endereço 4"},
	}

	seedSellers = []seedParty{
		{"Alberto", "157.177.158-61", ""},
		{"Suzana", "272.852.292-26", ""},
	}

	seedProducts = []seedProduct{
		{"feijão", "6.99", 100},
		{"arroz", "4.00", 90},
		{"macarrão", "4.49", 75},
		{"farinha", "8.99", 95},
		{"sal", "2.79", 58},
		{"açúcar", "5.99", 12},
		{"vinagre", "9.99", 24},
		{"azeite", "28.99", 48},
		{"tapioca", "4.99", 36},
		{"detergente", "2.29", 66},
	}
)

// Seed inserts the demo catalog into every empty table. Tables that already
// hold rows are left alone, so running it twice is harmless.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	for _, table := range []string{"customers", "sellers"} {
		rows := seedCustomers
		if table == "sellers" {
			rows = seedSellers
		}

		empty, err := isEmpty(ctx, tx, table)
		if err != nil {
			return err
		}
		if !empty {
			continue
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (id, name, national_id, address, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
		`, table)
		for _, p := range rows {
			address := sql.NullString{String: p.address, Valid: p.address != ""}
			if _, err := tx.ExecContext(ctx, query, uuid.New(), p.name, p.nationalID, address, now); err != nil {
				return fmt.Errorf("failed to seed %s: %w", table, err)
			}
		}
		logger.Info("Seeded table", zap.String("table", table), zap.Int("rows", len(rows)))
	}

	empty, err := isEmpty(ctx, tx, "products")
	if err != nil {
		return err
	}
	if empty {
		query := `
			INSERT INTO products (id, name, price, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
		`
		for _, p := range seedProducts {
			price := decimal.RequireFromString(p.price)
			if _, err := tx.ExecContext(ctx, query, uuid.New(), p.name, price, p.stock, now); err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
		}
		logger.Info("Seeded table", zap.String("table", "products"), zap.Int("rows", len(seedProducts)))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

func isEmpty(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s)`, table)
	if err := tx.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	return !exists, nil
}
