package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
)

// SaleRepository defines data access for sales. Sales are append-only.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Sale, int, error)
	TopSellers(ctx context.Context, limit int) ([]domain.ProductSales, error)
	Consumption(ctx context.Context, productID *uuid.UUID) ([]domain.Consumption, error)
	ProductsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerProduct, error)
}

const saleSelect = `
	SELECT s.id, s.customer_id, s.seller_id, s.product_id,
	       c.name, v.name, p.name,
	       s.quantity, s.unit_price, s.total, s.created_at
	FROM sales s
	JOIN customers c ON c.id = s.customer_id
	JOIN sellers v ON v.id = s.seller_id
	JOIN products p ON p.id = s.product_id
`

type saleRepository struct {
	db DBTX
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db DBTX) SaleRepository {
	return &saleRepository{db: db}
}

func scanSale(row rowScanner) (*domain.Sale, error) {
	sale := &domain.Sale{}
	err := row.Scan(
		&sale.ID,
		&sale.CustomerID,
		&sale.SellerID,
		&sale.ProductID,
		&sale.CustomerName,
		&sale.SellerName,
		&sale.ProductName,
		&sale.Quantity,
		&sale.UnitPrice,
		&sale.Total,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Create inserts a sale row. Display names are not stored.
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, seller_id, product_id, quantity, unit_price, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sale.ID,
		sale.CustomerID,
		sale.SellerID,
		sale.ProductID,
		sale.Quantity,
		sale.UnitPrice,
		sale.Total,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

// FindByID retrieves a sale with the names of the entities it references
func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, err := scanSale(r.db.QueryRowContext(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("sale", id.String())
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}
	return sale, nil
}

// List retrieves sales newest first
func (r *saleRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Sale, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	rows, err := r.db.QueryContext(
		ctx,
		saleSelect+` ORDER BY s.created_at DESC, s.id LIMIT $1 OFFSET $2`,
		pageSize,
		offset(page, pageSize),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, total, nil
}

// TopSellers ranks products by quantity sold
func (r *saleRepository) TopSellers(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	query := `
		SELECT p.id, p.name, SUM(s.quantity), SUM(s.total)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		GROUP BY p.id, p.name
		ORDER BY SUM(s.quantity) DESC, p.name ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	defer rows.Close()

	result := []domain.ProductSales{}
	for rows.Next() {
		var ps domain.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.ProductName, &ps.QuantitySold, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		result = append(result, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sales: %w", err)
	}

	return result, nil
}

// Consumption aggregates sales per product. A nil productID covers every
// product that has been sold at least once.
func (r *saleRepository) Consumption(ctx context.Context, productID *uuid.UUID) ([]domain.Consumption, error) {
	query := `
		SELECT p.id, p.name, COUNT(s.id), SUM(s.quantity), MIN(s.created_at), MAX(s.created_at)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE $1::uuid IS NULL OR s.product_id = $1::uuid
		GROUP BY p.id, p.name
		ORDER BY p.name ASC
	`

	var arg any
	if productID != nil {
		arg = *productID
	}

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate consumption: %w", err)
	}
	defer rows.Close()

	result := []domain.Consumption{}
	for rows.Next() {
		var c domain.Consumption
		err := rows.Scan(&c.ProductID, &c.ProductName, &c.SalesCount, &c.TotalQuantity, &c.FirstSaleAt, &c.LastSaleAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consumption: %w", err)
		}
		c.AverageQuantity = domain.AverageQuantity(c.TotalQuantity, c.SalesCount)
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consumption: %w", err)
	}

	return result, nil
}

// ProductsByCustomer lists what a customer has bought, largest quantity first
func (r *saleRepository) ProductsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerProduct, error) {
	query := `
		SELECT p.id, p.name, SUM(s.quantity), SUM(s.total), COUNT(s.id)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.customer_id = $1
		GROUP BY p.id, p.name
		ORDER BY SUM(s.quantity) DESC, p.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer products: %w", err)
	}
	defer rows.Close()

	result := []domain.CustomerProduct{}
	for rows.Next() {
		var cp domain.CustomerProduct
		if err := rows.Scan(&cp.ProductID, &cp.ProductName, &cp.Quantity, &cp.Spent, &cp.Purchases); err != nil {
			return nil, fmt.Errorf("failed to scan customer product: %w", err)
		}
		result = append(result, cp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer products: %w", err)
	}

	return result, nil
}
