package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sales-inventory/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories gives access to every repository bound to the same
// connection or transaction.
type Repositories interface {
	Products() ProductRepository
	Customers() PartyRepository
	Sellers() PartyRepository
	Sales() SaleRepository
	Reports() ReportRepository
}

// Store is the persistence collaborator. WithTx runs fn inside one unit of
// work: if fn returns an error everything it wrote is rolled back, otherwise
// it is committed.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn func(Repositories) error) error
}

type repositories struct {
	products  ProductRepository
	customers PartyRepository
	sellers   PartyRepository
	sales     SaleRepository
	reports   ReportRepository
}

func newRepositories(db DBTX) *repositories {
	return &repositories{
		products:  NewProductRepository(db),
		customers: NewPartyRepository(db, domain.PartyCustomer),
		sellers:   NewPartyRepository(db, domain.PartySeller),
		sales:     NewSaleRepository(db),
		reports:   NewReportRepository(db),
	}
}

func (r *repositories) Products() ProductRepository { return r.products }
func (r *repositories) Customers() PartyRepository  { return r.customers }
func (r *repositories) Sellers() PartyRepository    { return r.sellers }
func (r *repositories) Sales() SaleRepository       { return r.sales }
func (r *repositories) Reports() ReportRepository   { return r.reports }

type sqlStore struct {
	*repositories
	db *sql.DB
}

// NewStore creates a Postgres-backed Store.
func NewStore(db *sql.DB) Store {
	return &sqlStore{
		repositories: newRepositories(db),
		db:           db,
	}
}

// WithTx executes fn within a database transaction.
func (s *sqlStore) WithTx(ctx context.Context, fn func(Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
