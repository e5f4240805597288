// Package memory provides an in-memory repository.Store. It honours the same
// contract as the Postgres store: conditional stock decrements are atomic and
// WithTx rolls back every write made by a failing unit of work.
package memory

import (
	"context"
	"maps"
	"sync"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

type data struct {
	products  map[uuid.UUID]domain.Product
	customers map[uuid.UUID]domain.Party
	sellers   map[uuid.UUID]domain.Party
	sales     map[uuid.UUID]domain.Sale
	reports   map[uuid.UUID]domain.Report
}

func newData() *data {
	return &data{
		products:  make(map[uuid.UUID]domain.Product),
		customers: make(map[uuid.UUID]domain.Party),
		sellers:   make(map[uuid.UUID]domain.Party),
		sales:     make(map[uuid.UUID]domain.Sale),
		reports:   make(map[uuid.UUID]domain.Report),
	}
}

func (d *data) clone() *data {
	return &data{
		products:  maps.Clone(d.products),
		customers: maps.Clone(d.customers),
		sellers:   maps.Clone(d.sellers),
		sales:     maps.Clone(d.sales),
		reports:   maps.Clone(d.reports),
	}
}

func (d *data) parties(kind domain.PartyKind) map[uuid.UUID]domain.Party {
	if kind == domain.PartySeller {
		return d.sellers
	}
	return d.customers
}

// Store is a mutex-guarded in-memory repository.Store.
type Store struct {
	mu   sync.Mutex
	data *data
	root *view
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	s := &Store{data: newData()}
	s.root = &view{store: s, locking: true}
	return s
}

func (s *Store) Products() repository.ProductRepository { return s.root.Products() }
func (s *Store) Customers() repository.PartyRepository  { return s.root.Customers() }
func (s *Store) Sellers() repository.PartyRepository    { return s.root.Sellers() }
func (s *Store) Sales() repository.SaleRepository       { return s.root.Sales() }
func (s *Store) Reports() repository.ReportRepository   { return s.root.Reports() }

// WithTx holds the store lock for the whole of fn, so units of work are
// serialized. The view handed to fn does not lock again.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&view{store: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

type view struct {
	store   *Store
	locking bool
}

func (v *view) guard() func() {
	if !v.locking {
		return func() {}
	}
	v.store.mu.Lock()
	return v.store.mu.Unlock
}

func (v *view) Products() repository.ProductRepository { return &productRepository{v} }
func (v *view) Customers() repository.PartyRepository {
	return &partyRepository{view: v, kind: domain.PartyCustomer}
}
func (v *view) Sellers() repository.PartyRepository {
	return &partyRepository{view: v, kind: domain.PartySeller}
}
func (v *view) Sales() repository.SaleRepository     { return &saleRepository{v} }
func (v *view) Reports() repository.ReportRepository { return &reportRepository{v} }

func page[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
