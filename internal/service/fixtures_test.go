package service

import (
	"context"
	"testing"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"
	"sales-inventory/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	customer *domain.Party
	seller   *domain.Party
	product  *domain.Product
}

func newFixture(t *testing.T, price string, stock int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	customer := &domain.Party{ID: uuid.New(), Name: "Jailson", NationalID: "111.222.333-44", Address: "Endereço 1", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Customers().Create(ctx, customer))

	seller := &domain.Party{ID: uuid.New(), Name: "Alberto", NationalID: "157.177.158-61", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Sellers().Create(ctx, seller))

	product := &domain.Product{ID: uuid.New(), Name: "arroz", Price: decimal.RequireFromString(price), Stock: stock, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Products().Create(ctx, product))

	return &fixture{store: store, customer: customer, seller: seller, product: product}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) saleCount(t *testing.T) int {
	t.Helper()
	_, total, err := f.store.Sales().List(context.Background(), 1, 1)
	require.NoError(t, err)
	return total
}

// failingStore makes every sale insert inside a unit of work fail.
type failingStore struct {
	*memory.Store
	err error
}

func (s *failingStore) WithTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return s.Store.WithTx(ctx, func(repos repository.Repositories) error {
		return fn(failingRepositories{Repositories: repos, err: s.err})
	})
}

type failingRepositories struct {
	repository.Repositories
	err error
}

func (r failingRepositories) Sales() repository.SaleRepository {
	return failingSales{SaleRepository: r.Repositories.Sales(), err: r.err}
}

type failingSales struct {
	repository.SaleRepository
	err error
}

func (s failingSales) Create(context.Context, *domain.Sale) error {
	return s.err
}
