package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *Store, name string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString("4.00"),
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func seedParty(t *testing.T, repo repository.PartyRepository, name, nationalID string) *domain.Party {
	t.Helper()
	p := &domain.Party{ID: uuid.New(), Name: name, NationalID: nationalID, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestConcurrentDecrementsNeverOverSell(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "arroz", 10)

	var (
		wg      sync.WaitGroup
		success int
		mu      sync.Mutex
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Products().DecrementStock(context.Background(), p.ID, 3); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, success)
	current, err := s.Products().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Stock)
}

func TestIncrementStockRefusesOverflow(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "arroz", domain.MaxStock-2)
	ctx := context.Background()

	updated, err := s.Products().IncrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxStock, updated.Stock)

	_, err = s.Products().IncrementStock(ctx, p.ID, domain.MaxStock)
	var limit *domain.StockLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, p.ID, limit.ProductID)
	assert.Equal(t, domain.MaxStock, limit.OnHand)

	current, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxStock, current.Stock)
	assert.Positive(t, current.Stock)
}

func TestWithTxRestoresSnapshotOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProduct(t, s, "feijão", 10)
	c := seedParty(t, s.Customers(), "Jailson", "111.222.333-44")
	v := seedParty(t, s.Sellers(), "Alberto", "157.177.158-61")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Products().DecrementStock(ctx, p.ID, 4); err != nil {
			return err
		}
		sale := &domain.Sale{
			ID: uuid.New(), CustomerID: c.ID, SellerID: v.ID, ProductID: p.ID,
			Quantity: 4, UnitPrice: p.Price, Total: decimal.RequireFromString("16.00"),
		}
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	current, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.Stock)

	sales, total, err := s.Sales().List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sales)
}

func TestSaleCreateRequiresReferences(t *testing.T) {
	s := NewStore()
	err := s.Sales().Create(context.Background(), &domain.Sale{ID: uuid.New(), Quantity: 1})
	assert.Error(t, err)
}

func TestDeleteReferencedRowsIsRefused(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProduct(t, s, "sal", 10)
	c := seedParty(t, s.Customers(), "Carlos", "555.666.777-88")
	v := seedParty(t, s.Sellers(), "Suzana", "272.852.292-26")
	require.NoError(t, s.Sales().Create(ctx, &domain.Sale{
		ID: uuid.New(), CustomerID: c.ID, SellerID: v.ID, ProductID: p.ID, Quantity: 1,
		UnitPrice: p.Price, Total: p.Price, CreatedAt: time.Now(),
	}))

	assert.ErrorIs(t, s.Products().Delete(ctx, p.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.Customers().Delete(ctx, c.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.Sellers().Delete(ctx, v.ID), domain.ErrInUse)

	sale, _, err := s.Sales().List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, sale, 1)
	assert.Equal(t, "Carlos", sale[0].CustomerName)
	assert.Equal(t, "Suzana", sale[0].SellerName)
	assert.Equal(t, "sal", sale[0].ProductName)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "Arroz", 1)
	seedParty(t, s.Customers(), "Julia", "245.898.789-08")

	dup := &domain.Product{ID: uuid.New(), Name: "arroz", Price: decimal.NewFromInt(1)}
	assert.ErrorIs(t, s.Products().Create(ctx, dup), domain.ErrDuplicate)

	other := &domain.Party{ID: uuid.New(), Name: "Other", NationalID: "245.898.789-08"}
	assert.ErrorIs(t, s.Customers().Create(ctx, other), domain.ErrDuplicate)

	// The same national id may belong to a seller.
	assert.NoError(t, s.Sellers().Create(ctx, other))
}

func TestReportUpsertKeepsOneRowPerKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first := &domain.Report{ID: uuid.New(), Key: "low_stock", Type: domain.ReportLowStock, Data: json.RawMessage(`[]`)}
	require.NoError(t, s.Reports().Upsert(ctx, first))

	second := &domain.Report{ID: uuid.New(), Key: "low_stock", Type: domain.ReportLowStock, Name: "again", Data: json.RawMessage(`[1]`)}
	require.NoError(t, s.Reports().Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := s.Reports().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "again", all[0].Name)
}

func TestProductListingAndStockQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "b", 40)
	seedProduct(t, s, "a", 5)
	seedProduct(t, s, "c", 12)

	products, total, err := s.Products().List(ctx, 1, 2, "name", repository.SortOrderAsc)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].Name)
	assert.Equal(t, "b", products[1].Name)

	low, err := s.Products().ListBelowStock(ctx, 30, 5)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].Name)
	assert.Equal(t, "c", low[1].Name)

	found, err := s.Products().FindByName(ctx, "  C ")
	require.NoError(t, err)
	assert.Equal(t, 12, found.Stock)
}
