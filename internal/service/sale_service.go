package service

import (
	"context"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/ledger"
	"sales-inventory/internal/pricing"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

// CreateSaleInput identifies the parties and product of a sale by name, id
// or national id.
type CreateSaleInput struct {
	CustomerRef string
	SellerRef   string
	ProductRef  string
	Quantity    int
}

// SaleService defines the interface for the sale workflow
type SaleService interface {
	CreateSale(ctx context.Context, in CreateSaleInput) (*domain.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	ListSales(ctx context.Context, page, pageSize int) ([]*domain.Sale, int, error)
}

type saleService struct {
	store repository.Store
	now   func() time.Time
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(store repository.Store) SaleService {
	return &saleService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateSale records one sale. Resolution, the stock reservation and the
// insert share a single unit of work: a failure at any step leaves neither
// a sale row nor a stock change behind.
func (s *saleService) CreateSale(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	var sale *domain.Sale

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		resolve := NewResolver(repos)

		customer, err := resolve.Customer(ctx, in.CustomerRef)
		if err != nil {
			return err
		}
		seller, err := resolve.Seller(ctx, in.SellerRef)
		if err != nil {
			return err
		}
		product, err := resolve.Product(ctx, in.ProductRef)
		if err != nil {
			return err
		}
		if err := domain.ValidateQuantity(in.Quantity); err != nil {
			return err
		}

		// The price is read from the row the decrement returned.
		reserved, err := ledger.New(repos.Products()).Reserve(ctx, product.ID, in.Quantity)
		if err != nil {
			return err
		}

		sale = &domain.Sale{
			ID:           uuid.New(),
			CustomerID:   customer.ID,
			SellerID:     seller.ID,
			ProductID:    reserved.ID,
			CustomerName: customer.Name,
			SellerName:   seller.Name,
			ProductName:  reserved.Name,
			Quantity:     in.Quantity,
			UnitPrice:    reserved.Price,
			Total:        pricing.ComputeTotal(reserved.Price, in.Quantity),
			CreatedAt:    s.now(),
		}
		return repos.Sales().Create(ctx, sale)
	})
	if err != nil {
		return nil, domain.Persistence("create sale", err)
	}

	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, err := s.store.Sales().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get sale", err)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, page, pageSize int) ([]*domain.Sale, int, error) {
	sales, total, err := s.store.Sales().List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, domain.Persistence("list sales", err)
	}
	return sales, total, nil
}
