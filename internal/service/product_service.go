package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/pricing"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const stockPageSize = 200

// ProductInput holds the fields of a new product.
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

// ProductService manages the product catalog. Stock is set once at creation
// and afterwards only moves through the ledger.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	List(ctx context.Context, name string, page, pageSize int) ([]*domain.Product, int, error)
	Get(ctx context.Context, ref string) (*domain.Product, error)
	StockLevels(ctx context.Context) ([]domain.StockLevel, error)
	Update(ctx context.Context, ref string, update domain.ProductUpdate) (*domain.Product, domain.Changes, error)
	Delete(ctx context.Context, ref string) (*domain.Product, error)
}

type productService struct {
	store repository.Store
	now   func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(store repository.Store) ProductService {
	return &productService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func validateProduct(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("product name is required: %w", domain.ErrInvalidInput)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price must be greater than zero: %w", domain.ErrInvalidInput)
	}
	if !price.Equal(pricing.NormalizePrice(price)) {
		return fmt.Errorf("price must have at most %d decimal places: %w", pricing.Places, domain.ErrInvalidInput)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateProduct(name, in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("stock must not be negative: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     pricing.NormalizePrice(in.Price),
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, domain.Persistence("create product", err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, name string, page, pageSize int) ([]*domain.Product, int, error) {
	products, total, err := s.store.Products().Search(ctx, name, page, pageSize)
	if err != nil {
		return nil, 0, domain.Persistence("list products", err)
	}
	return products, total, nil
}

func (s *productService) Get(ctx context.Context, ref string) (*domain.Product, error) {
	product, err := NewResolver(s.store).Product(ctx, ref)
	if err != nil {
		return nil, domain.Persistence("get product", err)
	}
	return product, nil
}

// StockLevels lists every product's on-hand quantity, lowest first.
func (s *productService) StockLevels(ctx context.Context) ([]domain.StockLevel, error) {
	var all []*domain.Product
	for page := 1; ; page++ {
		products, total, err := s.store.Products().List(ctx, page, stockPageSize, "stock", repository.SortOrderAsc)
		if err != nil {
			return nil, domain.Persistence("list stock", err)
		}
		all = append(all, products...)
		if len(products) == 0 || len(all) >= total {
			break
		}
	}
	return stockLevels(all), nil
}

// Update changes name and price only.
func (s *productService) Update(ctx context.Context, ref string, update domain.ProductUpdate) (*domain.Product, domain.Changes, error) {
	if update.Empty() {
		return nil, nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}

	var (
		product *domain.Product
		changes domain.Changes
	)
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		current, err := NewResolver(repos).Product(ctx, ref)
		if err != nil {
			return err
		}

		next := *current
		if update.Name != nil {
			next.Name = strings.TrimSpace(*update.Name)
		}
		if update.Price != nil {
			next.Price = *update.Price
		}
		if err := validateProduct(next.Name, next.Price); err != nil {
			return err
		}

		changes.Track("name", current.Name, next.Name)
		if !current.Price.Equal(next.Price) {
			changes.Track("price", current.Price.StringFixed(pricing.Places), next.Price.StringFixed(pricing.Places))
		}
		if len(changes) == 0 {
			product = current
			return nil
		}

		next.UpdatedAt = s.now()
		if err := repos.Products().Update(ctx, &next); err != nil {
			return err
		}
		product = &next
		return nil
	})
	if err != nil {
		return nil, nil, domain.Persistence("update product", err)
	}

	return product, changes, nil
}

func (s *productService) Delete(ctx context.Context, ref string) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		current, err := NewResolver(repos).Product(ctx, ref)
		if err != nil {
			return err
		}
		if err := repos.Products().Delete(ctx, current.ID); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, domain.Persistence("delete product", err)
	}
	return product, nil
}

func stockLevels(products []*domain.Product) []domain.StockLevel {
	levels := make([]domain.StockLevel, 0, len(products))
	for _, p := range products {
		levels = append(levels, domain.StockLevel{ProductID: p.ID, Name: p.Name, Stock: p.Stock})
	}
	return levels
}
