package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

type productRepository struct {
	*view
}

func (r *productRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, p := range r.store.data.products {
		if id != except && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) error {
	defer r.guard()()

	if _, ok := r.store.data.products[product.ID]; ok || r.nameTaken(product.Name, product.ID) {
		return fmt.Errorf("product %q: %w", product.Name, domain.ErrDuplicate)
	}
	r.store.data.products[product.ID] = *product
	return nil
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) error {
	defer r.guard()()

	current, ok := r.store.data.products[product.ID]
	if !ok {
		return domain.NewNotFound("product", product.ID.String())
	}
	if r.nameTaken(product.Name, product.ID) {
		return fmt.Errorf("product %q: %w", product.Name, domain.ErrDuplicate)
	}
	current.Name = product.Name
	current.Price = product.Price
	current.UpdatedAt = product.UpdatedAt
	r.store.data.products[product.ID] = current
	return nil
}

func (r *productRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.guard()()

	if _, ok := r.store.data.products[id]; !ok {
		return domain.NewNotFound("product", id.String())
	}
	for _, s := range r.store.data.sales {
		if s.ProductID == id {
			return fmt.Errorf("product %s: %w", id, domain.ErrInUse)
		}
	}
	delete(r.store.data.products, id)
	return nil
}

func (r *productRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	defer r.guard()()

	p, ok := r.store.data.products[id]
	if !ok {
		return nil, domain.NewNotFound("product", id.String())
	}
	return &p, nil
}

func (r *productRepository) FindByName(_ context.Context, name string) (*domain.Product, error) {
	defer r.guard()()

	trimmed := strings.TrimSpace(name)
	for _, p := range r.store.data.products {
		if strings.EqualFold(p.Name, trimmed) {
			return &p, nil
		}
	}
	return nil, domain.NewNotFound("product", name)
}

func (r *productRepository) sorted(sortBy string, order repository.SortOrder, keep func(domain.Product) bool) []*domain.Product {
	out := []*domain.Product{}
	for _, p := range r.store.data.products {
		if keep(p) {
			out = append(out, &p)
		}
	}

	compare := func(a, b *domain.Product) int {
		var c int
		switch sortBy {
		case "price":
			c = a.Price.Cmp(b.Price)
		case "stock":
			c = cmp.Compare(a.Stock, b.Stock)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = cmp.Compare(a.Name, b.Name)
		}
		if order == repository.SortOrderDesc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		return c
	}
	slices.SortFunc(out, compare)
	return out
}

func (r *productRepository) List(_ context.Context, pageNum, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	defer r.guard()()

	all := r.sorted(sortBy, sortOrder, func(domain.Product) bool { return true })
	return page(all, pageNum, pageSize), len(all), nil
}

func (r *productRepository) Search(_ context.Context, query string, pageNum, pageSize int) ([]*domain.Product, int, error) {
	defer r.guard()()

	needle := strings.ToLower(strings.TrimSpace(query))
	all := r.sorted("name", repository.SortOrderAsc, func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	return page(all, pageNum, pageSize), len(all), nil
}

func (r *productRepository) ListBelowStock(_ context.Context, threshold, limit int) ([]*domain.Product, error) {
	defer r.guard()()

	low := r.sorted("name", repository.SortOrderAsc, func(p domain.Product) bool { return p.Stock < threshold })
	slices.SortStableFunc(low, func(a, b *domain.Product) int { return cmp.Compare(a.Stock, b.Stock) })
	if limit >= 0 && len(low) > limit {
		low = low[:limit]
	}
	return low, nil
}

// DecrementStock checks and subtracts under the store lock.
func (r *productRepository) DecrementStock(_ context.Context, id uuid.UUID, quantity int) (*domain.Product, error) {
	defer r.guard()()

	p, ok := r.store.data.products[id]
	if !ok {
		return nil, domain.NewNotFound("product", id.String())
	}
	if p.Stock < quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: id,
			Product:   p.Name,
			OnHand:    p.Stock,
			Requested: quantity,
		}
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	r.store.data.products[id] = p
	return &p, nil
}

func (r *productRepository) IncrementStock(_ context.Context, id uuid.UUID, quantity int) (*domain.Product, error) {
	defer r.guard()()

	p, ok := r.store.data.products[id]
	if !ok {
		return nil, domain.NewNotFound("product", id.String())
	}
	if p.Stock > domain.MaxStock-quantity {
		return nil, &domain.StockLimitError{ProductID: id, OnHand: p.Stock, Requested: quantity}
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now().UTC()
	r.store.data.products[id] = p
	return &p, nil
}
