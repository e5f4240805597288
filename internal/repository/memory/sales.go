package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleRepository struct {
	*view
}

// withNames fills the display names the way the SQL join does.
func (r *saleRepository) withNames(s domain.Sale) *domain.Sale {
	s.CustomerName = r.store.data.customers[s.CustomerID].Name
	s.SellerName = r.store.data.sellers[s.SellerID].Name
	s.ProductName = r.store.data.products[s.ProductID].Name
	return &s
}

func (r *saleRepository) Create(_ context.Context, sale *domain.Sale) error {
	defer r.guard()()

	d := r.store.data
	if _, ok := d.sales[sale.ID]; ok {
		return fmt.Errorf("failed to create sale: %w", domain.ErrDuplicate)
	}
	if _, ok := d.customers[sale.CustomerID]; !ok {
		return fmt.Errorf("failed to create sale: unknown customer %s", sale.CustomerID)
	}
	if _, ok := d.sellers[sale.SellerID]; !ok {
		return fmt.Errorf("failed to create sale: unknown seller %s", sale.SellerID)
	}
	if _, ok := d.products[sale.ProductID]; !ok {
		return fmt.Errorf("failed to create sale: unknown product %s", sale.ProductID)
	}

	stored := *sale
	stored.CustomerName, stored.SellerName, stored.ProductName = "", "", ""
	d.sales[sale.ID] = stored
	return nil
}

func (r *saleRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Sale, error) {
	defer r.guard()()

	s, ok := r.store.data.sales[id]
	if !ok {
		return nil, domain.NewNotFound("sale", id.String())
	}
	return r.withNames(s), nil
}

func (r *saleRepository) List(_ context.Context, pageNum, pageSize int) ([]*domain.Sale, int, error) {
	defer r.guard()()

	all := make([]*domain.Sale, 0, len(r.store.data.sales))
	for _, s := range r.store.data.sales {
		all = append(all, r.withNames(s))
	}
	slices.SortFunc(all, func(a, b *domain.Sale) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return page(all, pageNum, pageSize), len(all), nil
}

func (r *saleRepository) TopSellers(_ context.Context, limit int) ([]domain.ProductSales, error) {
	defer r.guard()()

	byProduct := map[uuid.UUID]*domain.ProductSales{}
	for _, s := range r.store.data.sales {
		ps, ok := byProduct[s.ProductID]
		if !ok {
			ps = &domain.ProductSales{
				ProductID:   s.ProductID,
				ProductName: r.store.data.products[s.ProductID].Name,
				Revenue:     decimal.Zero,
			}
			byProduct[s.ProductID] = ps
		}
		ps.QuantitySold += s.Quantity
		ps.Revenue = ps.Revenue.Add(s.Total)
	}

	result := make([]domain.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		result = append(result, *ps)
	}
	slices.SortFunc(result, func(a, b domain.ProductSales) int {
		if c := cmp.Compare(b.QuantitySold, a.QuantitySold); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductName, b.ProductName)
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *saleRepository) Consumption(_ context.Context, productID *uuid.UUID) ([]domain.Consumption, error) {
	defer r.guard()()

	byProduct := map[uuid.UUID]*domain.Consumption{}
	for _, s := range r.store.data.sales {
		if productID != nil && s.ProductID != *productID {
			continue
		}
		c, ok := byProduct[s.ProductID]
		if !ok {
			c = &domain.Consumption{
				ProductID:   s.ProductID,
				ProductName: r.store.data.products[s.ProductID].Name,
				FirstSaleAt: s.CreatedAt,
				LastSaleAt:  s.CreatedAt,
			}
			byProduct[s.ProductID] = c
		}
		c.SalesCount++
		c.TotalQuantity += s.Quantity
		if s.CreatedAt.Before(c.FirstSaleAt) {
			c.FirstSaleAt = s.CreatedAt
		}
		if s.CreatedAt.After(c.LastSaleAt) {
			c.LastSaleAt = s.CreatedAt
		}
	}

	result := make([]domain.Consumption, 0, len(byProduct))
	for _, c := range byProduct {
		c.AverageQuantity = domain.AverageQuantity(c.TotalQuantity, c.SalesCount)
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b domain.Consumption) int {
		return cmp.Compare(a.ProductName, b.ProductName)
	})
	return result, nil
}

func (r *saleRepository) ProductsByCustomer(_ context.Context, customerID uuid.UUID) ([]domain.CustomerProduct, error) {
	defer r.guard()()

	byProduct := map[uuid.UUID]*domain.CustomerProduct{}
	for _, s := range r.store.data.sales {
		if s.CustomerID != customerID {
			continue
		}
		cp, ok := byProduct[s.ProductID]
		if !ok {
			cp = &domain.CustomerProduct{
				ProductID:   s.ProductID,
				ProductName: r.store.data.products[s.ProductID].Name,
				Spent:       decimal.Zero,
			}
			byProduct[s.ProductID] = cp
		}
		cp.Quantity += s.Quantity
		cp.Spent = cp.Spent.Add(s.Total)
		cp.Purchases++
	}

	result := make([]domain.CustomerProduct, 0, len(byProduct))
	for _, cp := range byProduct {
		result = append(result, *cp)
	}
	slices.SortFunc(result, func(a, b domain.CustomerProduct) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductName, b.ProductName)
	})
	return result, nil
}
