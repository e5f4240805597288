package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

// ReportOptions tunes report generation.
type ReportOptions struct {
	LowStockThreshold int
	LowStockLimit     int
	TopSellersLimit   int
}

// DefaultReportOptions mirrors the configuration defaults.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{LowStockThreshold: 30, LowStockLimit: 5, TopSellersLimit: 10}
}

// ReportService generates reports and stores them, one row per key.
// Generation only reads sales and products.
type ReportService interface {
	LowStock(ctx context.Context) (*domain.Report, error)
	AverageConsumption(ctx context.Context, productRef string) (*domain.Report, error)
	TopSellers(ctx context.Context) (*domain.Report, error)
	CustomerProducts(ctx context.Context, customerRef string) (*domain.Report, error)
	List(ctx context.Context) ([]*domain.Report, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reportService struct {
	store repository.Store
	opts  ReportOptions
	now   func() time.Time
}

// NewReportService creates a new instance of ReportService
func NewReportService(store repository.Store, opts ReportOptions) ReportService {
	return &reportService{
		store: store,
		opts:  opts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) LowStock(ctx context.Context) (*domain.Report, error) {
	products, err := s.store.Products().ListBelowStock(ctx, s.opts.LowStockThreshold, s.opts.LowStockLimit)
	if err != nil {
		return nil, domain.Persistence("low stock report", err)
	}

	name := fmt.Sprintf("Products with stock below %d", s.opts.LowStockThreshold)
	return s.save(ctx, domain.ReportLowStock, "", name, stockLevels(products))
}

// AverageConsumption covers every product when productRef is empty.
func (s *reportService) AverageConsumption(ctx context.Context, productRef string) (*domain.Report, error) {
	var (
		productID *uuid.UUID
		scope     string
		name      = "Average consumption per product"
	)
	if productRef != "" {
		product, err := NewResolver(s.store).Product(ctx, productRef)
		if err != nil {
			return nil, domain.Persistence("average consumption report", err)
		}
		productID = &product.ID
		scope = product.ID.String()
		name = "Average consumption of " + product.Name
	}

	rows, err := s.store.Sales().Consumption(ctx, productID)
	if err != nil {
		return nil, domain.Persistence("average consumption report", err)
	}

	return s.save(ctx, domain.ReportAverageConsumption, scope, name, rows)
}

func (s *reportService) TopSellers(ctx context.Context) (*domain.Report, error) {
	rows, err := s.store.Sales().TopSellers(ctx, s.opts.TopSellersLimit)
	if err != nil {
		return nil, domain.Persistence("top sellers report", err)
	}

	name := fmt.Sprintf("Top %d products by quantity sold", s.opts.TopSellersLimit)
	return s.save(ctx, domain.ReportTopSellers, "", name, rows)
}

func (s *reportService) CustomerProducts(ctx context.Context, customerRef string) (*domain.Report, error) {
	customer, err := NewResolver(s.store).Customer(ctx, customerRef)
	if err != nil {
		return nil, domain.Persistence("customer products report", err)
	}

	rows, err := s.store.Sales().ProductsByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, domain.Persistence("customer products report", err)
	}

	name := "Products bought by " + customer.Name
	return s.save(ctx, domain.ReportCustomerProducts, customer.ID.String(), name, rows)
}

func (s *reportService) save(ctx context.Context, t domain.ReportType, scope, name string, rows any) (*domain.Report, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s report: %w", t, err)
	}

	now := s.now()
	report := &domain.Report{
		ID:        uuid.New(),
		Key:       domain.ReportKey(t, scope),
		Type:      t,
		Name:      name,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Reports().Upsert(ctx, report); err != nil {
		return nil, domain.Persistence("save report", err)
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context) ([]*domain.Report, error) {
	reports, err := s.store.Reports().List(ctx)
	if err != nil {
		return nil, domain.Persistence("list reports", err)
	}
	return reports, nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	report, err := s.store.Reports().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get report", err)
	}
	return report, nil
}

func (s *reportService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Reports().Delete(ctx, id); err != nil {
		return domain.Persistence("delete report", err)
	}
	return nil
}
