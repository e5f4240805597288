package service

import (
	"context"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/ledger"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

// PurchaseOrderService adjusts stock when purchase orders arrive or are
// cancelled. It never touches sales.
type PurchaseOrderService interface {
	Receive(ctx context.Context, productRef string, quantity int) (*domain.Product, error)
	Cancel(ctx context.Context, productRef string, quantity int) (*domain.Product, error)
}

type purchaseOrderService struct {
	store repository.Store
}

// NewPurchaseOrderService creates a new instance of PurchaseOrderService
func NewPurchaseOrderService(store repository.Store) PurchaseOrderService {
	return &purchaseOrderService{store: store}
}

// Receive adds quantity to the product's stock.
func (s *purchaseOrderService) Receive(ctx context.Context, productRef string, quantity int) (*domain.Product, error) {
	return s.adjust(ctx, "receive purchase order", productRef, quantity, (*ledger.Ledger).Restock)
}

// Cancel removes quantity from stock and fails if more than the on-hand
// quantity is requested.
func (s *purchaseOrderService) Cancel(ctx context.Context, productRef string, quantity int) (*domain.Product, error) {
	return s.adjust(ctx, "cancel purchase order", productRef, quantity, (*ledger.Ledger).Release)
}

type ledgerOp func(*ledger.Ledger, context.Context, uuid.UUID, int) (*domain.Product, error)

func (s *purchaseOrderService) adjust(ctx context.Context, op, productRef string, quantity int, apply ledgerOp) (*domain.Product, error) {
	var product *domain.Product

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		resolved, err := NewResolver(repos).Product(ctx, productRef)
		if err != nil {
			return err
		}
		if err := domain.ValidateQuantity(quantity); err != nil {
			return err
		}

		product, err = apply(ledger.New(repos.Products()), ctx, resolved.ID, quantity)
		return err
	})
	if err != nil {
		return nil, domain.Persistence(op, err)
	}

	return product, nil
}
