// Package ledger owns product on-hand quantities. Every stock change in the
// service goes through a Ledger; nothing else writes the stock column.
package ledger

import (
	"context"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
)

// StockStore performs the atomic primitives the ledger relies on.
// DecrementStock must check and subtract as one indivisible step and return
// *domain.InsufficientStockError without writing when stock is short.
type StockStore interface {
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error)
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error)
}

// Ledger validates quantities and delegates to a StockStore.
type Ledger struct {
	store StockStore
}

// New returns a Ledger over store. Inside a unit of work pass the
// transaction-bound product repository.
func New(store StockStore) *Ledger {
	return &Ledger{store: store}
}

// Reserve takes quantity out of stock for a sale. The returned product is
// the row as it stood right after the decrement, price included.
func (l *Ledger) Reserve(ctx context.Context, productID uuid.UUID, quantity int) (*domain.Product, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return l.store.DecrementStock(ctx, productID, quantity)
}

// Restock adds quantity. A result above domain.MaxStock is refused with a
// StockLimitError and leaves stock unchanged.
func (l *Ledger) Restock(ctx context.Context, productID uuid.UUID, quantity int) (*domain.Product, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return l.store.IncrementStock(ctx, productID, quantity)
}

// Release takes quantity out of stock when a purchase order is cancelled.
// It shares Reserve's floor-at-zero guarantee.
func (l *Ledger) Release(ctx context.Context, productID uuid.UUID, quantity int) (*domain.Product, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return l.store.DecrementStock(ctx, productID, quantity)
}
