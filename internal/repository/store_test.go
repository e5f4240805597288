package repository

import (
	"context"
	"errors"
	"testing"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := requireDB(t)
	store := NewStore(db)
	product := newTestProduct(t, store.Products(), "4.00", 10)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(repos Repositories) error {
		if _, err := repos.Products().DecrementStock(ctx, product.ID, 4); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	current, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.Stock)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	db := requireDB(t)
	store := NewStore(db)
	customer := newTestParty(t, store.Customers(), "Carlos "+uuid.NewString())
	seller := newTestParty(t, store.Sellers(), "Alberto "+uuid.NewString())
	product := newTestProduct(t, store.Products(), "4.00", 10)

	var sale *domain.Sale
	err := store.WithTx(ctx, func(repos Repositories) error {
		reserved, err := repos.Products().DecrementStock(ctx, product.ID, 3)
		if err != nil {
			return err
		}
		sale = newTestSale(customer, seller, reserved, 3)
		return repos.Sales().Create(ctx, sale)
	})
	require.NoError(t, err)

	current, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, current.Stock)

	_, err = store.Sales().FindByID(ctx, sale.ID)
	assert.NoError(t, err)
}
