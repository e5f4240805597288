package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, repo ProductRepository, price string, stock int) *domain.Product {
	t.Helper()
	now := time.Now().UTC()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      "product-" + uuid.NewString(),
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func newTestParty(t *testing.T, repo PartyRepository, name string) *domain.Party {
	t.Helper()
	now := time.Now().UTC()
	party := &domain.Party{
		ID:         uuid.New(),
		Name:       name,
		NationalID: randomNationalID(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Create(context.Background(), party))
	return party
}

func randomNationalID() string {
	n := uint64(uuid.New().ID()) % 100000000000
	s := fmt.Sprintf("%011d", n)
	return s[0:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:11]
}

func newTestSale(customer, seller *domain.Party, product *domain.Product, quantity int) *domain.Sale {
	unitPrice := product.Price
	return &domain.Sale{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		SellerID:   seller.ID,
		ProductID:  product.ID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Total:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		CreatedAt:  time.Now().UTC(),
	}
}
