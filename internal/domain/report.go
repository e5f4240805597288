package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportType tags the computation a report holds.
type ReportType string

const (
	ReportLowStock           ReportType = "low_stock"
	ReportAverageConsumption ReportType = "average_consumption"
	ReportTopSellers         ReportType = "top_sellers"
	ReportCustomerProducts   ReportType = "customer_products"
)

// Report is a cached computation. Key is unique: regenerating a report
// overwrites the previous row with the same key.
type Report struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Key       string          `json:"key" db:"key"`
	Type      ReportType      `json:"type" db:"type"`
	Name      string          `json:"name" db:"name"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ReportKey builds the upsert key for a report type and optional scope.
func ReportKey(t ReportType, scope string) string {
	if scope == "" {
		return string(t)
	}
	return string(t) + ":" + scope
}

// StockLevel is one row of the low stock report.
type StockLevel struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// Consumption summarizes how a product has been sold.
type Consumption struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SalesCount      int             `json:"sales_count"`
	TotalQuantity   int             `json:"total_quantity"`
	AverageQuantity decimal.Decimal `json:"average_quantity"`
	FirstSaleAt     time.Time       `json:"first_sale_at"`
	LastSaleAt      time.Time       `json:"last_sale_at"`
}

// ProductSales ranks a product by quantity sold.
type ProductSales struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CustomerProduct is one product a customer has bought.
type CustomerProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Spent       decimal.Decimal `json:"spent"`
	Purchases   int             `json:"purchases"`
}

// AverageQuantity divides total by count rounded to two places. A zero
// count yields zero.
func AverageQuantity(total, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).DivRound(decimal.NewFromInt(int64(count)), 2)
}
