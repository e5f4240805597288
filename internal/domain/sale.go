package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an immutable record of one completed sale. UnitPrice is the
// product price captured when stock was reserved; Total is derived from it
// once and never recomputed.
type Sale struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerID   uuid.UUID       `json:"customer_id" db:"customer_id"`
	SellerID     uuid.UUID       `json:"seller_id" db:"seller_id"`
	ProductID    uuid.UUID       `json:"product_id" db:"product_id"`
	CustomerName string          `json:"customer_name" db:"customer_name"`
	SellerName   string          `json:"seller_name" db:"seller_name"`
	ProductName  string          `json:"product_name" db:"product_name"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	Total        decimal.Decimal `json:"total" db:"total"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
