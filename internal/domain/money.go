package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimals money is rendered with.
const MoneyPlaces = 2

// money renders d with exactly two decimals so "20", "20.0" and "20.00"
// all encode as "20.00" regardless of the stored exponent.
func money(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price string `json:"price"`
	}{product(p), money(p.Price)})
}

func (s Sale) MarshalJSON() ([]byte, error) {
	type sale Sale
	return json.Marshal(struct {
		sale
		UnitPrice string `json:"unit_price"`
		Total     string `json:"total"`
	}{sale(s), money(s.UnitPrice), money(s.Total)})
}

func (c Consumption) MarshalJSON() ([]byte, error) {
	type consumption Consumption
	return json.Marshal(struct {
		consumption
		AverageQuantity string `json:"average_quantity"`
	}{consumption(c), money(c.AverageQuantity)})
}

func (p ProductSales) MarshalJSON() ([]byte, error) {
	type productSales ProductSales
	return json.Marshal(struct {
		productSales
		Revenue string `json:"revenue"`
	}{productSales(p), money(p.Revenue)})
}

func (c CustomerProduct) MarshalJSON() ([]byte, error) {
	type customerProduct CustomerProduct
	return json.Marshal(struct {
		customerProduct
		Spent string `json:"spent"`
	}{customerProduct(c), money(c.Spent)})
}
