package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RunningBalance is one cell of the dense (customer, currency, day) grid.
// Balance is invalid before the pair's first transaction. MeanPrice and
// NotionalBalance are nil when unknown.
type RunningBalance struct {
	CustomerID      string              `json:"customer_id"`
	Date            civil.Date          `json:"date"`
	Cryptocurrency  Cryptocurrency      `json:"cryptocurrency"`
	Balance         decimal.NullDecimal `json:"balance"`
	MeanPrice       *float64            `json:"mean_price"`
	NotionalBalance *float64            `json:"notional_balance"`
}
