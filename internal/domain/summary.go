package domain

import "cloud.google.com/go/civil"

// DailyActiveUsers is the count of customers with a positive notional
// balance on one day.
type DailyActiveUsers struct {
	Date civil.Date `json:"date"`
	DAU  int        `json:"dau"`
}

// WeekOverWeek is one row of the DAU trend table. Nil fields are unknown.
type WeekOverWeek struct {
	Date          civil.Date `json:"date"`
	DAU           int        `json:"dau"`
	Diff          *float64   `json:"diff"`
	WeekMovingAvg float64    `json:"wk_moving_avg"`
	WeekMin       float64    `json:"wk_min"`
	WeekMax       float64    `json:"wk_max"`
	PctDiff       *float64   `json:"pct_diff"`
}

// SummaryKey is the grain of both transaction summary tables.
type SummaryKey struct {
	Date            civil.Date      `json:"date"`
	Cryptocurrency  Cryptocurrency  `json:"cryptocurrency"`
	TransactionType TransactionType `json:"transaction_type"`
}

// TransactionSummary is one row of the daily transaction summary.
type TransactionSummary struct {
	SummaryKey
	DollarSum *float64 `json:"dollar_sum"`
	Quantity  int      `json:"quantity"`
}

// Distribution holds the order statistics of one measure across customers.
// All fields are nil when no customer has a value.
type Distribution struct {
	Mean   *float64 `json:"mean"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	P25    *float64 `json:"p25"`
	Median *float64 `json:"median"`
	P75    *float64 `json:"p75"`
}

// CustomerTransactionSummary describes per-customer activity for one key.
type CustomerTransactionSummary struct {
	SummaryKey
	CustomersTransacted int          `json:"customers_transacted"`
	Dollar              Distribution `json:"dollar"`
	Quantity            Distribution `json:"quantity"`
}
