package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type Cryptocurrency string

const (
	CurrencyBTC  Cryptocurrency = "btc"
	CurrencyETH  Cryptocurrency = "eth"
	CurrencyLTC  Cryptocurrency = "ltc"
	CurrencyGUSD Cryptocurrency = "gusd"
	CurrencyUSDC Cryptocurrency = "usdc"
	CurrencyUSDP Cryptocurrency = "usdp"
)

// NormalizeCurrency lower-cases a ticker so "BTC" and "btc" join the same
// price rows.
func NormalizeCurrency(s string) Cryptocurrency {
	return Cryptocurrency(strings.ToLower(strings.TrimSpace(s)))
}

// TransactionType is the ledger category (deposit, withdrawal, interest...).
// The set is open; values are carried through as-is.
type TransactionType string

// Transaction is one row of the interest account ledger. Amount is signed:
// debits are negative.
type Transaction struct {
	CustomerID      string          `json:"customer_id"`
	Cryptocurrency  Cryptocurrency  `json:"cryptocurrency"`
	TransactionType TransactionType `json:"transaction_type"`
	ConfirmedAt     time.Time       `json:"confirmed_at"`
	Amount          decimal.Decimal `json:"amount"`
	Date            civil.Date      `json:"date"`
}

// PairKey identifies a (customer, currency) balance series.
type PairKey struct {
	CustomerID     string
	Cryptocurrency Cryptocurrency
}
