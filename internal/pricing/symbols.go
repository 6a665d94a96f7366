package pricing

import (
	"fmt"
	"strings"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// supportedSymbols maps upstream tickers to the currency code stored in
// the ledger. Each is quoted against USD.
var supportedSymbols = map[string]domain.Cryptocurrency{
	"BTC":  domain.CurrencyBTC,
	"ETH":  domain.CurrencyETH,
	"LTC":  domain.CurrencyLTC,
	"GUSD": domain.CurrencyGUSD,
	"USDC": domain.CurrencyUSDC,
	"USDP": domain.CurrencyUSDP,
}

// Currency returns the ledger currency for an upstream ticker.
func Currency(symbol string) (domain.Cryptocurrency, error) {
	c, ok := supportedSymbols[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return "", fmt.Errorf("unsupported symbol: %s", symbol)
	}
	return c, nil
}

// MeanPrice is the midpoint of a day's open and close.
func MeanPrice(open, close float64) float64 {
	return (open + close) / 2
}
