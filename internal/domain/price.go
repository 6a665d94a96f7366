package domain

import "cloud.google.com/go/civil"

// PricePoint is the USD mean of one day's open and close for a currency.
type PricePoint struct {
	Date           civil.Date     `json:"date"`
	Cryptocurrency Cryptocurrency `json:"cryptocurrency"`
	MeanPrice      float64        `json:"mean_price"`
}

// PriceKey is the join key between ledger rows and price points.
type PriceKey struct {
	Date           civil.Date
	Cryptocurrency Cryptocurrency
}

// PriceIndex maps (date, currency) to the day's mean price. A missing key
// means the price is unknown.
type PriceIndex map[PriceKey]float64

// NewPriceIndex indexes points by (date, currency).
func NewPriceIndex(points []PricePoint) PriceIndex {
	idx := make(PriceIndex, len(points))
	for _, p := range points {
		idx[PriceKey{Date: p.Date, Cryptocurrency: p.Cryptocurrency}] = p.MeanPrice
	}
	return idx
}

// Lookup returns nil when no price exists for the day.
func (idx PriceIndex) Lookup(d civil.Date, c Cryptocurrency) *float64 {
	p, ok := idx[PriceKey{Date: d, Cryptocurrency: c}]
	if !ok {
		return nil
	}
	return &p
}
