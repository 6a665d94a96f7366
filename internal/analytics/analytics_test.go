package analytics

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/interestlab/ledgerprep/internal/domain"
)

func day(d int) civil.Date {
	return civil.Date{Year: 2020, Month: time.May, Day: 14}.AddDays(d)
}

func txn(customer string, c domain.Cryptocurrency, typ string, d int, amount float64) domain.Transaction {
	return domain.Transaction{
		CustomerID:      customer,
		Cryptocurrency:  c,
		TransactionType: domain.TransactionType(typ),
		ConfirmedAt:     day(d).In(time.UTC).Add(9 * time.Hour),
		Amount:          decimal.NewFromFloat(amount),
		Date:            day(d),
	}
}

func flatPrices(c domain.Cryptocurrency, price float64, from, to int) []domain.PricePoint {
	var points []domain.PricePoint
	for d := from; d <= to; d++ {
		points = append(points, domain.PricePoint{Date: day(d), Cryptocurrency: c, MeanPrice: price})
	}
	return points
}

func floatPtr(v float64) *float64 {
	return &v
}
