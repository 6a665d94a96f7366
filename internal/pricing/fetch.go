package pricing

import (
	"context"
	"fmt"
	"sort"

	"github.com/interestlab/ledgerprep/internal/domain"
	"github.com/interestlab/ledgerprep/internal/logger"
)

// FetchAll fetches every symbol over the window and returns the points in
// symbol order, then date order. Any symbol failure aborts the fetch.
func FetchAll(ctx context.Context, src Source, symbols []string, w Window) ([]domain.PricePoint, error) {
	log := logger.Component(logger.FromContext(ctx), "pricing")

	var all []domain.PricePoint
	for _, sym := range symbols {
		points, err := src.DailyPrices(ctx, sym, w)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", sym, err)
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})

		if missing := daysIn(w) - len(points); missing > 0 {
			log.Warn().Str("symbol", sym).Int("missing_days", missing).
				Stringer("window", w).Msg("price series has gaps")
		}
		log.Debug().Str("symbol", sym).Int("points", len(points)).Msg("fetched prices")

		all = append(all, points...)
	}
	return all, nil
}

func daysIn(w Window) int {
	return w.End.DaysSince(w.Start)
}
