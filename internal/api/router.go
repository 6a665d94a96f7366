package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(reader *repository.TableReader, log zerolog.Logger) http.Handler {
	h := &Handlers{reader: reader, log: log}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Generic table access.
		r.Get("/tables", h.ListTables)
		r.Get("/tables/{name}", h.ListTableRows)

		// Named views over the output tables.
		r.Get("/transactions", h.tableView(schema.InterestAccountTransactions))
		r.Get("/prices", h.tableView(schema.CryptoPrices))
		r.Get("/balances", h.tableView(schema.HistoricalRunningBalance))
		r.Get("/dau", h.tableView(schema.DailyActiveUsers))
		r.Get("/dau/wow", h.tableView(schema.WowDailyActiveUsers))
		r.Get("/transactions/summary", h.tableView(schema.DailyTransactionSummary))
		r.Get("/transactions/customer-summary", h.tableView(schema.DailyCustomerTransactionSummary))
		r.Get("/loans", h.tableView(schema.Loans))
	})

	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
