package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/interestlab/ledgerprep/internal/api"
	"github.com/interestlab/ledgerprep/internal/config"
	"github.com/interestlab/ledgerprep/internal/logger"
	"github.com/interestlab/ledgerprep/internal/repository"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg.LogLevel)

	if cfg.StoreDriver != config.DriverSQLite {
		log.Warn().Str("driver", cfg.StoreDriver).Msg("the API reads the sqlite store only; serving DB_PATH")
	}

	log.Info().Str("path", cfg.DBPath).Msg("opening database")
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init db")
	}
	defer db.Close()

	reader := repository.NewTableReader(db)
	counts, err := reader.Counts(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count tables")
	}
	if len(counts) == 0 {
		log.Warn().Msg("database has no output tables yet; run cmd/pipeline first")
	}
	for _, c := range counts {
		log.Info().Str("table", c.Name).Int("rows", c.Rows).Msg("table available")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(reader, logger.Component(log, "api")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", "http://localhost:"+cfg.Port+"/api/v1").Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}
