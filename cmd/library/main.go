package main

import (
	"context"
	"log/slog"
	"os"

	"library_backend/pkg/config"
	"library_backend/pkg/database"
	"library_backend/pkg/library"
	"library_backend/pkg/models"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("library service stopped", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.Load()
	ctx := context.Background()

	log.Info("starting library service", "driver", cfg.DBDriver, "port", cfg.Port)

	db, err := database.Open(cfg, log, models.All()...)
	if err != nil {
		return err
	}
	store := database.NewGateway(db, database.NewStoreBreaker(cfg.BreakerMaxFailures, cfg.BreakerTimeout))
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return err
	}
	log.Info("database ping successful")

	catalog := library.NewCatalog(store)
	borrowing := library.NewBorrowing(store, catalog,
		library.WithFeePolicy(library.FeePolicy{GraceDays: cfg.FeeGraceDays, PerDay: cfg.FeePerDay}))
	ledger := library.NewLedger(store)

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, catalog, log); err != nil {
			return err
		}
	}

	server := newRouter(&handlers{
		catalog:   catalog,
		borrowing: borrowing,
		ledger:    ledger,
		store:     store,
		log:       log,
	}, log)

	log.Info("library service listening", "addr", ":"+cfg.Port)
	return server.Run(":" + cfg.Port)
}
