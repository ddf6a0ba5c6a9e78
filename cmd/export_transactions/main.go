// Command export_transactions dumps the persisted ledger to a CSV
// file: one row per transaction, keyed by symbol and sequence order.
package main

import (
	"context"
	"flag"
	"log"

	"coinfolio/config"
	"coinfolio/internal/adapters/logger"
	"coinfolio/internal/adapters/sqlite"
	"coinfolio/internal/utils"
)

func main() {
	out := flag.String("out", "transactions.csv", "Output CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to open ledger database: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	portfolios, err := repo.LoadLedger(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to load ledger: %v", err)
	}

	if err := utils.WriteTransactionsToCSV(portfolios, *out); err != nil {
		log.Fatalf("FATAL: Failed to write %s: %v", *out, err)
	}

	total := 0
	for _, p := range portfolios {
		total += len(p.Transactions)
	}
	appLogger.Info(ctx, "Ledger exported", map[string]interface{}{
		"file": *out, "portfolios": len(portfolios), "transactions": total,
	})
}
