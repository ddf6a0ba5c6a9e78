// Command import_transactions loads a CSV ledger export into the
// database, appending after any transactions already stored for each
// symbol.
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
	in := flag.String("in", "transactions.csv", "Input CSV file")
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

	portfolios, err := utils.ReadTransactionsFromCSV(*in)
	if err != nil {
		log.Fatalf("FATAL: Failed to read %s: %v", *in, err)
	}

	ctx := context.Background()
	existing, err := repo.LoadLedger(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to load existing ledger: %v", err)
	}
	nextSeq := make(map[string]int, len(existing))
	for _, p := range existing {
		nextSeq[p.Symbol] = len(p.Transactions)
	}

	imported := 0
	for _, p := range portfolios {
		if err := repo.UpsertPortfolio(ctx, p.Symbol, p.DisplayName); err != nil {
			log.Fatalf("FATAL: Failed to store portfolio %s: %v", p.Symbol, err)
		}
		for _, tx := range p.Transactions {
			if err := repo.AppendTransaction(ctx, p.Symbol, nextSeq[p.Symbol], tx); err != nil {
				log.Fatalf("FATAL: Failed to store transaction for %s: %v", p.Symbol, err)
			}
			nextSeq[p.Symbol]++
			imported++
		}
	}

	appLogger.Info(ctx, "Ledger imported", map[string]interface{}{
		"file": *in, "portfolios": len(portfolios), "transactions": imported,
	})
}
