package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"coinfolio/config"
	"coinfolio/internal/adapters/catalog"
	"coinfolio/internal/adapters/logger"
	"coinfolio/internal/adapters/sqlite"
	"coinfolio/internal/app"
	"coinfolio/internal/ledger"
	"coinfolio/internal/ports"
	"coinfolio/internal/risk"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize ledger repository")
		log.Fatalf("FATAL: Failed to initialize ledger repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing ledger repository")
		}
	}()

	// 4. Initialize Ledger Store
	store, err := ledger.New(ledger.Config{
		Policy: risk.Policy{AllowOversell: cfg.AllowOversell},
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize ledger store")
		log.Fatalf("FATAL: Failed to initialize ledger store: %v", err)
	}

	// 5. Initialize Currency Catalog
	var provider ports.CatalogProvider
	if cfg.CatalogSource == config.CatalogBinance {
		provider, err = catalog.NewBinance(catalog.BinanceConfig{
			APIKey:     cfg.APIKey,
			SecretKey:  cfg.SecretKey,
			QuoteAsset: cfg.QuoteAsset,
			Logger:     appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance catalog")
			log.Fatalf("FATAL: Failed to initialize Binance catalog: %v", err)
		}
	} else {
		provider = catalog.NewStatic()
	}

	// 6. Initialize Application Service
	service, err := app.NewPortfolioService(cfg, appLogger, store, repo, provider, catalog.NewStatic())
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize portfolio service")
		log.Fatalf("FATAL: Failed to initialize portfolio service: %v", err)
	}

	ctx := context.Background()
	if err := service.Load(ctx); err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to load ledger")
		log.Fatalf("FATAL: Failed to load ledger: %v", err)
	}

	printReport(ctx, service)
}

// printReport renders the dashboard for every portfolio in the ledger.
// Rendering is the only place values are rounded: 2 decimals for USD,
// 4 for coin quantities, "-" when the average price is undefined.
func printReport(ctx context.Context, service *app.PortfolioService) {
	currencies := service.Currencies(ctx)
	fmt.Printf("Known currencies: %d\n", len(currencies))

	entries := service.Dashboard(ctx)
	if len(entries) == 0 {
		fmt.Println("Ledger is empty.")
		return
	}

	for _, e := range entries {
		fmt.Printf("\n%s (%s), %d transaction(s)\n", e.Portfolio.DisplayName, e.Portfolio.Symbol, len(e.Portfolio.Transactions))
		fmt.Printf("  held:          %s\n", e.Snapshot.DisplayHeldQuantity())
		fmt.Printf("  average price: %s\n", e.Snapshot.DisplayAveragePrice())
		fmt.Printf("  cost basis:    $%s\n", e.Snapshot.DisplayCostBasis())
		fmt.Printf("  fees:          $%s\n", e.Snapshot.DisplayTotalFees())
		fmt.Printf("  gross profit:  $%s\n", e.Snapshot.DisplayGrossProfit())
		fmt.Printf("  net profit:    $%s\n", e.Snapshot.DisplayNetProfit())
		fmt.Printf("  realized loss: $%s\n", e.Snapshot.DisplayRealizedLoss())
	}
}
