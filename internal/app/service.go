package app

import (
	"context"
	"fmt"

	"coinfolio/config"
	"coinfolio/internal/domain"
	"coinfolio/internal/ledger"
	"coinfolio/internal/ports"
	"coinfolio/internal/valuation"
)

// PortfolioService orchestrates the ledger store, the valuation
// engine, the persistence adapter and the currency catalog. It is the
// single mutator path: every caller action (record, update, delete)
// runs to completion here, mutating the in-memory store and writing
// through to the repository.
type PortfolioService struct {
	cfg     *config.Config
	logger  ports.Logger
	store   *ledger.Store
	repo    ports.LedgerRepository
	catalog ports.CatalogProvider
	// fallback serves the catalog when the live provider fails; catalog
	// availability must never block ledger operations.
	fallback ports.CatalogProvider
}

// NewPortfolioService creates a new application service instance.
func NewPortfolioService(
	cfg *config.Config,
	logger ports.Logger,
	store *ledger.Store,
	repo ports.LedgerRepository,
	catalog ports.CatalogProvider,
	fallback ports.CatalogProvider,
) (*PortfolioService, error) {
	if cfg == nil || logger == nil || store == nil || repo == nil || catalog == nil {
		return nil, fmt.Errorf("missing required dependencies for PortfolioService")
	}
	if cfg.FeeRate < 0 || cfg.FeeRate >= 1 {
		return nil, fmt.Errorf("configuration FeeRate must be between 0 and 1")
	}
	return &PortfolioService{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		repo:     repo,
		catalog:  catalog,
		fallback: fallback,
	}, nil
}

// Load hydrates the in-memory store from the repository. Called once
// at session start.
func (s *PortfolioService) Load(ctx context.Context) error {
	portfolios, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	s.store.Load(portfolios)
	s.logger.Info(ctx, "Ledger loaded", map[string]interface{}{"portfolios": len(portfolios)})
	return nil
}

// Currencies returns the catalog of recordable currencies. A provider
// failure degrades to the fallback table instead of failing: the core
// accepts any symbol, the catalog only feeds the selection UI.
func (s *PortfolioService) Currencies(ctx context.Context) []domain.Currency {
	currencies, err := s.catalog.ListCurrencies(ctx)
	if err == nil {
		return currencies
	}
	s.logger.Warn(ctx, "Catalog provider failed, using fallback", map[string]interface{}{"error": err.Error()})
	if s.fallback == nil {
		return nil
	}
	currencies, err = s.fallback.ListCurrencies(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Fallback catalog failed")
		return nil
	}
	return currencies
}

// RecordTransaction validates and records a new transaction for the
// given symbol, creating the portfolio lazily, and persists it.
func (s *PortfolioService) RecordTransaction(ctx context.Context, symbol, displayName string, side domain.Side, price, amount float64) (domain.Transaction, error) {
	in, err := domain.NewTransactionInput(side, price, amount, s.cfg.FeeRate)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	if displayName != "" {
		s.store.GetOrCreatePortfolio(symbol, displayName)
	}
	tx, seq, err := s.store.RecordTransaction(symbol, in)
	if err != nil {
		return domain.Transaction{}, err
	}

	key := domain.NormalizeSymbol(symbol)
	p, perr := s.store.Portfolio(key)
	if perr == nil {
		if err := s.repo.UpsertPortfolio(ctx, p.Symbol, p.DisplayName); err != nil {
			s.logger.Error(ctx, err, "Failed to persist portfolio", map[string]interface{}{"symbol": p.Symbol})
			return domain.Transaction{}, err
		}
	}
	if err := s.repo.AppendTransaction(ctx, key, seq, tx); err != nil {
		s.logger.Error(ctx, err, "Failed to persist transaction", map[string]interface{}{"symbol": key, "seq": seq})
		return domain.Transaction{}, err
	}

	s.logger.Info(ctx, "Transaction recorded", map[string]interface{}{
		"symbol": key, "seq": seq, "side": tx.Side, "total": tx.Total.String(),
	})
	return tx, nil
}

// UpdateTransaction replaces the transaction at index in place and
// persists the replacement.
func (s *PortfolioService) UpdateTransaction(ctx context.Context, symbol string, index int, side domain.Side, price, amount float64) (domain.Transaction, error) {
	in, err := domain.NewTransactionInput(side, price, amount, s.cfg.FeeRate)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	tx, err := s.store.UpdateTransaction(symbol, index, in)
	if err != nil {
		return domain.Transaction{}, err
	}

	key := domain.NormalizeSymbol(symbol)
	if err := s.repo.ReplaceTransaction(ctx, key, index, tx); err != nil {
		s.logger.Error(ctx, err, "Failed to persist transaction update", map[string]interface{}{"symbol": key, "seq": index})
		return domain.Transaction{}, err
	}

	s.logger.Info(ctx, "Transaction updated", map[string]interface{}{"symbol": key, "seq": index})
	return tx, nil
}

// DeleteTransaction removes the transaction at index; indices after it
// shift down by one, in memory and in the repository.
func (s *PortfolioService) DeleteTransaction(ctx context.Context, symbol string, index int) error {
	if err := s.store.DeleteTransaction(symbol, index); err != nil {
		return err
	}

	key := domain.NormalizeSymbol(symbol)
	if err := s.repo.DeleteTransaction(ctx, key, index); err != nil {
		s.logger.Error(ctx, err, "Failed to persist transaction delete", map[string]interface{}{"symbol": key, "seq": index})
		return err
	}

	s.logger.Info(ctx, "Transaction deleted", map[string]interface{}{"symbol": key, "seq": index})
	return nil
}

// Snapshot recomputes the valuation for one symbol. Fails with
// domain.ErrNotFound for a symbol the ledger has never seen; an
// existing but empty portfolio values to zeros.
func (s *PortfolioService) Snapshot(ctx context.Context, symbol string) (domain.Snapshot, error) {
	p, err := s.store.Portfolio(symbol)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return valuation.ValuatePortfolio(p), nil
}

// DashboardEntry pairs a portfolio with its freshly computed snapshot.
type DashboardEntry struct {
	Portfolio domain.Portfolio
	Snapshot  domain.Snapshot
}

// Dashboard recomputes the valuation of every portfolio, sorted by
// symbol.
func (s *PortfolioService) Dashboard(ctx context.Context) []DashboardEntry {
	portfolios := s.store.Portfolios()
	entries := make([]DashboardEntry, 0, len(portfolios))
	for _, p := range portfolios {
		entries = append(entries, DashboardEntry{
			Portfolio: p,
			Snapshot:  valuation.ValuatePortfolio(p),
		})
	}
	return entries
}
