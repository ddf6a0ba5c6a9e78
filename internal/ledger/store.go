package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"coinfolio/internal/domain"
	"coinfolio/internal/ports"
	"coinfolio/internal/risk"
)

// Store owns the currency -> portfolio mapping. It is an explicit,
// injected dependency rather than a package-level singleton so tests
// and multi-session hosts can each run their own ledger.
//
// All mutations and reads go through the store's lock: mutations are
// serialized and reads hand out copies, so a concurrent caller never
// observes a partially mutated transaction sequence. Transaction
// indices are only stable between mutations; callers must not cache
// them across deletes.
type Store struct {
	mu         sync.RWMutex
	portfolios map[string]*domain.Portfolio
	policy     risk.Policy
	logger     ports.Logger
}

// Config holds the ledger store dependencies.
type Config struct {
	Policy risk.Policy
	Logger ports.Logger
}

// New creates an empty ledger store.
func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for ledger store")
	}
	return &Store{
		portfolios: make(map[string]*domain.Portfolio),
		policy:     cfg.Policy,
		logger:     cfg.Logger,
	}, nil
}

// GetOrCreatePortfolio returns a copy of the portfolio for symbol,
// creating an empty one if absent. Never fails; an empty display name
// falls back to the normalized symbol.
func (s *Store) GetOrCreatePortfolio(symbol, displayName string) domain.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.getOrCreateLocked(symbol, displayName)
	return p.Clone()
}

// getOrCreateLocked must be called with s.mu held for writing.
func (s *Store) getOrCreateLocked(symbol, displayName string) *domain.Portfolio {
	key := domain.NormalizeSymbol(symbol)
	if p, ok := s.portfolios[key]; ok {
		return p
	}
	if displayName == "" {
		displayName = key
	}
	p := &domain.Portfolio{Symbol: key, DisplayName: displayName}
	s.portfolios[key] = p
	s.logger.Debug(context.Background(), "portfolio created", map[string]interface{}{"symbol": key})
	return p
}

// RecordTransaction derives a transaction from the input, appends it
// to the symbol's portfolio (created lazily on first use) and returns
// the stored transaction together with its sequence position.
func (s *Store) RecordTransaction(symbol string, in domain.TransactionInput) (domain.Transaction, int, error) {
	key := domain.NormalizeSymbol(symbol)
	if key == "" {
		return domain.Transaction{}, 0, fmt.Errorf("empty currency symbol: %w", domain.ErrInvalidInput)
	}
	tx, err := domain.NewTransaction(in)
	if err != nil {
		return domain.Transaction{}, 0, fmt.Errorf("record transaction for %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.getOrCreateLocked(key, "")

	candidate := append(append([]domain.Transaction(nil), p.Transactions...), tx)
	if err := s.policy.ValidateSequence(candidate); err != nil {
		return domain.Transaction{}, 0, fmt.Errorf("record transaction for %s: %w", key, err)
	}

	p.Transactions = append(p.Transactions, tx)
	seq := len(p.Transactions) - 1
	s.logger.Debug(context.Background(), "transaction recorded", map[string]interface{}{
		"symbol": key, "seq": seq, "side": tx.Side,
	})
	return tx, seq, nil
}

// UpdateTransaction replaces the transaction at index in place, using
// the same derivation as RecordTransaction. The sequence position of
// every other transaction is unchanged.
func (s *Store) UpdateTransaction(symbol string, index int, in domain.TransactionInput) (domain.Transaction, error) {
	key := domain.NormalizeSymbol(symbol)
	tx, err := domain.NewTransaction(in)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction %d for %s: %w", index, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.portfolios[key]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("no portfolio for %s: %w", key, domain.ErrNotFound)
	}
	if index < 0 || index >= len(p.Transactions) {
		return domain.Transaction{}, fmt.Errorf("transaction index %d out of range for %s: %w", index, key, domain.ErrNotFound)
	}

	candidate := append([]domain.Transaction(nil), p.Transactions...)
	candidate[index] = tx
	if err := s.policy.ValidateSequence(candidate); err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction %d for %s: %w", index, key, err)
	}

	p.Transactions[index] = tx
	s.logger.Debug(context.Background(), "transaction updated", map[string]interface{}{
		"symbol": key, "seq": index, "side": tx.Side,
	})
	return tx, nil
}

// DeleteTransaction removes the transaction at index. Transactions
// after it shift down by one; the portfolio itself stays, even when
// its last transaction is removed.
func (s *Store) DeleteTransaction(symbol string, index int) error {
	key := domain.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.portfolios[key]
	if !ok {
		return fmt.Errorf("no portfolio for %s: %w", key, domain.ErrNotFound)
	}
	if index < 0 || index >= len(p.Transactions) {
		return fmt.Errorf("transaction index %d out of range for %s: %w", index, key, domain.ErrNotFound)
	}

	p.Transactions = append(p.Transactions[:index], p.Transactions[index+1:]...)
	s.logger.Debug(context.Background(), "transaction deleted", map[string]interface{}{
		"symbol": key, "seq": index,
	})
	return nil
}

// Portfolio returns a copy of the portfolio for symbol, or
// domain.ErrNotFound if no transaction was ever recorded for it.
func (s *Store) Portfolio(symbol string) (domain.Portfolio, error) {
	key := domain.NormalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[key]
	if !ok {
		return domain.Portfolio{}, fmt.Errorf("no portfolio for %s: %w", key, domain.ErrNotFound)
	}
	return p.Clone(), nil
}

// Portfolios returns copies of all portfolios, sorted by symbol for
// stable iteration.
func (s *Store) Portfolios() []domain.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Portfolio, 0, len(s.portfolios))
	for _, p := range s.portfolios {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Load replaces the store contents with the given portfolios. Used to
// hydrate the session from the persistence adapter at startup.
func (s *Store) Load(portfolios []domain.Portfolio) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolios = make(map[string]*domain.Portfolio, len(portfolios))
	for i := range portfolios {
		p := portfolios[i].Clone()
		p.Symbol = domain.NormalizeSymbol(p.Symbol)
		if p.DisplayName == "" {
			p.DisplayName = p.Symbol
		}
		s.portfolios[p.Symbol] = &p
	}
}
