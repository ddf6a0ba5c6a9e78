package ports

import (
	"context"

	"coinfolio/internal/domain"
)

// LedgerRepository persists the ledger as one row per transaction
// keyed by (symbol, sequence position). The in-memory store remains
// the source of truth during a session; the repository is written
// through on every mutation and read once at startup.
type LedgerRepository interface {
	// UpsertPortfolio records the symbol -> display name mapping.
	UpsertPortfolio(ctx context.Context, symbol, displayName string) error
	// AppendTransaction stores tx at sequence position seq. seq must be
	// the current length of the portfolio's transaction sequence.
	AppendTransaction(ctx context.Context, symbol string, seq int, tx domain.Transaction) error
	// ReplaceTransaction overwrites the transaction at seq in place.
	ReplaceTransaction(ctx context.Context, symbol string, seq int, tx domain.Transaction) error
	// DeleteTransaction removes the transaction at seq and shifts the
	// sequence positions after it down by one, mirroring the in-memory
	// delete semantics.
	DeleteTransaction(ctx context.Context, symbol string, seq int) error
	// LoadLedger reads every portfolio with its transactions in
	// sequence order.
	LoadLedger(ctx context.Context) ([]domain.Portfolio, error)
}
