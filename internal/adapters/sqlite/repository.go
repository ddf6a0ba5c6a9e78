package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"coinfolio/internal/domain"
	"coinfolio/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.LedgerRepository using SQLite.
//
// Layout follows the natural persistence shape of the ledger: one row
// per transaction keyed by (symbol, seq), plus a small portfolios
// table carrying display names. Decimal values are stored as TEXT so
// amounts round-trip without floating point drift.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository opens (or creates) the ledger database.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/coinfolio.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode so a reading host and a writing host can share the file.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// The Go driver benefits from a single connection; SQLite handles
	// concurrency internally.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Ledger database opened", map[string]interface{}{"path": dbPath})
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS portfolios (
		symbol TEXT PRIMARY KEY,
		display_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		symbol TEXT NOT NULL,
		seq INTEGER NOT NULL,
		side TEXT NOT NULL,
		price TEXT NOT NULL,
		quote_amount TEXT NOT NULL,
		quantity TEXT NOT NULL,
		fee TEXT NOT NULL,
		total TEXT NOT NULL,
		PRIMARY KEY (symbol, seq)
	);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing ledger database")
		return r.db.Close()
	}
	return nil
}

// UpsertPortfolio records the symbol -> display name mapping.
func (r *Repository) UpsertPortfolio(ctx context.Context, symbol, displayName string) error {
	const query = `
	INSERT INTO portfolios (symbol, display_name) VALUES (?, ?)
	ON CONFLICT(symbol) DO UPDATE SET display_name = excluded.display_name`

	if _, err := r.db.ExecContext(ctx, query, symbol, displayName); err != nil {
		return fmt.Errorf("failed to upsert portfolio %s: %w", symbol, err)
	}
	return nil
}

// AppendTransaction stores tx at sequence position seq.
func (r *Repository) AppendTransaction(ctx context.Context, symbol string, seq int, tx domain.Transaction) error {
	const query = `
	INSERT INTO transactions (symbol, seq, side, price, quote_amount, quantity, fee, total)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		symbol, seq, string(tx.Side),
		tx.Price.String(), tx.QuoteAmount.String(), tx.Quantity.String(), tx.Fee.String(), tx.Total.String())
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s/%d: %w", symbol, seq, err)
	}
	r.logger.Debug(ctx, "Transaction persisted", map[string]interface{}{"symbol": symbol, "seq": seq})
	return nil
}

// ReplaceTransaction overwrites the transaction at seq in place.
func (r *Repository) ReplaceTransaction(ctx context.Context, symbol string, seq int, tx domain.Transaction) error {
	const query = `
	UPDATE transactions
	SET side = ?, price = ?, quote_amount = ?, quantity = ?, fee = ?, total = ?
	WHERE symbol = ? AND seq = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(tx.Side), tx.Price.String(), tx.QuoteAmount.String(), tx.Quantity.String(),
		tx.Fee.String(), tx.Total.String(),
		symbol, seq)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s/%d: %w", symbol, seq, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for transaction %s/%d: %w", symbol, seq, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction %s/%d not found for update: %w", symbol, seq, domain.ErrNotFound)
	}
	r.logger.Debug(ctx, "Transaction replaced", map[string]interface{}{"symbol": symbol, "seq": seq})
	return nil
}

// DeleteTransaction removes the row at seq and compacts the sequence
// positions after it, mirroring the in-memory delete.
func (r *Repository) DeleteTransaction(ctx context.Context, symbol string, seq int) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer dbTx.Rollback()

	result, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE symbol = ? AND seq = ?`, symbol, seq)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s/%d: %w", symbol, seq, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete %s/%d: %w", symbol, seq, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction %s/%d not found for delete: %w", symbol, seq, domain.ErrNotFound)
	}

	// Shift in two steps through negative values so the (symbol, seq)
	// primary key is never violated mid-update.
	if _, err := dbTx.ExecContext(ctx, `UPDATE transactions SET seq = -(seq - 1) WHERE symbol = ? AND seq > ?`, symbol, seq); err != nil {
		return fmt.Errorf("failed to shift sequence for %s: %w", symbol, err)
	}
	if _, err := dbTx.ExecContext(ctx, `UPDATE transactions SET seq = -seq WHERE symbol = ? AND seq < 0`, symbol); err != nil {
		return fmt.Errorf("failed to shift sequence for %s: %w", symbol, err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete for %s/%d: %w", symbol, seq, err)
	}
	r.logger.Debug(ctx, "Transaction deleted", map[string]interface{}{"symbol": symbol, "seq": seq})
	return nil
}

// LoadLedger reads every portfolio with its transactions in sequence
// order.
func (r *Repository) LoadLedger(ctx context.Context) ([]domain.Portfolio, error) {
	names := make(map[string]string)
	rows, err := r.db.QueryContext(ctx, `SELECT symbol, display_name FROM portfolios`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var symbol, displayName string
		if err := rows.Scan(&symbol, &displayName); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio row: %w", err)
		}
		names[symbol] = displayName
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio rows: %w", err)
	}

	txRows, err := r.db.QueryContext(ctx, `
		SELECT symbol, side, price, quote_amount, quantity, fee, total
		FROM transactions ORDER BY symbol, seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer txRows.Close()

	bySymbol := make(map[string]*domain.Portfolio)
	order := make([]string, 0, len(names))
	for txRows.Next() {
		var symbol string
		tx, err := scanTransaction(txRows, &symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		p, ok := bySymbol[symbol]
		if !ok {
			displayName := names[symbol]
			if displayName == "" {
				displayName = symbol
			}
			p = &domain.Portfolio{Symbol: symbol, DisplayName: displayName}
			bySymbol[symbol] = p
			order = append(order, symbol)
		}
		p.Transactions = append(p.Transactions, tx)
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	// Portfolios that exist but have no transactions (last one deleted)
	// still come back, matching the in-memory lifecycle.
	for symbol, displayName := range names {
		if _, ok := bySymbol[symbol]; !ok {
			bySymbol[symbol] = &domain.Portfolio{Symbol: symbol, DisplayName: displayName}
			order = append(order, symbol)
		}
	}

	out := make([]domain.Portfolio, 0, len(order))
	for _, symbol := range order {
		out = append(out, *bySymbol[symbol])
	}
	return out, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTransaction scans a row into a domain.Transaction, parsing the
// TEXT-encoded decimal columns.
func scanTransaction(s scanner, symbol *string) (domain.Transaction, error) {
	var side, price, quoteAmount, quantity, fee, total string
	if err := s.Scan(symbol, &side, &price, &quoteAmount, &quantity, &fee, &total); err != nil {
		return domain.Transaction{}, err
	}

	tx := domain.Transaction{Side: domain.Side(side)}
	for _, f := range []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{price, &tx.Price},
		{quoteAmount, &tx.QuoteAmount},
		{quantity, &tx.Quantity},
		{fee, &tx.Fee},
		{total, &tx.Total},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("invalid decimal %q: %w", f.raw, err)
		}
		*f.dest = d
	}
	return tx, nil
}
