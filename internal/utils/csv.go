package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"coinfolio/internal/domain"
)

var csvHeader = []string{"symbol", "side", "price", "quote_amount", "quantity", "fee", "total"}

// WriteTransactionsToCSV exports the ledger as flat rows of the six
// transaction fields plus the currency symbol, in sequence order.
func WriteTransactionsToCSV(portfolios []domain.Portfolio, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(csvHeader)
	for _, p := range portfolios {
		for _, tx := range p.Transactions {
			writer.Write([]string{
				p.Symbol,
				string(tx.Side),
				tx.Price.String(),
				tx.QuoteAmount.String(),
				tx.Quantity.String(),
				tx.Fee.String(),
				tx.Total.String(),
			})
		}
	}
	return writer.Error()
}

// ReadTransactionsFromCSV parses a ledger export back into portfolios,
// grouping rows by symbol and preserving row order within each symbol.
func ReadTransactionsFromCSV(filename string) ([]domain.Portfolio, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected CSV header %v", header)
	}

	bySymbol := make(map[string]*domain.Portfolio)
	var order []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		symbol := domain.NormalizeSymbol(record[0])
		side := domain.Side(record[1])
		if symbol == "" || !side.IsValid() {
			return nil, fmt.Errorf("line %d: invalid symbol or side: %w", line, domain.ErrInvalidInput)
		}

		tx := domain.Transaction{Side: side}
		for i, dest := range []*decimal.Decimal{&tx.Price, &tx.QuoteAmount, &tx.Quantity, &tx.Fee, &tx.Total} {
			d, err := decimal.NewFromString(record[i+2])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid decimal %q: %w", line, record[i+2], err)
			}
			*dest = d
		}

		p, ok := bySymbol[symbol]
		if !ok {
			p = &domain.Portfolio{Symbol: symbol, DisplayName: symbol}
			bySymbol[symbol] = p
			order = append(order, symbol)
		}
		p.Transactions = append(p.Transactions, tx)
	}

	out := make([]domain.Portfolio, 0, len(order))
	for _, symbol := range order {
		out = append(out, *bySymbol[symbol])
	}
	return out, nil
}
