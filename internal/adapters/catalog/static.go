package catalog

import (
	"context"

	"coinfolio/internal/domain"
)

// fallbackCurrencies is the built-in catalog used when no exchange is
// reachable. XDG is the Kraken-style code for Dogecoin.
var fallbackCurrencies = []domain.Currency{
	{Symbol: "BTC", Name: "Bitcoin"},
	{Symbol: "ETH", Name: "Ethereum"},
	{Symbol: "XDG", Name: "Dogecoin"},
}

// displayNames maps well-known symbols to human-readable names.
// Symbols outside the table display as themselves.
var displayNames = map[string]string{
	"BTC":  "Bitcoin",
	"XBT":  "Bitcoin",
	"ETH":  "Ethereum",
	"XDG":  "Dogecoin",
	"DOGE": "Dogecoin",
	"LTC":  "Litecoin",
	"SOL":  "Solana",
	"ADA":  "Cardano",
	"XRP":  "XRP",
	"DOT":  "Polkadot",
}

func displayName(symbol string) string {
	if name, ok := displayNames[symbol]; ok {
		return name
	}
	return symbol
}

// StaticProvider serves the built-in fallback table.
type StaticProvider struct{}

// NewStatic creates the static catalog provider.
func NewStatic() *StaticProvider {
	return &StaticProvider{}
}

// ListCurrencies returns a copy of the fallback table; it never fails.
func (p *StaticProvider) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	out := make([]domain.Currency, len(fallbackCurrencies))
	copy(out, fallbackCurrencies)
	return out, nil
}
