// Package catalog provides currency catalog adapters: a live provider
// backed by the Binance exchange-info endpoint and a static fallback
// table. The ledger core never depends on either; it consumes
// (symbol, name) pairs through ports.CatalogProvider.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"coinfolio/internal/domain"
	"coinfolio/internal/ports"
)

const statusTrading = "TRADING"

// BinanceProvider lists the base assets of every actively trading pair
// for a given quote asset. API keys are optional; exchange info is a
// public endpoint.
type BinanceProvider struct {
	client     *binance.Client
	quoteAsset string
	logger     ports.Logger
}

// BinanceConfig holds configuration for the Binance catalog adapter.
type BinanceConfig struct {
	APIKey     string
	SecretKey  string
	QuoteAsset string // e.g. "USDT"
	Logger     ports.Logger
}

// NewBinance creates a Binance-backed catalog provider.
func NewBinance(cfg BinanceConfig) (*BinanceProvider, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance catalog provider")
	}
	if cfg.QuoteAsset == "" {
		return nil, fmt.Errorf("quote asset is required for Binance catalog provider")
	}
	return &BinanceProvider{
		client:     binance.NewClient(cfg.APIKey, cfg.SecretKey),
		quoteAsset: cfg.QuoteAsset,
		logger:     cfg.Logger,
	}, nil
}

// ListCurrencies fetches the exchange info and returns one currency
// per base asset trading against the configured quote asset, sorted
// by symbol.
func (p *BinanceProvider) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	info, err := p.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, p.handleError(ctx, err, "ListCurrencies")
	}

	seen := make(map[string]bool)
	currencies := make([]domain.Currency, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.QuoteAsset != p.quoteAsset || s.Status != statusTrading {
			continue
		}
		symbol := domain.NormalizeSymbol(s.BaseAsset)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		currencies = append(currencies, domain.Currency{Symbol: symbol, Name: displayName(symbol)})
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Symbol < currencies[j].Symbol })

	p.logger.Debug(ctx, "Currency catalog fetched", map[string]interface{}{
		"quoteAsset": p.quoteAsset, "count": len(currencies),
	})
	return currencies, nil
}

// handleError translates Binance API errors into standardized ports
// errors.
func (p *BinanceProvider) handleError(ctx context.Context, err error, operation string) error {
	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -2014, -2015: // API-key format invalid / invalid key or permissions
			mappedErr = ports.ErrAuthenticationFailed
		case -1100, -1101, -1102, -1103, -1104: // Parameter/request format errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrExchangeUnavailable
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		p.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	}
	p.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}
