package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func TestStaticProvider_ListCurrencies(t *testing.T) {
	provider := NewStatic()

	currencies, err := provider.ListCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 3)
	assert.Equal(t, "BTC", currencies[0].Symbol)
	assert.Equal(t, "Bitcoin", currencies[0].Name)
	assert.Equal(t, "XDG", currencies[2].Symbol)
	assert.Equal(t, "Dogecoin", currencies[2].Name)

	// Callers get a copy, not the shared table.
	currencies[0].Name = "mutated"
	fresh, err := provider.ListCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", fresh[0].Name)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Bitcoin", displayName("BTC"))
	assert.Equal(t, "Bitcoin", displayName("XBT"))
	assert.Equal(t, "Dogecoin", displayName("DOGE"))
	// Unknown symbols display as themselves.
	assert.Equal(t, "PEPE", displayName("PEPE"))
}

func TestNewBinance_Validation(t *testing.T) {
	_, err := NewBinance(BinanceConfig{QuoteAsset: "USDT"})
	assert.Error(t, err, "missing logger")

	_, err = NewBinance(BinanceConfig{Logger: &mockLogger{}})
	assert.Error(t, err, "missing quote asset")

	p, err := NewBinance(BinanceConfig{QuoteAsset: "USDT", Logger: &mockLogger{}})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBinanceProvider_ErrorMapping(t *testing.T) {
	p, err := NewBinance(BinanceConfig{QuoteAsset: "USDT", Logger: &mockLogger{}})
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "rate limited", in: &common.APIError{Code: -1003, Message: "too many requests"}, want: ports.ErrRateLimited},
		{name: "bad api key", in: &common.APIError{Code: -2014, Message: "bad key"}, want: ports.ErrAuthenticationFailed},
		{name: "bad params", in: &common.APIError{Code: -1102, Message: "mandatory param missing"}, want: ports.ErrInvalidRequest},
		{name: "unmapped api error", in: &common.APIError{Code: -9999, Message: "??"}, want: ports.ErrExchangeUnavailable},
		{name: "deadline", in: context.DeadlineExceeded, want: ports.ErrTimeout},
		{name: "canceled", in: context.Canceled, want: ports.ErrContextCanceled},
		{name: "plain network error", in: errors.New("connection refused"), want: ports.ErrConnectionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.handleError(ctx, tt.in, "ListCurrencies")
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
