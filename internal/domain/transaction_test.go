package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(side Side, price, quoteAmount, feeRate float64) TransactionInput {
	return TransactionInput{
		Side:        side,
		Price:       decimal.NewFromFloat(price),
		QuoteAmount: decimal.NewFromFloat(quoteAmount),
		FeeRate:     decimal.NewFromFloat(feeRate),
	}
}

func TestNewTransaction_BuyDerivation(t *testing.T) {
	tx, err := NewTransaction(input(Buy, 100, 1000, 0.004))
	require.NoError(t, err)

	assert.Equal(t, Buy, tx.Side)
	assert.Equal(t, "10", tx.Quantity.String())
	assert.Equal(t, "4", tx.Fee.String())
	assert.Equal(t, "1004", tx.Total.String())
	assert.Equal(t, "1000", tx.QuoteAmount.String())
}

func TestNewTransaction_SellDerivation(t *testing.T) {
	// For a sell the quote amount is the coin quantity sold.
	tx, err := NewTransaction(input(Sell, 150, 5, 0.004))
	require.NoError(t, err)

	assert.Equal(t, Sell, tx.Side)
	assert.Equal(t, "5", tx.Quantity.String())
	assert.Equal(t, "3", tx.Fee.String())
	assert.Equal(t, "747", tx.Total.String())
}

func TestNewTransaction_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   TransactionInput
	}{
		{name: "negative price", in: input(Buy, -1, 1000, 0.004)},
		{name: "zero price", in: input(Buy, 0, 1000, 0.004)},
		{name: "negative amount", in: input(Sell, 100, -5, 0.004)},
		{name: "zero amount", in: input(Buy, 100, 0, 0.004)},
		{name: "negative fee rate", in: input(Buy, 100, 1000, -0.004)},
		{name: "unknown side", in: input(Side("HOLD"), 100, 1000, 0.004)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewTransaction_Deterministic(t *testing.T) {
	in := input(Buy, 97.31, 250.5, 0.004)
	first, err := NewTransaction(in)
	require.NoError(t, err)
	second, err := NewTransaction(in)
	require.NoError(t, err)

	// Replacing a transaction with identical input must reproduce it
	// exactly.
	assert.Equal(t, first, second)
}

func TestNewTransactionInput_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name               string
		price, amount, fee float64
	}{
		{name: "NaN price", price: math.NaN(), amount: 1000, fee: 0.004},
		{name: "positive infinity amount", price: 100, amount: math.Inf(1), fee: 0.004},
		{name: "negative infinity price", price: math.Inf(-1), amount: 1000, fee: 0.004},
		{name: "NaN fee rate", price: 100, amount: 1000, fee: math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransactionInput(Buy, tt.price, tt.amount, tt.fee)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewTransactionInput_Valid(t *testing.T) {
	in, err := NewTransactionInput(Sell, 150, 5, 0.004)
	require.NoError(t, err)
	assert.Equal(t, Sell, in.Side)
	assert.Equal(t, "150", in.Price.String())
	assert.Equal(t, "5", in.QuoteAmount.String())
	assert.Equal(t, "0.004", in.FeeRate.String())
}
