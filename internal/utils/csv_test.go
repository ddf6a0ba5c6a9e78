package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/domain"
)

func testTx(t *testing.T, side domain.Side, price, quoteAmount float64) domain.Transaction {
	t.Helper()
	in, err := domain.NewTransactionInput(side, price, quoteAmount, 0.004)
	require.NoError(t, err)
	tx, err := domain.NewTransaction(in)
	require.NoError(t, err)
	return tx
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")

	in := []domain.Portfolio{
		{
			Symbol:      "BTC",
			DisplayName: "BTC",
			Transactions: []domain.Transaction{
				testTx(t, domain.Buy, 100, 1000),
				testTx(t, domain.Sell, 150, 5),
			},
		},
		{
			Symbol:       "ETH",
			DisplayName:  "ETH",
			Transactions: []domain.Transaction{testTx(t, domain.Buy, 10, 100)},
		},
	}

	require.NoError(t, WriteTransactionsToCSV(in, path))

	out, err := ReadTransactionsFromCSV(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "BTC", out[0].Symbol)
	require.Len(t, out[0].Transactions, 2)
	assert.True(t, out[0].Transactions[0].Total.Equal(in[0].Transactions[0].Total))
	assert.Equal(t, domain.Sell, out[0].Transactions[1].Side)
	assert.Equal(t, "ETH", out[1].Symbol)
	require.Len(t, out[1].Transactions, 1)
	assert.True(t, out[1].Transactions[0].Quantity.Equal(in[1].Transactions[0].Quantity))
}

func TestReadTransactionsFromCSV_NormalizesSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	data := "symbol,side,price,quote_amount,quantity,fee,total\n" +
		"xxbt,BUY,100,1000,10,4,1004\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	out, err := ReadTransactionsFromCSV(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "XBT", out[0].Symbol)
}

func TestReadTransactionsFromCSV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "bad header",
			data: "a,b\n",
		},
		{
			name: "bad side",
			data: "symbol,side,price,quote_amount,quantity,fee,total\nBTC,HODL,100,1000,10,4,1004\n",
		},
		{
			name: "bad decimal",
			data: "symbol,side,price,quote_amount,quantity,fee,total\nBTC,BUY,abc,1000,10,4,1004\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := ReadTransactionsFromCSV(path)
			assert.Error(t, err)
		})
	}
}
