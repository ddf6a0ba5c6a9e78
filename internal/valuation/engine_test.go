package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/domain"
)

const feeRate = 0.004

func mustTx(t *testing.T, side domain.Side, price, quoteAmount float64) domain.Transaction {
	t.Helper()
	in, err := domain.NewTransactionInput(side, price, quoteAmount, feeRate)
	require.NoError(t, err)
	tx, err := domain.NewTransaction(in)
	require.NoError(t, err)
	return tx
}

func TestValuate_EmptyPortfolio(t *testing.T) {
	snap := Valuate(nil)

	assert.True(t, snap.HeldQuantity.IsZero())
	assert.True(t, snap.TotalCostBasis.IsZero())
	assert.True(t, snap.TotalFees.IsZero())
	assert.True(t, snap.GrossProfit.IsZero())
	assert.True(t, snap.NetProfit.IsZero())
	assert.True(t, snap.RealizedLoss.IsZero())
	assert.False(t, snap.AveragePrice.Valid)
	assert.Equal(t, "-", snap.DisplayAveragePrice())
}

func TestValuate_SingleBuy(t *testing.T) {
	txs := []domain.Transaction{mustTx(t, domain.Buy, 100, 1000)}
	snap := Valuate(txs)

	assert.Equal(t, "10", snap.HeldQuantity.String())
	assert.Equal(t, "1000", snap.TotalCostBasis.String())
	assert.Equal(t, "4", snap.TotalFees.String())
	require.True(t, snap.AveragePrice.Valid)
	assert.Equal(t, "100.00", snap.DisplayAveragePrice())
	assert.Equal(t, "10.0000", snap.DisplayHeldQuantity())
}

func TestValuate_BuyThenProfitableSell(t *testing.T) {
	txs := []domain.Transaction{
		mustTx(t, domain.Buy, 100, 1000), // 10 coins, $4 fee
		mustTx(t, domain.Sell, 150, 5),   // $3 fee, avg cost before sale 100
	}
	snap := Valuate(txs)

	// gross = (150-100)*5 - 3 = 247
	assert.Equal(t, "247", snap.GrossProfit.String())
	assert.Equal(t, "7", snap.TotalFees.String())
	assert.Equal(t, "4", snap.BuyFees.String())
	assert.Equal(t, "5", snap.HeldQuantity.String())
	assert.True(t, snap.RealizedLoss.IsZero())
	// net = gross - buy fees only
	assert.Equal(t, "243", snap.NetProfit.String())
	// Cost basis is never reduced by sells.
	assert.Equal(t, "1000", snap.TotalCostBasis.String())
	require.True(t, snap.AveragePrice.Valid)
	assert.Equal(t, "200", snap.AveragePrice.Decimal.String())
}

func TestValuate_SellBelowAverageCost(t *testing.T) {
	txs := []domain.Transaction{
		mustTx(t, domain.Buy, 100, 1000), // avg cost 100
		mustTx(t, domain.Sell, 80, 5),    // 20 below average
	}
	snap := Valuate(txs)

	// realized loss = (100-80)*5 = 100
	assert.Equal(t, "100", snap.RealizedLoss.String())
	// fee = 5*80*0.004 = 1.6; gross = (80-100)*5 - 1.6 = -101.6
	assert.Equal(t, "-101.6", snap.GrossProfit.String())
}

func TestValuate_LossAccumulatesAcrossSells(t *testing.T) {
	txs := []domain.Transaction{
		mustTx(t, domain.Buy, 100, 1000),
		mustTx(t, domain.Sell, 90, 2),  // loss 20
		mustTx(t, domain.Sell, 150, 2), // profitable, must not reduce the loss
	}
	snap := Valuate(txs)

	assert.Equal(t, "20", snap.RealizedLoss.String())
}

func TestValuate_SellWithNothingHeld(t *testing.T) {
	// Average cost is undefined with nothing held; the fold treats it
	// as zero instead of dividing by zero.
	txs := []domain.Transaction{mustTx(t, domain.Sell, 150, 5)}
	snap := Valuate(txs)

	// gross = (150-0)*5 - 3 = 747
	assert.Equal(t, "747", snap.GrossProfit.String())
	assert.Equal(t, "-5", snap.HeldQuantity.String())
	assert.True(t, snap.RealizedLoss.IsZero())
	// Negative held quantity displays no average price.
	assert.False(t, snap.AveragePrice.Valid)
	assert.Equal(t, "-", snap.DisplayAveragePrice())
}

func TestValuate_Oversell(t *testing.T) {
	// The permissive policy lets the held quantity go negative; the
	// fold must stay well defined.
	txs := []domain.Transaction{
		mustTx(t, domain.Buy, 100, 1000),
		mustTx(t, domain.Sell, 100, 15),
	}
	snap := Valuate(txs)

	assert.Equal(t, "-5", snap.HeldQuantity.String())
	assert.False(t, snap.AveragePrice.Valid)
}

func TestValuate_Deterministic(t *testing.T) {
	txs := []domain.Transaction{
		mustTx(t, domain.Buy, 97.31, 250.5),
		mustTx(t, domain.Buy, 103.77, 499.99),
		mustTx(t, domain.Sell, 120.5, 3.3),
		mustTx(t, domain.Sell, 91.25, 1.1),
	}

	first := Valuate(txs)
	second := Valuate(txs)
	assert.Equal(t, first, second)
}

func TestValuate_AverageIsLifetimeBuyCost(t *testing.T) {
	// Buying at two prices then selling: the average reflects all USD
	// ever spent over the remaining quantity, not remaining-lot cost.
	txs := []domain.Transaction{
		mustTx(t, domain.Buy, 100, 1000), // 10 coins
		mustTx(t, domain.Buy, 200, 1000), // 5 coins
		mustTx(t, domain.Sell, 150, 5),   // 10 left, 2000 spent
	}
	snap := Valuate(txs)

	assert.Equal(t, "10", snap.HeldQuantity.String())
	require.True(t, snap.AveragePrice.Valid)
	assert.Equal(t, "200", snap.AveragePrice.Decimal.String())
}

func TestValuatePortfolio(t *testing.T) {
	p := domain.Portfolio{
		Symbol:       "BTC",
		DisplayName:  "Bitcoin",
		Transactions: []domain.Transaction{mustTx(t, domain.Buy, 100, 1000)},
	}
	assert.Equal(t, Valuate(p.Transactions), ValuatePortfolio(p))
}

func TestSnapshotDisplayRounding(t *testing.T) {
	txs := []domain.Transaction{mustTx(t, domain.Buy, 3, 100)}
	snap := Valuate(txs)

	// 100/3 coins held, full precision internally.
	assert.Equal(t, "33.3333", snap.DisplayHeldQuantity())
	require.True(t, snap.AveragePrice.Valid)
	assert.Equal(t, "3.00", snap.DisplayAveragePrice())
	assert.Equal(t, "0.40", snap.DisplayTotalFees())
	assert.True(t, snap.HeldQuantity.Mul(decimal.NewFromInt(3)).Sub(decimal.NewFromInt(100)).Abs().LessThan(decimal.New(1, -10)))
}
