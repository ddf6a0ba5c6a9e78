package domain

import "github.com/shopspring/decimal"

// Snapshot holds the derived dashboard metrics for one portfolio.
// It is recomputed from the transaction sequence on every query and
// never stored; all fields keep full precision, rounding happens only
// in the Display helpers.
type Snapshot struct {
	HeldQuantity   decimal.Decimal
	TotalCostBasis decimal.Decimal // cumulative USD spent on buys, never reduced by sells
	TotalFees      decimal.Decimal
	BuyFees        decimal.Decimal // fees paid on buys only, used for net profit
	GrossProfit    decimal.Decimal
	NetProfit      decimal.Decimal
	RealizedLoss   decimal.Decimal
	// AveragePrice is the lifetime average buy cost. Invalid when the
	// held quantity is zero or negative.
	AveragePrice decimal.NullDecimal
}

// Display formatting: 2 decimal places for USD values, 4 for coin
// quantities, "-" when the average price is undefined.

func (s Snapshot) DisplayHeldQuantity() string { return s.HeldQuantity.StringFixed(4) }
func (s Snapshot) DisplayCostBasis() string    { return s.TotalCostBasis.StringFixed(2) }
func (s Snapshot) DisplayTotalFees() string    { return s.TotalFees.StringFixed(2) }
func (s Snapshot) DisplayGrossProfit() string  { return s.GrossProfit.StringFixed(2) }
func (s Snapshot) DisplayNetProfit() string    { return s.NetProfit.StringFixed(2) }
func (s Snapshot) DisplayRealizedLoss() string { return s.RealizedLoss.StringFixed(2) }

func (s Snapshot) DisplayAveragePrice() string {
	if !s.AveragePrice.Valid {
		return "-"
	}
	return s.AveragePrice.Decimal.StringFixed(2)
}
