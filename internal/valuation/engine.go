// Package valuation derives dashboard metrics from a portfolio's
// transaction sequence. The fold is a pure function of the sequence:
// no caching, no hidden state, recomputed on every query.
package valuation

import (
	"github.com/shopspring/decimal"

	"coinfolio/internal/domain"
)

// Valuate folds the transaction sequence, in insertion order, into a
// snapshot of the dashboard metrics.
//
// Accounting policy (kept exactly as the product behaves, not a lot
// tracker): the cost basis only ever grows via buys and is never
// reduced when coins are sold, so the average price is the lifetime
// average buy cost, not the cost of the remaining lots. A sell with
// nothing held uses an average cost of 0 instead of dividing by zero.
// Net profit subtracts buy-side fees only; sell fees are already
// deducted from the gross proceeds.
func Valuate(txs []domain.Transaction) domain.Snapshot {
	var (
		held         = decimal.Zero
		costBasis    = decimal.Zero
		totalFees    = decimal.Zero
		buyFees      = decimal.Zero
		grossProfit  = decimal.Zero
		realizedLoss = decimal.Zero
	)

	for _, tx := range txs {
		switch tx.Side {
		case domain.Buy:
			held = held.Add(tx.Quantity)
			costBasis = costBasis.Add(tx.QuoteAmount)
			totalFees = totalFees.Add(tx.Fee)
			buyFees = buyFees.Add(tx.Fee)
		case domain.Sell:
			avgCost := decimal.Zero
			if held.IsPositive() {
				avgCost = costBasis.Div(held)
			}
			held = held.Sub(tx.Quantity)
			grossProfit = grossProfit.Add(tx.Price.Sub(avgCost).Mul(tx.Quantity)).Sub(tx.Fee)
			totalFees = totalFees.Add(tx.Fee)
			if tx.Price.LessThan(avgCost) {
				realizedLoss = realizedLoss.Add(avgCost.Sub(tx.Price).Mul(tx.Quantity))
			}
		}
	}

	snap := domain.Snapshot{
		HeldQuantity:   held,
		TotalCostBasis: costBasis,
		TotalFees:      totalFees,
		BuyFees:        buyFees,
		GrossProfit:    grossProfit,
		NetProfit:      grossProfit.Sub(buyFees),
		RealizedLoss:   realizedLoss,
	}
	if held.IsPositive() {
		snap.AveragePrice = decimal.NullDecimal{Decimal: costBasis.Div(held), Valid: true}
	}
	return snap
}

// ValuatePortfolio is a convenience wrapper over Valuate.
func ValuatePortfolio(p domain.Portfolio) domain.Snapshot {
	return Valuate(p.Transactions)
}
