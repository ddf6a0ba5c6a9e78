package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Side represents the direction of a transaction (BUY or SELL).
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// IsValid reports whether the side is one of the two known values.
func (s Side) IsValid() bool {
	return s == Buy || s == Sell
}

// TransactionInput carries the user-supplied parameters of a trade.
// The meaning of QuoteAmount depends on the side: for a buy it is the
// USD to spend (pre-fee), for a sell it is the coin quantity to sell.
type TransactionInput struct {
	Side        Side
	Price       decimal.Decimal // unit price in quote currency (USD)
	QuoteAmount decimal.Decimal // buy: USD spent; sell: coins sold
	FeeRate     decimal.Decimal // fraction of the USD value charged as fee
}

// NewTransactionInput builds a TransactionInput from raw float values,
// rejecting NaN and infinities before they can enter the ledger.
func NewTransactionInput(side Side, price, quoteAmount, feeRate float64) (TransactionInput, error) {
	for _, v := range []float64{price, quoteAmount, feeRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return TransactionInput{}, ErrInvalidInput
		}
	}
	return TransactionInput{
		Side:        side,
		Price:       decimal.NewFromFloat(price),
		QuoteAmount: decimal.NewFromFloat(quoteAmount),
		FeeRate:     decimal.NewFromFloat(feeRate),
	}, nil
}

// Transaction is an immutable record of one buy or sell event.
// All derived fields are computed by NewTransaction; callers never
// fill them in by hand.
type Transaction struct {
	Side        Side
	Price       decimal.Decimal // unit price paid/received, in USD
	QuoteAmount decimal.Decimal // buy: USD spent (pre-fee); sell: coin quantity sold
	Quantity    decimal.Decimal // coins acquired (buy) or disposed (sell)
	Fee         decimal.Decimal // fee charged on this transaction, in USD
	Total       decimal.Decimal // net USD cost (buy) or net USD proceeds (sell)
}

// NewTransaction derives a full Transaction from its input.
//
// Buy:  quantity = quoteAmount / price
//
//	fee      = quoteAmount * feeRate
//	total    = quoteAmount + fee
//
// Sell: quantity = quoteAmount
//
//	fee      = quantity * price * feeRate
//	total    = quantity * price - fee
//
// The derivation is deterministic: the same input always yields the
// same transaction, so replacing a transaction with identical input
// reproduces it exactly.
func NewTransaction(in TransactionInput) (Transaction, error) {
	if !in.Side.IsValid() {
		return Transaction{}, ErrInvalidInput
	}
	if !in.Price.IsPositive() || !in.QuoteAmount.IsPositive() {
		return Transaction{}, ErrInvalidInput
	}
	if in.FeeRate.IsNegative() {
		return Transaction{}, ErrInvalidInput
	}

	tx := Transaction{
		Side:        in.Side,
		Price:       in.Price,
		QuoteAmount: in.QuoteAmount,
	}
	switch in.Side {
	case Buy:
		tx.Quantity = in.QuoteAmount.Div(in.Price)
		tx.Fee = in.QuoteAmount.Mul(in.FeeRate)
		tx.Total = in.QuoteAmount.Add(tx.Fee)
	case Sell:
		tx.Quantity = in.QuoteAmount
		gross := tx.Quantity.Mul(in.Price)
		tx.Fee = gross.Mul(in.FeeRate)
		tx.Total = gross.Sub(tx.Fee)
	}
	return tx, nil
}
