package risk

import (
	"github.com/shopspring/decimal"

	"coinfolio/internal/domain"
)

// Policy decides which transaction sequences the ledger accepts.
//
// The historical dashboard never prevented selling more coins than
// held, so the permissive policy is the default. Strict mode rejects
// any sequence in which the running held quantity would go negative;
// enabling it changes observed behaviour and is an explicit opt-in.
type Policy struct {
	AllowOversell bool
}

// Default returns the permissive policy matching observed behaviour.
func Default() Policy {
	return Policy{AllowOversell: true}
}

// ValidateSequence replays the candidate transaction sequence and, in
// strict mode, fails with domain.ErrInsufficientBalance on the first
// sell that would drive the held quantity below zero.
func (p Policy) ValidateSequence(txs []domain.Transaction) error {
	if p.AllowOversell {
		return nil
	}
	held := decimal.Zero
	for _, tx := range txs {
		switch tx.Side {
		case domain.Buy:
			held = held.Add(tx.Quantity)
		case domain.Sell:
			held = held.Sub(tx.Quantity)
			if held.IsNegative() {
				return domain.ErrInsufficientBalance
			}
		}
	}
	return nil
}
