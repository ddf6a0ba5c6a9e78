package domain

// Currency is a catalog entry: an opaque symbol plus a human-readable name.
type Currency struct {
	Symbol string
	Name   string
}

// Portfolio is the ordered transaction history for one currency symbol.
// Transaction order is insertion order and is the order of fold
// evaluation in the valuation engine.
type Portfolio struct {
	Symbol       string
	DisplayName  string
	Transactions []Transaction
}

// Clone returns a deep copy of the portfolio. The ledger store hands
// out clones so callers can never alias the live transaction slice.
func (p *Portfolio) Clone() Portfolio {
	out := Portfolio{
		Symbol:      p.Symbol,
		DisplayName: p.DisplayName,
	}
	if len(p.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(p.Transactions))
		copy(out.Transactions, p.Transactions)
	}
	return out
}
