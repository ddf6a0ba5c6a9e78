package domain

import "errors"

// Business errors surfaced by the ledger and valuation operations.
// Infrastructure errors live in the ports package; these are the
// conditions a caller is expected to turn into a user-facing message.
var (
	// ErrInvalidInput signals a non-positive or non-finite price/amount.
	ErrInvalidInput = errors.New("invalid transaction input")
	// ErrNotFound signals an unknown currency symbol or an out-of-range
	// transaction index.
	ErrNotFound = errors.New("portfolio or transaction not found")
	// ErrInsufficientBalance signals a sell larger than the held quantity.
	// Only raised when the oversell policy is strict; the default policy
	// permits overselling to match the historical dashboard behaviour.
	ErrInsufficientBalance = errors.New("insufficient balance for sale")
)
