package ports

import (
	"context"

	"coinfolio/internal/domain"
)

// CatalogProvider supplies the list of currencies a caller may record
// transactions for. The ledger itself accepts any non-empty symbol;
// the catalog only feeds the selection UI, so a provider failure is
// never fatal to the core.
type CatalogProvider interface {
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
