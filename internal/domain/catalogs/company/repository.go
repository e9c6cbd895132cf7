package company

import (
	"context"

	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
	"stocklot/internal/domain"
)

// Repository defines operations for the company catalog.
type Repository interface {
	domain.CatalogRepository[*Company]

	// GetForUpdate retrieves a company with a row lock. All cash balance
	// read-modify-write sequences must go through this inside a transaction.
	GetForUpdate(ctx context.Context, companyID id.ID) (*Company, error)

	// AdjustBalance atomically adds delta (which may be negative) to the
	// balance in the given currency and returns the updated company.
	AdjustBalance(ctx context.Context, companyID id.ID, currency types.Currency, delta types.Money) (*Company, error)
}
