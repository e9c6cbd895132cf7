package location

import (
	"context"

	"stocklot/internal/core/id"
	"stocklot/internal/domain"
)

// Repository defines operations for the location catalog.
type Repository interface {
	domain.CatalogRepository[*Location]

	// ListByCompany returns all non-deleted locations of a company.
	ListByCompany(ctx context.Context, companyID id.ID) ([]*Location, error)
}
