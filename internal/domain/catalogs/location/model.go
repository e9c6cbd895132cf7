// Package location provides the Location catalog.
// Locations are physical storage places (warehouses, shops) belonging to
// exactly one company.
package location

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/entity"
	"stocklot/internal/core/id"
)

// Location represents a storage place owned by a company.
type Location struct {
	entity.Catalog

	// CompanyID is the owning company. Batches at this location may only
	// belong to items of the same company.
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// Address is free-form
	Address *string `db:"address" json:"address,omitempty"`
}

// NewLocation creates a new Location with required fields.
func NewLocation(code, name string, companyID id.ID) *Location {
	return &Location{
		Catalog:   entity.NewCatalog(code, name),
		CompanyID: companyID,
	}
}

// Validate implements entity.Validatable interface.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(l.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	return nil
}
