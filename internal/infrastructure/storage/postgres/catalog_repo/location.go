package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocklot/internal/core/id"
	"stocklot/internal/domain/catalogs/location"
	"stocklot/internal/infrastructure/storage/postgres"
)

const locationTable = "locations"

// Compile-time check.
var _ location.Repository = (*LocationRepo)(nil)

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*BaseCatalogRepo[*location.Location]
}

// NewLocationRepo creates a new location repository.
func NewLocationRepo(txManager *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*location.Location](
			txManager,
			locationTable,
			postgres.ExtractDBColumns[location.Location](),
			func() *location.Location { return &location.Location{} },
		),
	}
}

// ListByCompany returns all non-deleted locations of a company.
func (r *LocationRepo) ListByCompany(ctx context.Context, companyID id.ID) ([]*location.Location, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(locationTable).
		Where(squirrel.Eq{"company_id": companyID, "deletion_mark": false}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var locations []*location.Location
	if err := pgxscan.Select(ctx, r.Querier(ctx), &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("list by company: %w", err)
	}
	return locations, nil
}
