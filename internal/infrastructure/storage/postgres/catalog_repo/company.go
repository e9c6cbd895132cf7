package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/internal/infrastructure/storage/postgres"
)

const companyTable = "companies"

// Compile-time check.
var _ company.Repository = (*CompanyRepo)(nil)

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	*BaseCatalogRepo[*company.Company]
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*company.Company](
			txManager,
			companyTable,
			postgres.ExtractDBColumns[company.Company](),
			func() *company.Company { return &company.Company{} },
		),
	}
}

// AdjustBalance atomically applies delta to the balance in the given
// currency and returns the updated row. A negative delta that would push
// the balance below zero fails the balance_non_negative check constraint.
func (r *CompanyRepo) AdjustBalance(ctx context.Context, companyID id.ID, currency types.Currency, delta types.Money) (*company.Company, error) {
	col := "cash_balance_usd"
	if currency == types.CurrencySRD {
		col = "cash_balance_srd"
	}

	sql := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + $1,
		    version = version + 1
		WHERE id = $2
		RETURNING %s
	`, companyTable, col, col, joinColumns(r.selectCols))

	c := &company.Company{}
	if err := pgxscan.Get(ctx, r.Querier(ctx), c, sql, delta, companyID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(companyTable, companyID.String())
		}
		return nil, postgres.MapError(fmt.Errorf("adjust balance: %w", err))
	}
	return c, nil
}
