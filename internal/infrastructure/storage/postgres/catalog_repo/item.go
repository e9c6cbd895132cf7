package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/domain/catalogs/item"
	"stocklot/internal/infrastructure/storage/postgres"
)

const itemTable = "items"

// Compile-time check.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			txManager,
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// UpdateStock writes the reconciled quantity and optional status. Runs
// under the row lock taken by GetForUpdate, so no version predicate.
func (r *ItemRepo) UpdateStock(ctx context.Context, itemID id.ID, quantity int64, status *item.Status) error {
	q := r.Builder().
		Update(itemTable).
		Set("quantity_in_stock", quantity).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": itemID})
	if status != nil {
		q = q.Set("status", *status)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update stock: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("update stock: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(itemTable, itemID.String())
	}
	return nil
}
