// Package batch_repo provides the PostgreSQL implementation of the stock
// batch ledger.
package batch_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/domain/batches"
	"stocklot/internal/infrastructure/storage/postgres"
)

const batchTable = "stock_batches"

// Compile-time check.
var _ batches.Repository = (*StockBatchRepo)(nil)

// StockBatchRepo implements batches.Repository.
type StockBatchRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewStockBatchRepo creates a new stock batch repository.
func NewStockBatchRepo(txManager *postgres.TxManager) *StockBatchRepo {
	return &StockBatchRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[batches.StockBatch](),
	}
}

func (r *StockBatchRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockBatchRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(batchTable)
}

// Create inserts a new batch.
func (r *StockBatchRepo) Create(ctx context.Context, b *batches.StockBatch) error {
	data := postgres.StructToMap(b)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(batchTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert %s: %w", batchTable, err))
	}
	return nil
}

// GetByID retrieves a batch.
func (r *StockBatchRepo) GetByID(ctx context.Context, batchID id.ID) (*batches.StockBatch, error) {
	return r.get(ctx, batchID, false)
}

// GetForUpdate retrieves a batch with a row lock.
func (r *StockBatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*batches.StockBatch, error) {
	return r.get(ctx, batchID, true)
}

func (r *StockBatchRepo) get(ctx context.Context, batchID id.ID, lock bool) (*batches.StockBatch, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": batchID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	b := &batches.StockBatch{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(batchTable, batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// Update modifies an existing batch with optimistic locking.
func (r *StockBatchRepo) Update(ctx context.Context, b *batches.StockBatch) error {
	data := postgres.StructToMap(b)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "version", "created_at":
			continue
		case "updated_at":
			continue // set below
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Update(batchTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"version": b.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("update %s: %w", batchTable, err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(batchTable, b.ID.String())
	}

	b.Version++
	return nil
}

// Delete removes a batch permanently.
func (r *StockBatchRepo) Delete(ctx context.Context, batchID id.ID) error {
	q := r.builder().
		Delete(batchTable).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("delete %s: %w", batchTable, err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(batchTable, batchID.String())
	}
	return nil
}

// ListByItem returns all batches of an item, newest first.
func (r *StockBatchRepo) ListByItem(ctx context.Context, itemID id.ID) ([]*batches.StockBatch, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*batches.StockBatch
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by item: %w", err)
	}
	return items, nil
}

// FindConsolidationTarget returns a locked batch matching the key, or
// (nil, nil) when no candidate exists. Money columns compare by numeric
// value so representation differences ("5" vs "5.00") still match.
func (r *StockBatchRepo) FindConsolidationTarget(ctx context.Context, key batches.ConsolidationKey) (*batches.StockBatch, error) {
	if key.Status == batches.StatusSold {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{
			"item_id":           key.ItemID,
			"status":            key.Status,
			"cost_per_unit_usd": key.CostPerUnitUSD,
			"freight_cost_usd":  key.FreightCostUSD,
		}).
		OrderBy("created_at ASC").
		Limit(1).
		Suffix("FOR UPDATE")

	if key.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *key.LocationID})
	} else {
		q = q.Where("location_id IS NULL")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	b := &batches.StockBatch{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find consolidation target: %w", err)
	}
	return b, nil
}

// SumLiveQuantity sums quantity over the item's non-sold batches.
func (r *StockBatchRepo) SumLiveQuantity(ctx context.Context, itemID id.ID) (int64, error) {
	return r.sumQuantity(ctx, itemID, true)
}

// SumAllQuantity sums quantity over all of the item's batches.
func (r *StockBatchRepo) SumAllQuantity(ctx context.Context, itemID id.ID) (int64, error) {
	return r.sumQuantity(ctx, itemID, false)
}

func (r *StockBatchRepo) sumQuantity(ctx context.Context, itemID id.ID, excludeSold bool) (int64, error) {
	q := r.builder().
		Select("COALESCE(SUM(quantity), 0)").
		From(batchTable).
		Where(squirrel.Eq{"item_id": itemID})
	if excludeSold {
		q = q.Where(squirrel.NotEq{"status": batches.StatusSold})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var sum int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum quantity: %w", err)
	}
	return sum, nil
}
