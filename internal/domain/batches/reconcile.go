package batches

import (
	"context"

	"stocklot/internal/core/id"
	"stocklot/internal/domain/catalogs/item"
	"stocklot/pkg/logger"
)

// Reconciler keeps the cached item stock counter equal to the sum of the
// item's non-sold batch quantities. It runs after every batch mutation,
// inside the same transaction, and is idempotent: reconciling a consistent
// item writes nothing.
type Reconciler struct {
	items   item.Repository
	batches Repository
}

// NewReconciler creates a reconciler.
func NewReconciler(items item.Repository, batches Repository) *Reconciler {
	return &Reconciler{items: items, batches: batches}
}

// Reconcile recomputes the item's cached quantity from its live batches.
// When the live total drops to zero the item status is set to sold.
// Items not tracked by batches are left untouched.
func (r *Reconciler) Reconcile(ctx context.Context, itemID id.ID) error {
	it, err := r.items.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if !it.UseBatchSystem {
		return nil
	}

	total, err := r.batches.SumLiveQuantity(ctx, itemID)
	if err != nil {
		return err
	}

	var status *item.Status
	if total == 0 && it.Status != item.StatusSold {
		s := item.StatusSold
		status = &s
	}

	if total == it.QuantityInStock && status == nil {
		return nil
	}

	logger.Debug(ctx, "reconciling item stock",
		"item_id", itemID,
		"cached", it.QuantityInStock,
		"live", total,
	)
	return r.items.UpdateStock(ctx, itemID, total, status)
}

// Report describes the consistency state of one item's stock tracking.
type Report struct {
	ItemID         id.ID `json:"itemId"`
	UseBatchSystem bool  `json:"useBatchSystem"`

	// CachedQuantity is the counter stored on the item row
	CachedQuantity int64 `json:"cachedQuantity"`

	// LiveQuantity is the sum over non-sold batches
	LiveQuantity int64 `json:"liveQuantity"`

	// TotalQuantity includes sold batches
	TotalQuantity int64 `json:"totalQuantity"`

	// Consistent is true when the cache matches the live total
	Consistent bool `json:"consistent"`
}

// Inspect reports the item's stock consistency without repairing it.
func (r *Reconciler) Inspect(ctx context.Context, itemID id.ID) (*Report, error) {
	it, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	live, err := r.batches.SumLiveQuantity(ctx, itemID)
	if err != nil {
		return nil, err
	}
	total, err := r.batches.SumAllQuantity(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return &Report{
		ItemID:         itemID,
		UseBatchSystem: it.UseBatchSystem,
		CachedQuantity: it.QuantityInStock,
		LiveQuantity:   live,
		TotalQuantity:  total,
		Consistent:     !it.UseBatchSystem || live == it.QuantityInStock,
	}, nil
}
