package batches

import (
	"context"

	"stocklot/internal/core/id"
)

// Repository defines persistence operations for stock batches.
// All mutating methods are expected to run inside a transaction opened by
// the service.
type Repository interface {
	// Create inserts a new batch
	Create(ctx context.Context, b *StockBatch) error

	// GetByID retrieves a batch
	GetByID(ctx context.Context, batchID id.ID) (*StockBatch, error)

	// GetForUpdate retrieves a batch with a row lock
	GetForUpdate(ctx context.Context, batchID id.ID) (*StockBatch, error)

	// Update modifies an existing batch with optimistic locking. On
	// success the implementation bumps Version and UpdatedAt on b.
	Update(ctx context.Context, b *StockBatch) error

	// Delete removes a batch permanently
	Delete(ctx context.Context, batchID id.ID) error

	// ListByItem returns all batches of an item, newest first
	ListByItem(ctx context.Context, itemID id.ID) ([]*StockBatch, error)

	// FindConsolidationTarget returns a locked batch matching the key, or
	// (nil, nil) when no candidate exists. Sold batches never match.
	FindConsolidationTarget(ctx context.Context, key ConsolidationKey) (*StockBatch, error)

	// SumLiveQuantity sums quantity over the item's non-sold batches
	SumLiveQuantity(ctx context.Context, itemID id.ID) (int64, error)

	// SumAllQuantity sums quantity over all of the item's batches,
	// sold included. Used by the consistency diagnostics.
	SumAllQuantity(ctx context.Context, itemID id.ID) (int64, error)
}

// AuditEvent records a batch mutation for the audit trail.
type AuditEvent struct {
	Action  string         `json:"action"`
	BatchID id.ID          `json:"batchId"`
	ItemID  id.ID          `json:"itemId"`
	Changes map[string]any `json:"changes,omitempty"`
}

// AuditPort persists audit events. Recording is best effort: failures are
// logged by the service and never fail the business operation.
type AuditPort interface {
	Record(ctx context.Context, event AuditEvent) error
}
