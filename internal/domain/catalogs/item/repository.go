package item

import (
	"context"

	"stocklot/internal/core/id"
	"stocklot/internal/domain"
)

// Repository defines operations for the item catalog.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetForUpdate retrieves an item with a row lock. Used by updates that
	// trigger cash movements and by batch reconciliation.
	GetForUpdate(ctx context.Context, itemID id.ID) (*Item, error)

	// UpdateStock writes the cached quantity and, when status is non-nil,
	// the cached status. Used by reconciliation only; bypasses optimistic
	// locking because it runs under a row lock.
	UpdateStock(ctx context.Context, itemID id.ID, quantity int64, status *Status) error
}
