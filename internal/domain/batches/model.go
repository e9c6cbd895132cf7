// Package batches implements the stock batch ledger: batch lifecycle with
// cash side effects, consolidation of equivalent purchases, transfers
// between locations and reconciliation of the cached item stock counters.
package batches

import (
	"context"
	"time"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/entity"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
)

// Status is the lifecycle state of a batch.
type Status string

const (
	// StatusToOrder marks a planned purchase. No cash is committed.
	StatusToOrder Status = "to_order"

	// StatusOrdered marks a placed order. Cash is committed.
	StatusOrdered Status = "ordered"

	// StatusArrived marks received goods. Cash stays committed.
	StatusArrived Status = "arrived"

	// StatusSold marks a fully sold batch. Kept for history; excluded
	// from stock totals and from consolidation.
	StatusSold Status = "sold"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusToOrder, StatusOrdered, StatusArrived, StatusSold:
		return true
	}
	return false
}

// IsCommitted reports whether cash is held against the batch in this state.
func (s Status) IsCommitted() bool {
	return s == StatusOrdered || s == StatusArrived
}

// StockBatch is a purchase lot of one item: a quantity bought at one cost
// with one freight charge, moving through the lifecycle as a unit.
type StockBatch struct {
	entity.BaseRecord

	// ItemID is the batch-tracked item this lot belongs to
	ItemID id.ID `db:"item_id" json:"itemId"`

	// LocationID is where the lot is stored (optional)
	LocationID *id.ID `db:"location_id" json:"locationId,omitempty"`

	// AssignedUserID is the buyer responsible for the order (optional)
	AssignedUserID *id.ID `db:"assigned_user_id" json:"assignedUserId,omitempty"`

	// Quantity is the remaining units in the lot
	Quantity int64 `db:"quantity" json:"quantity"`

	// OriginalQuantity is the units the lot was purchased with
	OriginalQuantity int64 `db:"original_quantity" json:"originalQuantity"`

	// Status
	Status Status `db:"status" json:"status"`

	// CostPerUnitUSD is the purchase cost per unit
	CostPerUnitUSD types.Money `db:"cost_per_unit_usd" json:"costPerUnitUSD"`

	// FreightCostUSD is the freight charge for the whole lot, not per unit
	FreightCostUSD types.Money `db:"freight_cost_usd" json:"freightCostUSD"`

	// OrderNumber is the purchase order number (auto-generated when empty)
	OrderNumber string `db:"order_number" json:"orderNumber"`

	OrderDate       *time.Time `db:"order_date" json:"orderDate,omitempty"`
	ExpectedArrival *time.Time `db:"expected_arrival" json:"expectedArrival,omitempty"`

	// ArrivedDate is stamped automatically on the transition to arrived
	ArrivedDate *time.Time `db:"arrived_date" json:"arrivedDate,omitempty"`

	// Notes
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// NewStockBatch creates a batch in the default to_order state.
func NewStockBatch(itemID id.ID, quantity int64) *StockBatch {
	return &StockBatch{
		BaseRecord:       entity.NewBaseRecord(),
		ItemID:           itemID,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		Status:           StatusToOrder,
	}
}

// Validate implements entity.Validatable interface.
func (b *StockBatch) Validate(ctx context.Context) error {
	if id.IsNil(b.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if b.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("quantity", b.Quantity)
	}
	if b.OriginalQuantity < 0 {
		return apperror.NewValidation("original quantity cannot be negative").
			WithDetail("originalQuantity", b.OriginalQuantity)
	}
	if !b.Status.IsValid() {
		return apperror.NewValidation("unknown status").
			WithDetail("status", string(b.Status))
	}
	if b.CostPerUnitUSD.IsNegative() || b.FreightCostUSD.IsNegative() {
		return apperror.NewValidation("costs cannot be negative").
			WithDetail("costPerUnitUSD", b.CostPerUnitUSD.String()).
			WithDetail("freightCostUSD", b.FreightCostUSD.String())
	}
	return nil
}

// Commitment returns the cash committed when the batch is ordered:
// cost per unit times quantity plus the lot-level freight.
func (b *StockBatch) Commitment() types.Money {
	return types.MulUnits(b.CostPerUnitUSD, b.Quantity).Add(b.FreightCostUSD)
}

// ConsolidationKey identifies batches that are the same purchase for
// merging purposes. Sold batches never consolidate.
type ConsolidationKey struct {
	ItemID         id.ID
	LocationID     *id.ID
	Status         Status
	CostPerUnitUSD types.Money
	FreightCostUSD types.Money
}

// Key returns the batch's consolidation key.
func (b *StockBatch) Key() ConsolidationKey {
	return ConsolidationKey{
		ItemID:         b.ItemID,
		LocationID:     b.LocationID,
		Status:         b.Status,
		CostPerUnitUSD: b.CostPerUnitUSD,
		FreightCostUSD: b.FreightCostUSD,
	}
}

// Matches reports whether other shares the batch's consolidation key.
// Money fields compare by numeric value, not representation.
func (k ConsolidationKey) Matches(other ConsolidationKey) bool {
	if k.ItemID != other.ItemID || k.Status != other.Status {
		return false
	}
	if (k.LocationID == nil) != (other.LocationID == nil) {
		return false
	}
	if k.LocationID != nil && *k.LocationID != *other.LocationID {
		return false
	}
	return k.CostPerUnitUSD.Equal(other.CostPerUnitUSD) &&
		k.FreightCostUSD.Equal(other.FreightCostUSD)
}
