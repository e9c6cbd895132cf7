// Package item provides the Item catalog.
// Items either track stock through batches (UseBatchSystem) or carry
// quantity, cost and status directly on the item row.
package item

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/entity"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
)

// Status mirrors the batch lifecycle on the item row. For batch-tracked
// items it is derived by reconciliation; for legacy items it is set
// directly and drives the item-level cash commitment.
type Status string

const (
	StatusToOrder Status = "to_order"
	StatusOrdered Status = "ordered"
	StatusArrived Status = "arrived"
	StatusSold    Status = "sold"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusToOrder, StatusOrdered, StatusArrived, StatusSold:
		return true
	}
	return false
}

// Item represents a sellable product of a company.
type Item struct {
	entity.Catalog

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// LocationID is the default storage location (optional)
	LocationID *id.ID `db:"location_id" json:"locationId,omitempty"`

	// UseBatchSystem switches stock tracking to batches. When true the
	// quantity and status below are caches maintained by reconciliation
	// and must not be edited directly.
	UseBatchSystem bool `db:"use_batch_system" json:"useBatchSystem"`

	// QuantityInStock is the stock counter in discrete units
	QuantityInStock int64 `db:"quantity_in_stock" json:"quantityInStock"`

	// Status is the item lifecycle state
	Status Status `db:"status" json:"status"`

	// CostPerUnitUSD is the purchase cost per unit (legacy items)
	CostPerUnitUSD types.Money `db:"cost_per_unit_usd" json:"costPerUnitUSD"`

	// FreightCostUSD is the lot-level freight cost (legacy items)
	FreightCostUSD types.Money `db:"freight_cost_usd" json:"freightCostUSD"`

	// Notes
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name string, companyID id.ID) *Item {
	return &Item{
		Catalog:   entity.NewCatalog(code, name),
		CompanyID: companyID,
		Status:    StatusToOrder,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(i.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}
	if i.QuantityInStock < 0 {
		return apperror.NewValidation("quantity in stock cannot be negative").
			WithDetail("quantityInStock", i.QuantityInStock)
	}
	if i.Status != "" && !i.Status.IsValid() {
		return apperror.NewValidation("unknown status").
			WithDetail("status", string(i.Status))
	}
	if i.CostPerUnitUSD.IsNegative() || i.FreightCostUSD.IsNegative() {
		return apperror.NewValidation("costs cannot be negative").
			WithDetail("costPerUnitUSD", i.CostPerUnitUSD.String()).
			WithDetail("freightCostUSD", i.FreightCostUSD.String())
	}

	return nil
}

// Commitment returns the cash amount a legacy item commits when ordered:
// cost per unit times quantity plus lot-level freight.
func (i *Item) Commitment() types.Money {
	return types.MulUnits(i.CostPerUnitUSD, i.QuantityInStock).Add(i.FreightCostUSD)
}
