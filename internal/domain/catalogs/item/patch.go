package item

import (
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
)

// Patch describes a partial item update. Optional fields distinguish
// absent (keep current value) from explicit null (clear the field).
type Patch struct {
	Code           types.Optional[string]      `json:"code"`
	Name           types.Optional[string]      `json:"name"`
	LocationID     types.Optional[id.ID]       `json:"locationId"`
	UseBatchSystem types.Optional[bool]        `json:"useBatchSystem"`
	Quantity       types.Optional[int64]       `json:"quantityInStock"`
	Status         types.Optional[Status]      `json:"status"`
	CostPerUnitUSD types.Optional[types.Money] `json:"costPerUnitUSD"`
	FreightCostUSD types.Optional[types.Money] `json:"freightCostUSD"`
	Notes          types.Optional[string]      `json:"notes"`
}

// Apply mutates it in place with the present patch fields.
func (p Patch) Apply(it *Item) {
	if v, ok := p.Code.Get(); ok {
		it.Code = v
	}
	if v, ok := p.Name.Get(); ok {
		it.Name = v
	}
	if v, ok := p.LocationID.Get(); ok {
		it.LocationID = &v
	} else if p.LocationID.IsNull() {
		it.LocationID = nil
	}
	if v, ok := p.UseBatchSystem.Get(); ok {
		it.UseBatchSystem = v
	}
	if v, ok := p.Quantity.Get(); ok {
		it.QuantityInStock = v
	}
	if v, ok := p.Status.Get(); ok {
		it.Status = v
	}
	if v, ok := p.CostPerUnitUSD.Get(); ok {
		it.CostPerUnitUSD = v
	}
	if v, ok := p.FreightCostUSD.Get(); ok {
		it.FreightCostUSD = v
	}
	if v, ok := p.Notes.Get(); ok {
		it.Notes = &v
	} else if p.Notes.IsNull() {
		it.Notes = nil
	}
}
