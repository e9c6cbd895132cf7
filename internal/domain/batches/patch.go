package batches

import (
	"time"

	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
)

// Patch describes a partial batch update. Optional fields distinguish
// absent (keep current value) from explicit null (clear the field).
type Patch struct {
	Quantity        types.Optional[int64]       `json:"quantity"`
	Status          types.Optional[Status]      `json:"status"`
	LocationID      types.Optional[id.ID]       `json:"locationId"`
	AssignedUserID  types.Optional[id.ID]       `json:"assignedUserId"`
	CostPerUnitUSD  types.Optional[types.Money] `json:"costPerUnitUSD"`
	FreightCostUSD  types.Optional[types.Money] `json:"freightCostUSD"`
	OrderNumber     types.Optional[string]      `json:"orderNumber"`
	OrderDate       types.Optional[time.Time]   `json:"orderDate"`
	ExpectedArrival types.Optional[time.Time]   `json:"expectedArrival"`
	ArrivedDate     types.Optional[time.Time]   `json:"arrivedDate"`
	Notes           types.Optional[string]      `json:"notes"`
}

// Apply mutates b in place with the present patch fields.
// ArrivedDate applied here may be overridden by the automatic stamp when
// the same update transitions the batch to arrived.
func (p Patch) Apply(b *StockBatch) {
	if v, ok := p.Quantity.Get(); ok {
		b.Quantity = v
	}
	if v, ok := p.Status.Get(); ok {
		b.Status = v
	}
	if v, ok := p.LocationID.Get(); ok {
		b.LocationID = &v
	} else if p.LocationID.IsNull() {
		b.LocationID = nil
	}
	if v, ok := p.AssignedUserID.Get(); ok {
		b.AssignedUserID = &v
	} else if p.AssignedUserID.IsNull() {
		b.AssignedUserID = nil
	}
	if v, ok := p.CostPerUnitUSD.Get(); ok {
		b.CostPerUnitUSD = v
	}
	if v, ok := p.FreightCostUSD.Get(); ok {
		b.FreightCostUSD = v
	}
	if v, ok := p.OrderNumber.Get(); ok {
		b.OrderNumber = v
	}
	if v, ok := p.OrderDate.Get(); ok {
		b.OrderDate = &v
	} else if p.OrderDate.IsNull() {
		b.OrderDate = nil
	}
	if v, ok := p.ExpectedArrival.Get(); ok {
		b.ExpectedArrival = &v
	} else if p.ExpectedArrival.IsNull() {
		b.ExpectedArrival = nil
	}
	if v, ok := p.ArrivedDate.Get(); ok {
		b.ArrivedDate = &v
	} else if p.ArrivedDate.IsNull() {
		b.ArrivedDate = nil
	}
	if v, ok := p.Notes.Get(); ok {
		b.Notes = &v
	} else if p.Notes.IsNull() {
		b.Notes = nil
	}
}
