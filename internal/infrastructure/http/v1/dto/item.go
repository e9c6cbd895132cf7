package dto

import (
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
	"stocklot/internal/domain/catalogs/item"
)

// CreateItemRequest is the DTO for creating an item.
type CreateItemRequest struct {
	Code            string  `json:"code"`
	Name            string  `json:"name" binding:"required"`
	CompanyID       id.ID   `json:"companyId" binding:"required"`
	LocationID      *id.ID  `json:"locationId"`
	UseBatchSystem  bool    `json:"useBatchSystem"`
	QuantityInStock int64   `json:"quantityInStock"`
	Status          string  `json:"status"`
	CostPerUnitUSD  string  `json:"costPerUnitUSD"`
	FreightCostUSD  string  `json:"freightCostUSD"`
	Notes           *string `json:"notes"`
}

func (r CreateItemRequest) ToEntity() (*item.Item, error) {
	it := item.NewItem(r.Code, r.Name, r.CompanyID)
	it.LocationID = r.LocationID
	it.UseBatchSystem = r.UseBatchSystem
	it.QuantityInStock = r.QuantityInStock
	if r.Status != "" {
		it.Status = item.Status(r.Status)
	}
	if r.CostPerUnitUSD != "" {
		cost, err := types.NewMoneyFromString(r.CostPerUnitUSD)
		if err != nil {
			return nil, err
		}
		it.CostPerUnitUSD = cost
	}
	if r.FreightCostUSD != "" {
		freight, err := types.NewMoneyFromString(r.FreightCostUSD)
		if err != nil {
			return nil, err
		}
		it.FreightCostUSD = freight
	}
	it.Notes = r.Notes
	return it, nil
}

// UpdateItemRequest is the patch DTO for items. Fields distinguish absent
// from explicit null, mapping directly onto item.Patch.
type UpdateItemRequest = item.Patch

// ItemResponse is the DTO for returning item data.
type ItemResponse struct {
	BaseResponse
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	CompanyID       string  `json:"companyId"`
	LocationID      *string `json:"locationId,omitempty"`
	UseBatchSystem  bool    `json:"useBatchSystem"`
	QuantityInStock int64   `json:"quantityInStock"`
	Status          string  `json:"status"`
	CostPerUnitUSD  string  `json:"costPerUnitUSD"`
	FreightCostUSD  string  `json:"freightCostUSD"`
	Notes           string  `json:"notes,omitempty"`
}

func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		BaseResponse:    FromBaseEntity(it.BaseEntity),
		Code:            it.Code,
		Name:            it.Name,
		CompanyID:       it.CompanyID.String(),
		LocationID:      idOrNil(it.LocationID),
		UseBatchSystem:  it.UseBatchSystem,
		QuantityInStock: it.QuantityInStock,
		Status:          string(it.Status),
		CostPerUnitUSD:  it.CostPerUnitUSD.String(),
		FreightCostUSD:  it.FreightCostUSD.String(),
		Notes:           strOrEmpty(it.Notes),
	}
}
