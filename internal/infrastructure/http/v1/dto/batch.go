package dto

import (
	"encoding/json"
	"time"

	"stocklot/internal/domain/batches"
	"stocklot/internal/infrastructure/storage/postgres"
)

// CreateBatchRequest is the DTO for creating a stock batch. Money fields
// accept JSON numbers or strings; strings are preferred for precision.
type CreateBatchRequest = batches.CreateInput

// UpdateBatchRequest is the patch DTO for batches. Fields distinguish
// absent from explicit null, mapping directly onto batches.Patch.
type UpdateBatchRequest = batches.Patch

// TransferBatchRequest moves stock to another location. Quantity omitted
// means the whole batch.
type TransferBatchRequest struct {
	ToLocationID string `json:"toLocationId" binding:"required"`
	Quantity     *int64 `json:"quantity"`
}

// BatchResponse is the DTO for returning batch data.
type BatchResponse struct {
	BaseResponse
	ItemID           string     `json:"itemId"`
	LocationID       *string    `json:"locationId,omitempty"`
	AssignedUserID   *string    `json:"assignedUserId,omitempty"`
	Quantity         int64      `json:"quantity"`
	OriginalQuantity int64      `json:"originalQuantity"`
	Status           string     `json:"status"`
	CostPerUnitUSD   string     `json:"costPerUnitUSD"`
	FreightCostUSD   string     `json:"freightCostUSD"`
	CommitmentUSD    string     `json:"commitmentUSD"`
	OrderNumber      string     `json:"orderNumber"`
	OrderDate        *time.Time `json:"orderDate,omitempty"`
	ExpectedArrival  *time.Time `json:"expectedArrival,omitempty"`
	ArrivedDate      *time.Time `json:"arrivedDate,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

func FromBatch(b *batches.StockBatch) BatchResponse {
	return BatchResponse{
		BaseResponse:     FromBaseRecord(b.BaseRecord),
		ItemID:           b.ItemID.String(),
		LocationID:       idOrNil(b.LocationID),
		AssignedUserID:   idOrNil(b.AssignedUserID),
		Quantity:         b.Quantity,
		OriginalQuantity: b.OriginalQuantity,
		Status:           string(b.Status),
		CostPerUnitUSD:   b.CostPerUnitUSD.String(),
		FreightCostUSD:   b.FreightCostUSD.String(),
		CommitmentUSD:    b.Commitment().String(),
		OrderNumber:      b.OrderNumber,
		OrderDate:        b.OrderDate,
		ExpectedArrival:  b.ExpectedArrival,
		ArrivedDate:      b.ArrivedDate,
		Notes:            strOrEmpty(b.Notes),
	}
}

// CreateBatchResponse reports the created or consolidated batch.
type CreateBatchResponse struct {
	Batch        BatchResponse `json:"batch"`
	Consolidated bool          `json:"consolidated"`
}

func FromCreateResult(r *batches.CreateResult) CreateBatchResponse {
	return CreateBatchResponse{
		Batch:        FromBatch(r.Batch),
		Consolidated: r.Consolidated,
	}
}

// DeleteBatchResponse reports the cash returned by a delete.
type DeleteBatchResponse struct {
	RefundedUSD string `json:"refundedUSD"`
}

// TransferBatchResponse reports the outcome of a transfer.
type TransferBatchResponse struct {
	Batch       BatchResponse  `json:"batch"`
	NewBatch    *BatchResponse `json:"newBatch,omitempty"`
	Transferred int64          `json:"transferred"`
}

func FromTransferResult(r *batches.TransferResult) TransferBatchResponse {
	resp := TransferBatchResponse{
		Batch:       FromBatch(r.Batch),
		Transferred: r.Transferred,
	}
	if r.NewBatch != nil {
		nb := FromBatch(r.NewBatch)
		resp.NewBatch = &nb
	}
	return resp
}

// ConsistencyResponse reports the stock consistency of one item.
type ConsistencyResponse = batches.Report

// AuditEntryResponse is one audit trail row.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	BatchID   string          `json:"batchId"`
	ItemID    string          `json:"itemId"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func FromAuditEntry(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID.String(),
		Action:    e.Action,
		BatchID:   e.BatchID.String(),
		ItemID:    e.ItemID.String(),
		Changes:   e.Changes,
		CreatedAt: e.CreatedAt,
	}
}
