package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/domain/batches"
	"stocklot/internal/infrastructure/http/v1/dto"
	"stocklot/internal/infrastructure/storage/postgres"
)

// BatchHandler handles HTTP requests for stock batches.
type BatchHandler struct {
	*BaseHandler
	service *batches.Service
	audit   *postgres.AuditService
}

// NewBatchHandler creates a new BatchHandler. The audit service may be nil
// when the audit trail is disabled.
func NewBatchHandler(base *BaseHandler, service *batches.Service, audit *postgres.AuditService) *BatchHandler {
	return &BatchHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

// Create handles POST /batches. Responds 201 for a fresh batch and 200
// when the quantity was consolidated into an existing batch.
func (h *BatchHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Create(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Consolidated {
		status = http.StatusOK
	}
	c.JSON(status, dto.FromCreateResult(result))
}

// Get handles GET /batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	b, err := h.service.GetByID(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBatch(b))
}

// Update handles PATCH /batches/:id - partial update with lifecycle
// side effects. Absent fields keep their value; explicit null clears
// nullable fields.
func (h *BatchHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var patch dto.UpdateBatchRequest
	if !h.BindJSON(c, &patch) {
		return
	}

	updated, err := h.service.Update(ctx, batchID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBatch(updated))
}

// Delete handles DELETE /batches/:id - hard delete with commitment refund.
func (h *BatchHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	result, err := h.service.Delete(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteBatchResponse{
		RefundedUSD: result.RefundedUSD.String(),
	})
}

// Transfer handles POST /batches/:id/transfer - move stock between
// locations, splitting the batch on partial quantity.
func (h *BatchHandler) Transfer(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransferBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	toLocationID, err := id.Parse(req.ToLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toLocationId format"))
		return
	}

	result, err := h.service.Transfer(ctx, batches.TransferInput{
		BatchID:      batchID,
		ToLocationID: toLocationID,
		Quantity:     req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransferResult(result))
}

// ListByItem handles GET /items/:id/batches - all batches of an item,
// newest first.
func (h *BatchHandler) ListByItem(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	items, err := h.service.ListByItem(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.BatchResponse, len(items))
	for i, b := range items {
		responses[i] = dto.FromBatch(b)
	}

	c.JSON(http.StatusOK, gin.H{"items": responses})
}

// Consistency handles GET /items/:id/consistency - stock consistency
// diagnostics without repair.
func (h *BatchHandler) Consistency(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	report, err := h.service.Reconciler().Inspect(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// History handles GET /batches/:id/history - the audit trail of a batch.
func (h *BatchHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	if h.audit == nil {
		h.Error(c, apperror.NewConflict("audit trail is disabled"))
		return
	}

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)

	entries, err := h.audit.History(ctx, batchID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.FromAuditEntry(e)
	}

	c.JSON(http.StatusOK, gin.H{"items": responses})
}
