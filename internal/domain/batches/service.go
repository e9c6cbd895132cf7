package batches

import (
	"context"
	"fmt"
	"time"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/entity"
	"stocklot/internal/core/id"
	"stocklot/internal/core/numerator"
	"stocklot/internal/core/tx"
	"stocklot/internal/core/types"
	"stocklot/internal/domain/cashflow"
	"stocklot/internal/domain/catalogs/item"
	"stocklot/internal/domain/catalogs/location"
	"stocklot/pkg/logger"
)

// maxRetries bounds automatic retries after concurrent modification.
const maxRetries = 3

// orderNumberPrefix for auto-generated purchase order numbers.
const orderNumberPrefix = "PO"

// Service is the batch lifecycle controller. Every mutating operation
// runs in a single transaction covering the batch write, the cash
// movement and the stock reconciliation.
type Service struct {
	repo      Repository
	items     item.Repository
	locations location.Repository
	cash      *cashflow.Coordinator
	numbers   numerator.Generator
	audit     AuditPort
	reconcile *Reconciler
	txManager tx.Manager
}

// NewService creates a batch service.
func NewService(
	repo Repository,
	items item.Repository,
	locations location.Repository,
	cash *cashflow.Coordinator,
	numbers numerator.Generator,
	audit AuditPort,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		locations: locations,
		cash:      cash,
		numbers:   numbers,
		audit:     audit,
		reconcile: NewReconciler(items, repo),
		txManager: txManager,
	}
}

// Reconciler exposes the reconciler for diagnostics handlers.
func (s *Service) Reconciler() *Reconciler {
	return s.reconcile
}

// CreateInput describes a new batch.
type CreateInput struct {
	ItemID          id.ID       `json:"itemId"`
	LocationID      *id.ID      `json:"locationId,omitempty"`
	AssignedUserID  *id.ID      `json:"assignedUserId,omitempty"`
	Quantity        int64       `json:"quantity"`
	Status          *Status     `json:"status,omitempty"`
	CostPerUnitUSD  types.Money `json:"costPerUnitUSD"`
	FreightCostUSD  types.Money `json:"freightCostUSD"`
	OrderNumber     string      `json:"orderNumber,omitempty"`
	OrderDate       *time.Time  `json:"orderDate,omitempty"`
	ExpectedArrival *time.Time  `json:"expectedArrival,omitempty"`
	ArrivedDate     *time.Time  `json:"arrivedDate,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
}

// CreateResult is the outcome of a create: either a fresh batch or an
// existing one the quantity was merged into.
type CreateResult struct {
	Batch        *StockBatch `json:"batch"`
	Consolidated bool        `json:"consolidated"`
}

// DeleteResult reports the cash returned by a delete.
type DeleteResult struct {
	RefundedUSD types.Money `json:"refundedUSD"`
}

// TransferInput moves stock to another location. A nil Quantity moves the
// whole batch.
type TransferInput struct {
	BatchID      id.ID  `json:"-"`
	ToLocationID id.ID  `json:"toLocationId"`
	Quantity     *int64 `json:"quantity,omitempty"`
}

// TransferResult reports the outcome of a transfer. NewBatch is set only
// for partial transfers that split the lot.
type TransferResult struct {
	Batch       *StockBatch `json:"batch"`
	NewBatch    *StockBatch `json:"newBatch,omitempty"`
	Transferred int64       `json:"transferred"`
}

// withRetry reruns fn in a fresh transaction after optimistic locking or
// serialization failures. Exhausted retries surface as internal errors.
func (s *Service) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = s.txManager.RunInTransaction(ctx, fn)
		if err == nil || !apperror.IsConcurrentModification(err) {
			return err
		}
		logger.Warn(ctx, "batch operation conflicted, retrying",
			"attempt", attempt,
			"error", err,
		)
	}
	return apperror.NewInternal(err).WithDetail("reason", "retries exhausted")
}

// Create creates a batch or merges the quantity into an existing batch
// with the same item, location, status, cost and freight. Sold batches
// never consolidate. Creating directly in ordered commits cash.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	status := StatusToOrder
	if in.Status != nil {
		status = *in.Status
	}
	if !status.IsValid() {
		return nil, apperror.NewValidation("unknown status").WithDetail("status", string(status))
	}
	if in.Quantity < 0 {
		return nil, apperror.NewValidation("quantity cannot be negative").
			WithDetail("quantity", in.Quantity)
	}

	var res *CreateResult
	err := s.withRetry(ctx, func(ctx context.Context) error {
		it, err := s.items.GetByID(ctx, in.ItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("item", in.ItemID.String())
			}
			return err
		}
		if !it.UseBatchSystem {
			return apperror.NewValidation("item does not use batch tracking").
				WithDetail("itemId", in.ItemID.String())
		}
		if err := s.checkLocation(ctx, in.LocationID, it); err != nil {
			return err
		}

		b := &StockBatch{
			BaseRecord:       entity.NewBaseRecord(),
			ItemID:           in.ItemID,
			LocationID:       in.LocationID,
			AssignedUserID:   in.AssignedUserID,
			Quantity:         in.Quantity,
			OriginalQuantity: in.Quantity,
			Status:           status,
			CostPerUnitUSD:   in.CostPerUnitUSD,
			FreightCostUSD:   in.FreightCostUSD,
			OrderNumber:      in.OrderNumber,
			OrderDate:        in.OrderDate,
			ExpectedArrival:  in.ExpectedArrival,
			ArrivedDate:      in.ArrivedDate,
			Notes:            in.Notes,
		}
		if err := b.Validate(ctx); err != nil {
			return err
		}

		if b.OrderNumber == "" {
			num, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig(orderNumberPrefix), time.Now())
			if err != nil {
				return err
			}
			b.OrderNumber = num
		}
		if b.Status == StatusArrived && b.ArrivedDate == nil {
			now := time.Now().UTC()
			b.ArrivedDate = &now
		}

		if b.Status == StatusOrdered {
			if err := s.cash.DebitUSD(ctx, it.CompanyID, b.Commitment()); err != nil {
				return err
			}
		}

		if b.Status != StatusSold {
			target, err := s.repo.FindConsolidationTarget(ctx, b.Key())
			if err != nil {
				return err
			}
			if target != nil {
				target.Quantity += in.Quantity
				target.OriginalQuantity += in.Quantity
				appendMergeNote(target, in.Quantity)
				if err := s.repo.Update(ctx, target); err != nil {
					return err
				}
				if err := s.reconcile.Reconcile(ctx, in.ItemID); err != nil {
					return err
				}
				res = &CreateResult{Batch: target, Consolidated: true}
				return nil
			}
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		if err := s.reconcile.Reconcile(ctx, in.ItemID); err != nil {
			return err
		}
		res = &CreateResult{Batch: b, Consolidated: false}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "batch.create", res.Batch.ID, res.Batch.ItemID, map[string]any{
		"quantity":     in.Quantity,
		"status":       string(res.Batch.Status),
		"consolidated": res.Consolidated,
	})
	logger.Info(ctx, "batch created",
		"batch_id", res.Batch.ID,
		"item_id", res.Batch.ItemID,
		"order_number", res.Batch.OrderNumber,
		"consolidated", res.Consolidated,
	)
	return res, nil
}

// Update applies a partial update to a batch. Status transitions run the
// side effects from the transition table; an unchanged status never moves
// cash. When an update both transitions to arrived and supplies an
// arrival date, the automatic stamp wins.
func (s *Service) Update(ctx context.Context, batchID id.ID, patch Patch) (*StockBatch, error) {
	var updated *StockBatch
	err := s.withRetry(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock batch", batchID.String())
			}
			return err
		}

		prevStatus := b.Status
		prevCommitment := b.Commitment()

		patch.Apply(b)
		if err := b.Validate(ctx); err != nil {
			return err
		}

		it, err := s.items.GetByID(ctx, b.ItemID)
		if err != nil {
			return err
		}
		if patch.LocationID.Set {
			if err := s.checkLocation(ctx, b.LocationID, it); err != nil {
				return err
			}
		}

		for _, ef := range effectsFor(prevStatus, b.Status) {
			switch ef {
			case EffectRefundCommitment:
				if err := s.cash.CreditUSD(ctx, it.CompanyID, prevCommitment); err != nil {
					return err
				}
			case EffectDebitCommitment:
				if err := s.cash.DebitUSD(ctx, it.CompanyID, b.Commitment()); err != nil {
					return err
				}
			case EffectStampArrival:
				now := time.Now().UTC()
				b.ArrivedDate = &now
			}
		}

		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		if err := s.reconcile.Reconcile(ctx, b.ItemID); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "batch.update", updated.ID, updated.ItemID, map[string]any{
		"status":   string(updated.Status),
		"quantity": updated.Quantity,
	})
	logger.Info(ctx, "batch updated", "batch_id", batchID, "status", updated.Status)
	return updated, nil
}

// Delete removes a batch. Deleting a batch with committed cash refunds
// the full commitment.
func (s *Service) Delete(ctx context.Context, batchID id.ID) (*DeleteResult, error) {
	refunded := types.Zero()
	var itemID id.ID
	err := s.withRetry(ctx, func(ctx context.Context) error {
		refunded = types.Zero()
		b, err := s.repo.GetForUpdate(ctx, batchID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock batch", batchID.String())
			}
			return err
		}
		itemID = b.ItemID

		if b.Status.IsCommitted() {
			it, err := s.items.GetByID(ctx, b.ItemID)
			if err != nil {
				return err
			}
			amount := b.Commitment()
			if err := s.cash.CreditUSD(ctx, it.CompanyID, amount); err != nil {
				return err
			}
			refunded = amount
		}

		if err := s.repo.Delete(ctx, batchID); err != nil {
			return err
		}
		return s.reconcile.Reconcile(ctx, b.ItemID)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "batch.delete", batchID, itemID, map[string]any{
		"refunded_usd": refunded.String(),
	})
	logger.Info(ctx, "batch deleted", "batch_id", batchID, "refunded_usd", refunded.String())
	return &DeleteResult{RefundedUSD: refunded}, nil
}

// Transfer moves stock to another location. A full transfer relocates the
// batch; a partial transfer splits it, cloning every attribute except id,
// quantity and location onto the new batch. Totals are conserved.
func (s *Service) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	var res *TransferResult
	err := s.withRetry(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, in.BatchID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock batch", in.BatchID.String())
			}
			return err
		}

		it, err := s.items.GetByID(ctx, b.ItemID)
		if err != nil {
			return err
		}
		loc, err := s.locations.GetByID(ctx, in.ToLocationID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("location", in.ToLocationID.String())
			}
			return err
		}
		if loc.CompanyID != it.CompanyID {
			return apperror.NewValidation("location belongs to a different company").
				WithDetail("locationId", in.ToLocationID.String()).
				WithDetail("itemCompanyId", it.CompanyID.String())
		}

		qty := b.Quantity
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if qty <= 0 {
			return apperror.NewValidation("transfer quantity must be positive").
				WithDetail("quantity", qty)
		}
		if qty > b.Quantity {
			return apperror.NewValidation("transfer quantity exceeds batch quantity").
				WithDetail("quantity", qty).
				WithDetail("available", b.Quantity)
		}

		if qty == b.Quantity {
			to := in.ToLocationID
			b.LocationID = &to
			if err := s.repo.Update(ctx, b); err != nil {
				return err
			}
			res = &TransferResult{Batch: b, Transferred: qty}
		} else {
			b.Quantity -= qty
			if err := s.repo.Update(ctx, b); err != nil {
				return err
			}

			split := b.split(qty, in.ToLocationID)
			if err := s.repo.Create(ctx, split); err != nil {
				return err
			}
			res = &TransferResult{Batch: b, NewBatch: split, Transferred: qty}
		}

		return s.reconcile.Reconcile(ctx, b.ItemID)
	})
	if err != nil {
		return nil, err
	}

	changes := map[string]any{
		"to_location_id": in.ToLocationID.String(),
		"transferred":    res.Transferred,
	}
	if res.NewBatch != nil {
		changes["new_batch_id"] = res.NewBatch.ID.String()
	}
	s.recordAudit(ctx, "batch.transfer", res.Batch.ID, res.Batch.ItemID, changes)
	logger.Info(ctx, "batch transferred",
		"batch_id", in.BatchID,
		"to_location_id", in.ToLocationID,
		"transferred", res.Transferred,
		"split", res.NewBatch != nil,
	)
	return res, nil
}

// GetByID retrieves a batch.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*StockBatch, error) {
	b, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("stock batch", batchID.String())
		}
		return nil, err
	}
	return b, nil
}

// ListByItem returns all batches of an item, newest first.
func (s *Service) ListByItem(ctx context.Context, itemID id.ID) ([]*StockBatch, error) {
	return s.repo.ListByItem(ctx, itemID)
}

// appendMergeNote records a consolidation on the target batch's notes so
// the merged purchase stays visible in its history.
func appendMergeNote(b *StockBatch, qty int64) {
	note := fmt.Sprintf("merged %d units on %s", qty, time.Now().UTC().Format("2006-01-02"))
	if b.Notes != nil && *b.Notes != "" {
		note = *b.Notes + "\n" + note
	}
	b.Notes = &note
}

// split clones b into a new batch carrying qty units at the target
// location. Everything except id, quantity and location is copied.
func (b *StockBatch) split(qty int64, toLocation id.ID) *StockBatch {
	clone := *b
	clone.BaseRecord = entity.NewBaseRecord()
	clone.Quantity = qty
	to := toLocation
	clone.LocationID = &to
	if b.Notes != nil {
		n := *b.Notes
		clone.Notes = &n
	}
	if b.AssignedUserID != nil {
		u := *b.AssignedUserID
		clone.AssignedUserID = &u
	}
	return &clone
}

func (s *Service) checkLocation(ctx context.Context, locationID *id.ID, it *item.Item) error {
	if locationID == nil {
		return nil
	}
	loc, err := s.locations.GetByID(ctx, *locationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("location does not exist").
				WithDetail("locationId", locationID.String())
		}
		return err
	}
	if loc.CompanyID != it.CompanyID {
		return apperror.NewValidation("location belongs to a different company").
			WithDetail("locationId", locationID.String()).
			WithDetail("locationCompanyId", loc.CompanyID.String()).
			WithDetail("itemCompanyId", it.CompanyID.String())
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action string, batchID, itemID id.ID, changes map[string]any) {
	if s.audit == nil {
		return
	}
	event := AuditEvent{
		Action:  action,
		BatchID: batchID,
		ItemID:  itemID,
		Changes: changes,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}
