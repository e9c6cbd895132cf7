package item

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/tx"
	"stocklot/internal/domain"
	"stocklot/internal/domain/cashflow"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/internal/domain/catalogs/location"
	"stocklot/pkg/logger"
)

// Service provides business logic for items, including the item-level
// cash commitment used when an item does not track stock through batches.
//
// Legacy semantics: a non-batch item commits cash while its status is
// to_order. Entering that state debits cost*quantity+freight from the
// incoming values; leaving it refunds the amount computed from the values
// stored before the update.
type Service struct {
	*domain.CatalogService[*Item]

	repo      Repository
	companies company.Repository
	locations location.Repository
	cash      *cashflow.Coordinator
	txManager tx.Manager
}

// NewService creates an item service.
func NewService(
	repo Repository,
	companies company.Repository,
	locations location.Repository,
	cash *cashflow.Coordinator,
	txManager tx.Manager,
) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "item",
		}),
		repo:      repo,
		companies: companies,
		locations: locations,
		cash:      cash,
		txManager: txManager,
	}
}

// Create creates a new item. Creating a non-batch item directly in
// to_order counts as entering the committed state and debits cash.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, it); err != nil {
			return err
		}

		if !it.UseBatchSystem && it.Status == StatusToOrder {
			if err := s.cash.DebitUSD(ctx, it.CompanyID, it.Commitment()); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, it); err != nil {
			return err
		}

		logger.Info(ctx, "item created",
			"item_id", it.ID,
			"company_id", it.CompanyID,
			"use_batch_system", it.UseBatchSystem,
		)
		return nil
	})
}

// Update applies a partial update. Cash effects fire only on actual
// transitions of the legacy committed state, never on updates that leave
// the status unchanged.
func (s *Service) Update(ctx context.Context, itemID id.ID, patch Patch) (*Item, error) {
	var updated *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("item", itemID.String())
			}
			return err
		}

		prevCommitted := !it.UseBatchSystem && it.Status == StatusToOrder
		prevCommitment := it.Commitment()

		patch.Apply(it)
		if err := it.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, it); err != nil {
			return err
		}

		nowCommitted := !it.UseBatchSystem && it.Status == StatusToOrder

		// Refund before debit so a flag flip inside to_order nets out
		// against the current balance.
		if prevCommitted && !nowCommitted {
			if err := s.cash.CreditUSD(ctx, it.CompanyID, prevCommitment); err != nil {
				return err
			}
		}
		if nowCommitted && !prevCommitted {
			if err := s.cash.DebitUSD(ctx, it.CompanyID, it.Commitment()); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, it); err != nil {
			return err
		}
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item updated", "item_id", itemID)
	return updated, nil
}

// Delete soft-deletes an item, refunding an open legacy commitment.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("item", itemID.String())
			}
			return err
		}

		if !it.UseBatchSystem && it.Status == StatusToOrder {
			if err := s.cash.CreditUSD(ctx, it.CompanyID, it.Commitment()); err != nil {
				return err
			}
		}

		return s.repo.SetDeletionMark(ctx, itemID, true)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "item deleted", "item_id", itemID)
	return nil
}

// checkReferences validates the company exists and the location, when set,
// belongs to the same company.
func (s *Service) checkReferences(ctx context.Context, it *Item) error {
	ok, err := s.companies.Exists(ctx, it.CompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("company does not exist").
			WithDetail("companyId", it.CompanyID.String())
	}

	if it.LocationID != nil {
		loc, err := s.locations.GetByID(ctx, *it.LocationID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("location does not exist").
					WithDetail("locationId", it.LocationID.String())
			}
			return err
		}
		if loc.CompanyID != it.CompanyID {
			return apperror.NewValidation("location belongs to a different company").
				WithDetail("locationId", it.LocationID.String()).
				WithDetail("locationCompanyId", loc.CompanyID.String()).
				WithDetail("itemCompanyId", it.CompanyID.String())
		}
	}

	return nil
}
