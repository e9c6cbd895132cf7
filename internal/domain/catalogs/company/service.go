package company

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/tx"
	"stocklot/internal/core/types"
	"stocklot/internal/domain"
	"stocklot/pkg/logger"
)

// Service provides business logic for companies.
type Service struct {
	*domain.CatalogService[*Company]

	repo      Repository
	txManager tx.Manager
}

// NewService creates a company service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Company]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "company",
		}),
		repo:      repo,
		txManager: txManager,
	}
}

// Deposit adds funds to a company balance.
func (s *Service) Deposit(ctx context.Context, companyID id.ID, currency types.Currency, amount types.Money) (*Company, error) {
	if !currency.IsValid() {
		return nil, apperror.NewValidation("unsupported currency").WithDetail("currency", string(currency))
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperror.NewValidation("deposit amount must be positive").
			WithDetail("amount", amount.String())
	}

	var updated *Company
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.AdjustBalance(ctx, companyID, currency, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "company balance deposited",
		"company_id", companyID,
		"currency", currency,
		"amount", amount.String(),
	)
	return updated, nil
}

// Withdraw removes funds from a company balance. Fails when the balance
// would go negative.
func (s *Service) Withdraw(ctx context.Context, companyID id.ID, currency types.Currency, amount types.Money) (*Company, error) {
	if !currency.IsValid() {
		return nil, apperror.NewValidation("unsupported currency").WithDetail("currency", string(currency))
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperror.NewValidation("withdrawal amount must be positive").
			WithDetail("amount", amount.String())
	}

	var updated *Company
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, companyID)
		if err != nil {
			return err
		}
		if c.Balance(currency).LessThan(amount) {
			return apperror.NewInsufficientFunds(string(currency), amount.String(), c.Balance(currency).String())
		}
		updated, err = s.repo.AdjustBalance(ctx, companyID, currency, amount.Neg())
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "company balance withdrawn",
		"company_id", companyID,
		"currency", currency,
		"amount", amount.String(),
	)
	return updated, nil
}
