// Package cashflow coordinates cash balance movements tied to inventory
// lifecycle events. Batch and legacy item commitments both go through the
// coordinator so the insufficient-funds check and the adjustment stay in
// one place.
package cashflow

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/pkg/logger"
)

// Coordinator debits and credits company balances.
// All methods must run inside an open transaction: the balance check and
// the adjustment rely on the row lock taken by GetForUpdate.
type Coordinator struct {
	companies company.Repository
}

// NewCoordinator creates a cash flow coordinator.
func NewCoordinator(companies company.Repository) *Coordinator {
	return &Coordinator{companies: companies}
}

// DebitUSD deducts amount from the company's USD balance.
// Returns an insufficient-funds error when the balance does not cover the
// amount; no partial deduction happens in that case.
func (c *Coordinator) DebitUSD(ctx context.Context, companyID id.ID, amount types.Money) error {
	if amount.IsNegative() {
		return apperror.NewValidation("debit amount cannot be negative").
			WithDetail("amount", amount.String())
	}
	if amount.IsZero() {
		return nil
	}

	comp, err := c.companies.GetForUpdate(ctx, companyID)
	if err != nil {
		return err
	}
	if comp.CashBalanceUSD.LessThan(amount) {
		return apperror.NewInsufficientFunds(
			string(types.CurrencyUSD),
			amount.String(),
			comp.CashBalanceUSD.String(),
		)
	}

	if _, err := c.companies.AdjustBalance(ctx, companyID, types.CurrencyUSD, amount.Neg()); err != nil {
		return err
	}

	logger.Debug(ctx, "cash committed",
		"company_id", companyID,
		"amount_usd", amount.String(),
	)
	return nil
}

// CreditUSD returns amount to the company's USD balance.
func (c *Coordinator) CreditUSD(ctx context.Context, companyID id.ID, amount types.Money) error {
	if amount.IsNegative() {
		return apperror.NewValidation("credit amount cannot be negative").
			WithDetail("amount", amount.String())
	}
	if amount.IsZero() {
		return nil
	}

	if _, err := c.companies.AdjustBalance(ctx, companyID, types.CurrencyUSD, amount); err != nil {
		return err
	}

	logger.Debug(ctx, "cash refunded",
		"company_id", companyID,
		"amount_usd", amount.String(),
	)
	return nil
}
