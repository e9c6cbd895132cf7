// Package company provides the Company catalog.
// A company is an independent organization owning items, locations and the
// cash balances the batch ledger debits and credits.
package company

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/entity"
	"stocklot/internal/core/types"
)

// Company represents an organization with its own inventory and cash.
type Company struct {
	entity.Catalog

	// CashBalanceSRD is the balance in Surinamese dollars
	CashBalanceSRD types.Money `db:"cash_balance_srd" json:"cashBalanceSRD"`

	// CashBalanceUSD is the balance in US dollars. Batch and legacy item
	// commitments are debited from this balance.
	CashBalanceUSD types.Money `db:"cash_balance_usd" json:"cashBalanceUSD"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewCompany creates a new Company with required fields.
func NewCompany(code, name string) *Company {
	return &Company{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.CashBalanceSRD.IsNegative() || c.CashBalanceUSD.IsNegative() {
		return apperror.NewValidation("cash balance cannot be negative").
			WithDetail("cashBalanceSRD", c.CashBalanceSRD.String()).
			WithDetail("cashBalanceUSD", c.CashBalanceUSD.String())
	}

	return nil
}

// Balance returns the balance held in the given currency.
func (c *Company) Balance(currency types.Currency) types.Money {
	if currency == types.CurrencySRD {
		return c.CashBalanceSRD
	}
	return c.CashBalanceUSD
}
