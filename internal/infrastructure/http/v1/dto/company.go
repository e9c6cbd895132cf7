package dto

import (
	"stocklot/internal/core/types"
	"stocklot/internal/domain/catalogs/company"
)

// CreateCompanyRequest is the DTO for creating a company.
type CreateCompanyRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name" binding:"required"`
	CashBalanceSRD string `json:"cashBalanceSRD"`
	CashBalanceUSD string `json:"cashBalanceUSD"`
	Description    string `json:"description"`
}

func (r CreateCompanyRequest) ToEntity() (*company.Company, error) {
	c := company.NewCompany(r.Code, r.Name)
	if r.CashBalanceSRD != "" {
		srd, err := types.NewMoneyFromString(r.CashBalanceSRD)
		if err != nil {
			return nil, err
		}
		c.CashBalanceSRD = srd
	}
	if r.CashBalanceUSD != "" {
		usd, err := types.NewMoneyFromString(r.CashBalanceUSD)
		if err != nil {
			return nil, err
		}
		c.CashBalanceUSD = usd
	}
	if r.Description != "" {
		c.Description = &r.Description
	}
	return c, nil
}

// UpdateCompanyRequest is the DTO for updating a company.
// Balances are intentionally absent: they change only through
// deposits, withdrawals and batch cash effects.
type UpdateCompanyRequest struct {
	Version     int    `json:"version" binding:"required,min=1"`
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (r UpdateCompanyRequest) ApplyTo(c *company.Company) {
	c.Version = r.Version
	c.Code = r.Code
	c.Name = r.Name
	if r.Description != "" {
		c.Description = &r.Description
	} else {
		c.Description = nil
	}
}

// CompanyResponse is the DTO for returning company data.
type CompanyResponse struct {
	BaseResponse
	Code           string `json:"code"`
	Name           string `json:"name"`
	CashBalanceSRD string `json:"cashBalanceSRD"`
	CashBalanceUSD string `json:"cashBalanceUSD"`
	Description    string `json:"description,omitempty"`
}

func FromCompany(c *company.Company) CompanyResponse {
	return CompanyResponse{
		BaseResponse:   FromBaseEntity(c.BaseEntity),
		Code:           c.Code,
		Name:           c.Name,
		CashBalanceSRD: c.CashBalanceSRD.String(),
		CashBalanceUSD: c.CashBalanceUSD.String(),
		Description:    strOrEmpty(c.Description),
	}
}

// BalanceOperationRequest moves funds in or out of a company balance.
type BalanceOperationRequest struct {
	Currency string `json:"currency" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}
