package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/internal/infrastructure/http/v1/dto"
)

// CompanyHandler handles HTTP requests for Companies, including the
// balance endpoints used to fund the batch ledger.
type CompanyHandler struct {
	*CatalogHandler[*company.Company, dto.CreateCompanyRequest, dto.UpdateCompanyRequest]
	service *company.Service
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(base *BaseHandler, service *company.Service) *CompanyHandler {
	config := CatalogHandlerConfig[
		*company.Company,
		dto.CreateCompanyRequest,
		dto.UpdateCompanyRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "company",

		MapCreateDTO: func(req dto.CreateCompanyRequest) (*company.Company, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCompanyRequest, existing *company.Company) *company.Company {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *company.Company) any {
			return dto.FromCompany(entity)
		},
	}

	return &CompanyHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Deposit handles POST /companies/:id/deposit - add funds to a balance.
func (h *CompanyHandler) Deposit(c *gin.Context) {
	h.balanceOperation(c, h.service.Deposit)
}

// Withdraw handles POST /companies/:id/withdraw - remove funds from a balance.
func (h *CompanyHandler) Withdraw(c *gin.Context) {
	h.balanceOperation(c, h.service.Withdraw)
}

func (h *CompanyHandler) balanceOperation(
	c *gin.Context,
	op func(ctx context.Context, companyID id.ID, currency types.Currency, amount types.Money) (*company.Company, error),
) {
	ctx := c.Request.Context()

	companyID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.BalanceOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	amount, err := types.NewMoneyFromString(req.Amount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid amount").WithDetail("amount", req.Amount))
		return
	}

	updated, err := op(ctx, companyID, types.Currency(req.Currency), amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCompany(updated))
}
