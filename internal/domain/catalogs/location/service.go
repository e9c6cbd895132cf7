package location

import (
	"context"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/tx"
	"stocklot/internal/domain"
	"stocklot/internal/domain/catalogs/company"
)

// Service provides business logic for locations.
type Service struct {
	*domain.CatalogService[*Location]

	repo      Repository
	companies company.Repository
}

// NewService creates a location service. The company repository is used to
// reject locations pointing at missing companies.
func NewService(repo Repository, companies company.Repository, txManager tx.Manager) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Location]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "location",
		}),
		repo:      repo,
		companies: companies,
	}

	s.Hooks().OnBeforeCreate(s.checkCompany)
	s.Hooks().OnBeforeUpdate(s.checkCompany)

	return s
}

func (s *Service) checkCompany(ctx context.Context, l *Location) error {
	ok, err := s.companies.Exists(ctx, l.CompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("company does not exist").
			WithDetail("companyId", l.CompanyID.String())
	}
	return nil
}

// ListByCompany returns all locations of a company.
func (s *Service) ListByCompany(ctx context.Context, companyID id.ID) ([]*Location, error) {
	return s.repo.ListByCompany(ctx, companyID)
}
