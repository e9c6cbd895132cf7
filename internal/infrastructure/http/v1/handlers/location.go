package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/domain/catalogs/location"
	"stocklot/internal/infrastructure/http/v1/dto"
)

// LocationHandler handles HTTP requests for Locations.
type LocationHandler struct {
	*CatalogHandler[*location.Location, dto.CreateLocationRequest, dto.UpdateLocationRequest]
	service *location.Service
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(base *BaseHandler, service *location.Service) *LocationHandler {
	config := CatalogHandlerConfig[
		*location.Location,
		dto.CreateLocationRequest,
		dto.UpdateLocationRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "location",

		MapCreateDTO: func(req dto.CreateLocationRequest) (*location.Location, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateLocationRequest, existing *location.Location) *location.Location {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *location.Location) any {
			return dto.FromLocation(entity)
		},
	}

	return &LocationHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ListByCompany handles GET /companies/:id/locations.
func (h *LocationHandler) ListByCompany(c *gin.Context) {
	ctx := c.Request.Context()

	companyID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	locations, err := h.service.ListByCompany(ctx, companyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.LocationResponse, len(locations))
	for i, l := range locations {
		items[i] = dto.FromLocation(l)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
