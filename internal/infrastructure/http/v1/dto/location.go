package dto

import (
	"stocklot/internal/core/id"
	"stocklot/internal/domain/catalogs/location"
)

// CreateLocationRequest is the DTO for creating a location.
type CreateLocationRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name" binding:"required"`
	CompanyID id.ID  `json:"companyId" binding:"required"`
	Address   string `json:"address"`
}

func (r CreateLocationRequest) ToEntity() *location.Location {
	l := location.NewLocation(r.Code, r.Name, r.CompanyID)
	if r.Address != "" {
		l.Address = &r.Address
	}
	return l
}

// UpdateLocationRequest is the DTO for updating a location.
type UpdateLocationRequest struct {
	Version   int    `json:"version" binding:"required,min=1"`
	Code      string `json:"code"`
	Name      string `json:"name" binding:"required"`
	CompanyID id.ID  `json:"companyId" binding:"required"`
	Address   string `json:"address"`
}

func (r UpdateLocationRequest) ApplyTo(l *location.Location) {
	l.Version = r.Version
	l.Code = r.Code
	l.Name = r.Name
	l.CompanyID = r.CompanyID
	if r.Address != "" {
		l.Address = &r.Address
	} else {
		l.Address = nil
	}
}

// LocationResponse is the DTO for returning location data.
type LocationResponse struct {
	BaseResponse
	Code      string `json:"code"`
	Name      string `json:"name"`
	CompanyID string `json:"companyId"`
	Address   string `json:"address,omitempty"`
}

func FromLocation(l *location.Location) LocationResponse {
	return LocationResponse{
		BaseResponse: FromBaseEntity(l.BaseEntity),
		Code:         l.Code,
		Name:         l.Name,
		CompanyID:    l.CompanyID.String(),
		Address:      strOrEmpty(l.Address),
	}
}
