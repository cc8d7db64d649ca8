package dto

import (
	"time"

	"github.com/ordersync/backend/internal/domain/ordersync"
)

// EntityBinding is one named destination entity choice, kept exactly as the
// destination search endpoint returned it
type EntityBinding struct {
	Name string              `json:"name"`
	Meta ordersync.Reference `json:"meta"`
}

// SourceBinding identifies the tracked source counterparty
type SourceBinding struct {
	ID   string              `json:"id" binding:"required"`
	Name string              `json:"name"`
	Meta ordersync.Reference `json:"meta"`
}

// MappingRequest creates or updates a counterparty mapping
type MappingRequest struct {
	Source       SourceBinding `json:"source" binding:"required"`
	Organization EntityBinding `json:"organization" binding:"required"`
	Department   EntityBinding `json:"department" binding:"required"`
	Employee     EntityBinding `json:"employee" binding:"required"`
	Warehouse    EntityBinding `json:"warehouse" binding:"required"`
}

// ToDomain converts the request to a domain mapping
func (r *MappingRequest) ToDomain() *ordersync.CounterpartyMapping {
	return &ordersync.CounterpartyMapping{
		SourceID:         r.Source.ID,
		SourceName:       r.Source.Name,
		SourceMeta:       r.Source.Meta,
		OrganizationName: r.Organization.Name,
		OrganizationMeta: r.Organization.Meta,
		DepartmentName:   r.Department.Name,
		DepartmentMeta:   r.Department.Meta,
		EmployeeName:     r.Employee.Name,
		EmployeeMeta:     r.Employee.Meta,
		WarehouseName:    r.Warehouse.Name,
		WarehouseMeta:    r.Warehouse.Meta,
	}
}

// MappingResponse is the API view of a counterparty mapping
type MappingResponse struct {
	ID           uint          `json:"id"`
	Source       SourceBinding `json:"source"`
	Organization EntityBinding `json:"organization"`
	Department   EntityBinding `json:"department"`
	Employee     EntityBinding `json:"employee"`
	Warehouse    EntityBinding `json:"warehouse"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewMappingResponse builds the response for one mapping
func NewMappingResponse(m *ordersync.CounterpartyMapping) MappingResponse {
	return MappingResponse{
		ID:           m.ID,
		Source:       SourceBinding{ID: m.SourceID, Name: m.SourceName, Meta: m.SourceMeta},
		Organization: EntityBinding{Name: m.OrganizationName, Meta: m.OrganizationMeta},
		Department:   EntityBinding{Name: m.DepartmentName, Meta: m.DepartmentMeta},
		Employee:     EntityBinding{Name: m.EmployeeName, Meta: m.EmployeeMeta},
		Warehouse:    EntityBinding{Name: m.WarehouseName, Meta: m.WarehouseMeta},
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// NewMappingListResponse builds the response for a mapping listing
func NewMappingListResponse(mappings []ordersync.CounterpartyMapping) []MappingResponse {
	out := make([]MappingResponse, len(mappings))
	for i := range mappings {
		out[i] = NewMappingResponse(&mappings[i])
	}
	return out
}
