package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ordersync/backend/internal/domain/ordersync"
	"github.com/ordersync/backend/internal/interfaces/http/dto"
)

// SearchHandler exposes remote entity searches backing the mapping
// configuration UI. Source searches find the counterparty to track;
// destination searches find the organizational context to create purchase
// orders under.
type SearchHandler struct {
	BaseHandler
	source      ordersync.RemoteClient
	destination ordersync.RemoteClient
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(source, destination ordersync.RemoteClient) *SearchHandler {
	return &SearchHandler{source: source, destination: destination}
}

// search binds the query term and runs one remote search
func (h *SearchHandler) search(c *gin.Context, fn func(ctx context.Context, term string) ([]ordersync.EntityHit, error)) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Query parameter q is required")
		return
	}

	hits, err := fn(c.Request.Context(), req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, hits)
}

// SearchSourceCounterparties searches source counterparties by name
func (h *SearchHandler) SearchSourceCounterparties(c *gin.Context) {
	h.search(c, h.source.SearchCounterparties)
}

// SearchOrganizations searches destination organizations
func (h *SearchHandler) SearchOrganizations(c *gin.Context) {
	h.search(c, h.destination.SearchOrganizations)
}

// SearchDepartments searches destination departments
func (h *SearchHandler) SearchDepartments(c *gin.Context) {
	h.search(c, h.destination.SearchDepartments)
}

// SearchEmployees searches destination employees
func (h *SearchHandler) SearchEmployees(c *gin.Context) {
	h.search(c, h.destination.SearchEmployees)
}

// SearchWarehouses searches destination warehouses
func (h *SearchHandler) SearchWarehouses(c *gin.Context) {
	h.search(c, h.destination.SearchWarehouses)
}

// RegisterRoutes registers all search routes
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	search := rg.Group("/search")
	{
		search.GET("/source/counterparties", h.SearchSourceCounterparties)

		destination := search.Group("/destination")
		{
			destination.GET("/organizations", h.SearchOrganizations)
			destination.GET("/departments", h.SearchDepartments)
			destination.GET("/employees", h.SearchEmployees)
			destination.GET("/warehouses", h.SearchWarehouses)
		}
	}
}
