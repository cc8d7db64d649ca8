package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	mappingapp "github.com/ordersync/backend/internal/application/mapping"
	"github.com/ordersync/backend/internal/interfaces/http/dto"
)

// MappingHandler exposes counterparty mapping management
type MappingHandler struct {
	BaseHandler
	service *mappingapp.Service
}

// NewMappingHandler creates a new MappingHandler
func NewMappingHandler(service *mappingapp.Service) *MappingHandler {
	return &MappingHandler{service: service}
}

// parseID parses the :id path parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ListMappings returns every configured mapping
func (h *MappingHandler) ListMappings(c *gin.Context) {
	mappings, err := h.service.ListMappings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewMappingListResponse(mappings))
}

// GetMapping returns one mapping by id
func (h *MappingHandler) GetMapping(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mapping id")
		return
	}

	mapping, err := h.service.GetMapping(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewMappingResponse(mapping))
}

// CreateMapping registers a new tracked counterparty
func (h *MappingHandler) CreateMapping(c *gin.Context) {
	var req dto.MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mapping := req.ToDomain()
	if err := h.service.CreateMapping(c.Request.Context(), mapping); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewMappingResponse(mapping))
}

// UpdateMapping replaces a mapping's destination context
func (h *MappingHandler) UpdateMapping(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mapping id")
		return
	}

	var req dto.MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mapping := req.ToDomain()
	mapping.ID = id
	if err := h.service.UpdateMapping(c.Request.Context(), mapping); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewMappingResponse(mapping))
}

// DeleteMapping removes a mapping
func (h *MappingHandler) DeleteMapping(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mapping id")
		return
	}

	if err := h.service.DeleteMapping(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all mapping routes
func (h *MappingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mappings := rg.Group("/mappings")
	{
		mappings.GET("", h.ListMappings)
		mappings.POST("", h.CreateMapping)
		mappings.GET("/:id", h.GetMapping)
		mappings.PUT("/:id", h.UpdateMapping)
		mappings.DELETE("/:id", h.DeleteMapping)
	}
}
