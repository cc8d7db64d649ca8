package handler

import (
	"github.com/gin-gonic/gin"

	syncapp "github.com/ordersync/backend/internal/application/ordersync"
	"github.com/ordersync/backend/internal/infrastructure/scheduler"
	"github.com/ordersync/backend/internal/interfaces/http/dto"
)

// SyncHandler exposes sync records, manual batch runs and retries
type SyncHandler struct {
	BaseHandler
	service *syncapp.Service
	trigger *scheduler.SyncTrigger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *syncapp.Service, trigger *scheduler.SyncTrigger) *SyncHandler {
	return &SyncHandler{service: service, trigger: trigger}
}

// ListRecords lists sync records with filtering and pagination
func (h *SyncHandler) ListRecords(c *gin.Context) {
	req := dto.RecordListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	records, total, err := h.service.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.NewSyncRecordListResponse(records), total, filter.Page, filter.PageSize)
}

// GetRecord returns one sync record
func (h *SyncHandler) GetRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid record id")
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncRecordResponse(record))
}

// RetryRecord reruns the sync for one recorded order
func (h *SyncHandler) RetryRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid record id")
		return
	}

	record, err := h.service.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncRecordResponse(record))
}

// RunSync triggers a batch run immediately. Returns 409 if a batch is
// already executing.
func (h *SyncHandler) RunSync(c *gin.Context) {
	result, err := h.trigger.RunNow(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncStatus reports the trigger state
func (h *SyncHandler) SyncStatus(c *gin.Context) {
	resp := dto.SyncStatusResponse{
		SchedulerRunning: h.trigger.IsRunning(),
	}
	if lastRun := h.trigger.LastRun(); !lastRun.IsZero() {
		resp.LastRun = &lastRun
	}
	if nextRun := h.trigger.NextRun(); !nextRun.IsZero() {
		resp.NextRun = &nextRun
	}
	h.Success(c, resp)
}

// SyncStats aggregates counts over mappings and records
func (h *SyncHandler) SyncStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// RegisterRoutes registers all sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("/records", h.ListRecords)
		sync.GET("/records/:id", h.GetRecord)
		sync.POST("/records/:id/retry", h.RetryRecord)
		sync.POST("/run", h.RunSync)
		sync.GET("/status", h.SyncStatus)
		sync.GET("/stats", h.SyncStats)
	}
}
