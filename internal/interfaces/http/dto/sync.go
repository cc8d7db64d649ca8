package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordersync/backend/internal/domain/ordersync"
)

// RecordListRequest filters the sync record listing
type RecordListRequest struct {
	ListRequest
	Status         string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED"`
	CounterpartyID uint   `form:"counterparty_id"`
	From           string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To             string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter converts the request to a domain record filter
func (r *RecordListRequest) ToFilter() ordersync.RecordFilter {
	filter := ordersync.RecordFilter{
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if r.Status != "" {
		status := ordersync.SyncStatus(r.Status)
		filter.Status = &status
	}
	if r.CounterpartyID != 0 {
		filter.CounterpartyID = &r.CounterpartyID
	}
	if from, err := time.Parse("2006-01-02", r.From); err == nil && r.From != "" {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", r.To); err == nil && r.To != "" {
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter
}

// SyncRecordResponse is the API view of one sync outcome record
type SyncRecordResponse struct {
	ID               uint            `json:"id"`
	OrderID          string          `json:"order_id"`
	CounterpartyID   uint            `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name,omitempty"`
	OrderMoment      time.Time       `json:"order_moment"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	SyncTime         *time.Time      `json:"sync_time,omitempty"`
	Status           string          `json:"status"`
	Message          string          `json:"message,omitempty"`
	PurchaseID       string          `json:"purchase_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewSyncRecordResponse builds the response for one record
func NewSyncRecordResponse(r *ordersync.SyncRecord) SyncRecordResponse {
	resp := SyncRecordResponse{
		ID:             r.ID,
		OrderID:        r.OrderID,
		CounterpartyID: r.CounterpartyID,
		OrderMoment:    r.OrderMoment,
		OrderAmount:    r.OrderAmount,
		SyncTime:       r.SyncTime,
		Status:         string(r.Status),
		Message:        r.Message,
		PurchaseID:     r.PurchaseID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Counterparty != nil {
		resp.CounterpartyName = r.Counterparty.SourceName
	}
	return resp
}

// NewSyncRecordListResponse builds the response for a record listing
func NewSyncRecordListResponse(records []ordersync.SyncRecord) []SyncRecordResponse {
	out := make([]SyncRecordResponse, len(records))
	for i := range records {
		out[i] = NewSyncRecordResponse(&records[i])
	}
	return out
}

// SyncStatusResponse reports the trigger state
type SyncStatusResponse struct {
	SchedulerRunning bool       `json:"scheduler_running"`
	LastRun          *time.Time `json:"last_run,omitempty"`
	NextRun          *time.Time `json:"next_run,omitempty"`
}

// SearchRequest carries the free-text term for remote entity searches
type SearchRequest struct {
	Query string `form:"q" binding:"required"`
}
