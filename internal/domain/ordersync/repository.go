package ordersync

import (
	"context"
	"time"
)

// MappingRepository persists counterparty mappings.
type MappingRepository interface {
	Create(ctx context.Context, m *CounterpartyMapping) error
	Update(ctx context.Context, m *CounterpartyMapping) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*CounterpartyMapping, error)
	FindBySourceID(ctx context.Context, sourceID string) (*CounterpartyMapping, error)
	FindAll(ctx context.Context) ([]CounterpartyMapping, error)
	// ListSourceIDs returns the source counterparty ids of all mappings,
	// the tracked set the batch driver filters orders by.
	ListSourceIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// RecordFilter narrows sync record listings.
type RecordFilter struct {
	Status         *SyncStatus
	CounterpartyID *uint
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

// RecordRepository persists sync outcome records.
type RecordRepository interface {
	Create(ctx context.Context, r *SyncRecord) error
	Update(ctx context.Context, r *SyncRecord) error
	FindByID(ctx context.Context, id uint) (*SyncRecord, error)
	// ExistsByOrderID reports whether any record, of any status, exists for
	// the source order id. The batch driver's dedup skip relies on this.
	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)
	List(ctx context.Context, filter RecordFilter) ([]SyncRecord, int64, error)
	CountByStatus(ctx context.Context, status SyncStatus) (int64, error)
}
