package ordersync

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncStatus is the terminal state of one sync attempt for one source order
type SyncStatus string

const (
	SyncStatusPending   SyncStatus = "PENDING"
	SyncStatusCompleted SyncStatus = "COMPLETED"
	SyncStatusFailed    SyncStatus = "FAILED"
)

// SyncRecord is the persisted outcome of one synchronization attempt for one
// source order. At most one record exists per source order id; a retry
// overwrites the existing record rather than creating a second one.
type SyncRecord struct {
	ID uint

	// OrderID is the stable source-system order identifier.
	OrderID string

	// CounterpartyID links to the mapping used for the attempt.
	CounterpartyID uint
	Counterparty   *CounterpartyMapping

	// Captured from the source order for reporting.
	OrderMoment time.Time
	OrderAmount decimal.Decimal

	// SyncTime is when the last write to this record occurred. Nil until the
	// first outcome is written.
	SyncTime *time.Time

	Status  SyncStatus
	Message string
	Details string

	// PurchaseID is the destination purchase order id, set only on COMPLETED.
	PurchaseID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
