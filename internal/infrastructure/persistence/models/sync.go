package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordersync/backend/internal/domain/ordersync"
)

// CounterpartyMappingModel is the persistence model for the CounterpartyMapping
// domain entity. Entity references are stored as JSON documents so the exact
// meta returned by the remote search endpoints round-trips untouched.
type CounterpartyMappingModel struct {
	ID               uint   `gorm:"primaryKey"`
	SourceID         string `gorm:"type:varchar(64);not null;uniqueIndex:idx_counterparty_mapping_source"`
	SourceName       string `gorm:"type:varchar(255);not null"`
	SourceMeta       string `gorm:"type:jsonb;not null"`
	OrganizationName string `gorm:"type:varchar(255);not null"`
	OrganizationMeta string `gorm:"type:jsonb;not null"`
	DepartmentName   string `gorm:"type:varchar(255);not null"`
	DepartmentMeta   string `gorm:"type:jsonb;not null"`
	EmployeeName     string `gorm:"type:varchar(255);not null"`
	EmployeeMeta     string `gorm:"type:jsonb;not null"`
	WarehouseName    string `gorm:"type:varchar(255);not null"`
	WarehouseMeta    string `gorm:"type:jsonb;not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CounterpartyMappingModel) TableName() string {
	return "counterparty_mappings"
}

// ToDomain converts the persistence model to a domain CounterpartyMapping entity.
func (m *CounterpartyMappingModel) ToDomain() *ordersync.CounterpartyMapping {
	return &ordersync.CounterpartyMapping{
		ID:               m.ID,
		SourceID:         m.SourceID,
		SourceName:       m.SourceName,
		SourceMeta:       decodeReference(m.SourceMeta),
		OrganizationName: m.OrganizationName,
		OrganizationMeta: decodeReference(m.OrganizationMeta),
		DepartmentName:   m.DepartmentName,
		DepartmentMeta:   decodeReference(m.DepartmentMeta),
		EmployeeName:     m.EmployeeName,
		EmployeeMeta:     decodeReference(m.EmployeeMeta),
		WarehouseName:    m.WarehouseName,
		WarehouseMeta:    decodeReference(m.WarehouseMeta),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CounterpartyMapping entity.
func (m *CounterpartyMappingModel) FromDomain(cm *ordersync.CounterpartyMapping) {
	m.ID = cm.ID
	m.SourceID = cm.SourceID
	m.SourceName = cm.SourceName
	m.SourceMeta = encodeReference(cm.SourceMeta)
	m.OrganizationName = cm.OrganizationName
	m.OrganizationMeta = encodeReference(cm.OrganizationMeta)
	m.DepartmentName = cm.DepartmentName
	m.DepartmentMeta = encodeReference(cm.DepartmentMeta)
	m.EmployeeName = cm.EmployeeName
	m.EmployeeMeta = encodeReference(cm.EmployeeMeta)
	m.WarehouseName = cm.WarehouseName
	m.WarehouseMeta = encodeReference(cm.WarehouseMeta)
	m.CreatedAt = cm.CreatedAt
	m.UpdatedAt = cm.UpdatedAt
}

// CounterpartyMappingModelFromDomain creates a new persistence model from a domain entity.
func CounterpartyMappingModelFromDomain(cm *ordersync.CounterpartyMapping) *CounterpartyMappingModel {
	m := &CounterpartyMappingModel{}
	m.FromDomain(cm)
	return m
}

// SyncRecordModel is the persistence model for the SyncRecord domain entity.
// The unique index on order_id is what makes the dedup skip and the
// retry-in-place overwrite safe. CounterpartyID is a soft reference with no
// FK constraint: deleting a mapping leaves its records behind as history.
type SyncRecordModel struct {
	ID             uint                      `gorm:"primaryKey"`
	OrderID        string                    `gorm:"type:varchar(64);not null;uniqueIndex:idx_sync_record_order"`
	CounterpartyID uint                      `gorm:"not null;index"`
	Counterparty   *CounterpartyMappingModel `gorm:"foreignKey:CounterpartyID"`
	OrderMoment    time.Time                 `gorm:"not null"`
	OrderAmount    decimal.Decimal           `gorm:"type:numeric(14,2);not null"`
	SyncTime       *time.Time
	Status         string    `gorm:"type:varchar(16);not null;index"`
	Message        string    `gorm:"type:text"`
	Details        string    `gorm:"type:text"`
	PurchaseID     string    `gorm:"type:varchar(64)"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRecordModel) TableName() string {
	return "sync_records"
}

// ToDomain converts the persistence model to a domain SyncRecord entity.
func (m *SyncRecordModel) ToDomain() *ordersync.SyncRecord {
	record := &ordersync.SyncRecord{
		ID:             m.ID,
		OrderID:        m.OrderID,
		CounterpartyID: m.CounterpartyID,
		OrderMoment:    m.OrderMoment,
		OrderAmount:    m.OrderAmount,
		SyncTime:       m.SyncTime,
		Status:         ordersync.SyncStatus(m.Status),
		Message:        m.Message,
		Details:        m.Details,
		PurchaseID:     m.PurchaseID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Counterparty != nil {
		record.Counterparty = m.Counterparty.ToDomain()
	}
	return record
}

// FromDomain populates the persistence model from a domain SyncRecord entity.
func (m *SyncRecordModel) FromDomain(r *ordersync.SyncRecord) {
	m.ID = r.ID
	m.OrderID = r.OrderID
	m.CounterpartyID = r.CounterpartyID
	m.OrderMoment = r.OrderMoment
	m.OrderAmount = r.OrderAmount
	m.SyncTime = r.SyncTime
	m.Status = string(r.Status)
	m.Message = r.Message
	m.Details = r.Details
	m.PurchaseID = r.PurchaseID
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// SyncRecordModelFromDomain creates a new persistence model from a domain entity.
func SyncRecordModelFromDomain(r *ordersync.SyncRecord) *SyncRecordModel {
	m := &SyncRecordModel{}
	m.FromDomain(r)
	return m
}

// encodeReference serializes an entity reference to its JSON column form.
func encodeReference(ref ordersync.Reference) string {
	jsonBytes, err := json.Marshal(ref)
	if err != nil {
		return "{}"
	}
	return string(jsonBytes)
}

// decodeReference parses an entity reference from its JSON column form. A
// missing or malformed document yields a zero reference.
func decodeReference(raw string) ordersync.Reference {
	var ref ordersync.Reference
	if raw == "" {
		return ref
	}
	_ = json.Unmarshal([]byte(raw), &ref)
	return ref
}
