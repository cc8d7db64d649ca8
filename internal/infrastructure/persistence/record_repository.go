package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ordersync/backend/internal/domain/ordersync"
	"github.com/ordersync/backend/internal/infrastructure/persistence/models"
)

// GormRecordRepository implements RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// Create inserts a new sync record
func (r *GormRecordRepository) Create(ctx context.Context, record *ordersync.SyncRecord) error {
	model := models.SyncRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ordersync.ErrRecordExists
		}
		return err
	}
	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

// Update overwrites an existing sync record in place. A retry writes its new
// outcome through here so the row keeps its identity.
func (r *GormRecordRepository) Update(ctx context.Context, record *ordersync.SyncRecord) error {
	model := models.SyncRecordModelFromDomain(record)
	result := r.db.WithContext(ctx).Model(&models.SyncRecordModel{}).
		Where("id = ?", record.ID).
		Select("*").
		Omit("id", "order_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordersync.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a sync record by its ID, preloading its mapping
func (r *GormRecordRepository) FindByID(ctx context.Context, id uint) (*ordersync.SyncRecord, error) {
	var model models.SyncRecordModel
	if err := r.db.WithContext(ctx).
		Preload("Counterparty").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersync.ErrRecordNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByOrderID reports whether any record exists for the source order id,
// regardless of its status
func (r *GormRecordRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncRecordModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns sync records matching the filter plus the unpaginated total
func (r *GormRecordRepository) List(ctx context.Context, filter ordersync.RecordFilter) ([]ordersync.SyncRecord, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.SyncRecordModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SyncRecordModel{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var recordModels []models.SyncRecordModel
	if err := query.
		Preload("Counterparty").
		Order("order_moment DESC").
		Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]ordersync.SyncRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, total, nil
}

// CountByStatus counts sync records carrying one status
func (r *GormRecordRepository) CountByStatus(ctx context.Context, status ordersync.SyncStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncRecordModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormRecordRepository) applyFilter(query *gorm.DB, filter ordersync.RecordFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.From != nil {
		query = query.Where("order_moment >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("order_moment <= ?", *filter.To)
	}
	return query
}

// Ensure GormRecordRepository implements RecordRepository
var _ ordersync.RecordRepository = (*GormRecordRepository)(nil)
