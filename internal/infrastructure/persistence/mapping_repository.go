package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ordersync/backend/internal/domain/ordersync"
	"github.com/ordersync/backend/internal/infrastructure/persistence/models"
)

// GormMappingRepository implements MappingRepository using GORM
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// Create inserts a new mapping
func (r *GormMappingRepository) Create(ctx context.Context, m *ordersync.CounterpartyMapping) error {
	model := models.CounterpartyMappingModelFromDomain(m)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ordersync.ErrMappingExists
		}
		return err
	}
	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	m.UpdatedAt = model.UpdatedAt
	return nil
}

// Update saves an existing mapping
func (r *GormMappingRepository) Update(ctx context.Context, m *ordersync.CounterpartyMapping) error {
	model := models.CounterpartyMappingModelFromDomain(m)
	result := r.db.WithContext(ctx).Model(&models.CounterpartyMappingModel{}).
		Where("id = ?", m.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordersync.ErrMappingNotFound
	}
	return nil
}

// Delete removes a mapping by its ID
func (r *GormMappingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CounterpartyMappingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordersync.ErrMappingNotFound
	}
	return nil
}

// FindByID finds a mapping by its ID
func (r *GormMappingRepository) FindByID(ctx context.Context, id uint) (*ordersync.CounterpartyMapping, error) {
	var model models.CounterpartyMappingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersync.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySourceID finds the mapping for a source counterparty id
func (r *GormMappingRepository) FindBySourceID(ctx context.Context, sourceID string) (*ordersync.CounterpartyMapping, error) {
	var model models.CounterpartyMappingModel
	if err := r.db.WithContext(ctx).First(&model, "source_id = ?", sourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordersync.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every mapping ordered by source name
func (r *GormMappingRepository) FindAll(ctx context.Context) ([]ordersync.CounterpartyMapping, error) {
	var mappingModels []models.CounterpartyMappingModel
	if err := r.db.WithContext(ctx).
		Order("source_name ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]ordersync.CounterpartyMapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// ListSourceIDs returns the source counterparty ids of all mappings
func (r *GormMappingRepository) ListSourceIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.CounterpartyMappingModel{}).
		Order("id ASC").
		Pluck("source_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Count counts all mappings
func (r *GormMappingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CounterpartyMappingModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMappingRepository implements MappingRepository
var _ ordersync.MappingRepository = (*GormMappingRepository)(nil)
