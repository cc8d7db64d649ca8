package mapping

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/ordersync"
	"github.com/ordersync/backend/internal/domain/shared"
)

// Service manages counterparty mappings: the operator-maintained table that
// decides which source counterparties are tracked and under which destination
// context their purchase orders are created.
type Service struct {
	mappings ordersync.MappingRepository
	logger   *zap.Logger
}

// NewService creates the mapping service
func NewService(mappings ordersync.MappingRepository, logger *zap.Logger) *Service {
	return &Service{
		mappings: mappings,
		logger:   logger.Named("mapping"),
	}
}

// validate checks the fields the sync engine cannot work without. Every
// destination group is a reference plus a display name; both are set together
// or the mapping is rejected.
func validate(m *ordersync.CounterpartyMapping) error {
	if m.SourceID == "" {
		return shared.NewDomainError("INVALID_MAPPING", "Source counterparty id is required")
	}
	groups := []struct {
		label string
		name  string
		href  string
	}{
		{"Organization", m.OrganizationName, m.OrganizationMeta.Href},
		{"Department", m.DepartmentName, m.DepartmentMeta.Href},
		{"Employee", m.EmployeeName, m.EmployeeMeta.Href},
		{"Warehouse", m.WarehouseName, m.WarehouseMeta.Href},
	}
	for _, g := range groups {
		if g.name == "" || g.href == "" {
			return shared.NewDomainError("INVALID_MAPPING", g.label+" reference and name are required")
		}
	}
	return nil
}

// CreateMapping registers a new tracked counterparty. At most one mapping may
// exist per source counterparty.
func (s *Service) CreateMapping(ctx context.Context, m *ordersync.CounterpartyMapping) error {
	if err := validate(m); err != nil {
		return err
	}

	_, err := s.mappings.FindBySourceID(ctx, m.SourceID)
	if err == nil {
		return ordersync.ErrMappingExists
	}
	if !errors.Is(err, ordersync.ErrMappingNotFound) {
		return err
	}

	if err := s.mappings.Create(ctx, m); err != nil {
		return err
	}

	s.logger.Info("Mapping created",
		zap.Uint("id", m.ID),
		zap.String("source_id", m.SourceID),
	)
	return nil
}

// UpdateMapping replaces an existing mapping's destination context. The
// source counterparty binding itself is immutable; delete and recreate to
// retarget a mapping.
func (s *Service) UpdateMapping(ctx context.Context, m *ordersync.CounterpartyMapping) error {
	if err := validate(m); err != nil {
		return err
	}

	current, err := s.mappings.FindByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if current.SourceID != m.SourceID {
		return shared.NewDomainError("INVALID_MAPPING", "Source counterparty of a mapping cannot change")
	}

	return s.mappings.Update(ctx, m)
}

// DeleteMapping removes a mapping. Existing sync records keep their
// counterparty id for history.
func (s *Service) DeleteMapping(ctx context.Context, id uint) error {
	if err := s.mappings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Mapping deleted", zap.Uint("id", id))
	return nil
}

// GetMapping returns one mapping by id
func (s *Service) GetMapping(ctx context.Context, id uint) (*ordersync.CounterpartyMapping, error) {
	return s.mappings.FindByID(ctx, id)
}

// ListMappings returns every configured mapping
func (s *Service) ListMappings(ctx context.Context) ([]ordersync.CounterpartyMapping, error) {
	return s.mappings.FindAll(ctx)
}
