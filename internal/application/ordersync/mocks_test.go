package ordersync

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/ordersync/backend/internal/domain/ordersync"
)

// MockRemoteClient is a mock implementation of domain.RemoteClient
type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) ListOrders(ctx context.Context, counterpartyIDs, stateIDs []string, minMoment string) ([]domain.Order, error) {
	args := m.Called(ctx, counterpartyIDs, stateIDs, minMoment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockRemoteClient) ListPositions(ctx context.Context, orderID string) ([]domain.Position, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Position), args.Error(1)
}

func (m *MockRemoteClient) ProductExternalCode(ctx context.Context, productID string, isBundle bool) (string, error) {
	args := m.Called(ctx, productID, isBundle)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteClient) FindProductByExternalCode(ctx context.Context, code string, isBundle bool) (*domain.Reference, error) {
	args := m.Called(ctx, code, isBundle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reference), args.Error(1)
}

func (m *MockRemoteClient) CreatePurchaseOrder(ctx context.Context, payload *domain.PurchaseOrder) (*domain.CreateResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateResult), args.Error(1)
}

func (m *MockRemoteClient) SearchCounterparties(ctx context.Context, term string) ([]domain.EntityHit, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityHit), args.Error(1)
}

func (m *MockRemoteClient) SearchOrganizations(ctx context.Context, term string) ([]domain.EntityHit, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityHit), args.Error(1)
}

func (m *MockRemoteClient) SearchDepartments(ctx context.Context, term string) ([]domain.EntityHit, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityHit), args.Error(1)
}

func (m *MockRemoteClient) SearchEmployees(ctx context.Context, term string) ([]domain.EntityHit, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityHit), args.Error(1)
}

func (m *MockRemoteClient) SearchWarehouses(ctx context.Context, term string) ([]domain.EntityHit, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityHit), args.Error(1)
}

// MockMappingRepository is a mock implementation of domain.MappingRepository
type MockMappingRepository struct {
	mock.Mock
}

func (m *MockMappingRepository) Create(ctx context.Context, mapping *domain.CounterpartyMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingRepository) Update(ctx context.Context, mapping *domain.CounterpartyMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMappingRepository) FindByID(ctx context.Context, id uint) (*domain.CounterpartyMapping, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CounterpartyMapping), args.Error(1)
}

func (m *MockMappingRepository) FindBySourceID(ctx context.Context, sourceID string) (*domain.CounterpartyMapping, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CounterpartyMapping), args.Error(1)
}

func (m *MockMappingRepository) FindAll(ctx context.Context) ([]domain.CounterpartyMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CounterpartyMapping), args.Error(1)
}

func (m *MockMappingRepository) ListSourceIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMappingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRecordRepository is a mock implementation of domain.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, record *domain.SyncRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Update(ctx context.Context, record *domain.SyncRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uint) (*domain.SyncRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncRecord), args.Error(1)
}

func (m *MockRecordRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context, filter domain.RecordFilter) ([]domain.SyncRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.SyncRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) CountByStatus(ctx context.Context, status domain.SyncStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
