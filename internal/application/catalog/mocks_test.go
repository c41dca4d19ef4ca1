package catalog

import (
	"context"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByCriteria(ctx context.Context, tenantID uuid.UUID, criteria catalog.ProductCriteria) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, criteria)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) SubtreeIDs(ctx context.Context, tenantID uuid.UUID, roots []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID, roots)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockUomRepository is a mock implementation of UomRepository
type MockUomRepository struct {
	mock.Mock
}

func (m *MockUomRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.UnitOfMeasure, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUomRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.UnitOfMeasure, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUomRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]catalog.UnitOfMeasure, error) {
	args := m.Called(ctx, tenantID, category)
	return args.Get(0).([]catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUomRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.UnitOfMeasure, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalog.UnitOfMeasure), args.Error(1)
}

func (m *MockUomRepository) Save(ctx context.Context, uom *catalog.UnitOfMeasure) error {
	args := m.Called(ctx, uom)
	return args.Error(0)
}

// MockPricelistRepository is a mock implementation of PricelistRepository
type MockPricelistRepository struct {
	mock.Mock
}

func (m *MockPricelistRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Pricelist, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Pricelist), args.Error(1)
}

func (m *MockPricelistRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Pricelist, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalog.Pricelist), args.Error(1)
}

func (m *MockPricelistRepository) Save(ctx context.Context, pricelist *catalog.Pricelist) error {
	args := m.Called(ctx, pricelist)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
