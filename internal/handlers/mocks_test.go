package handlers

import (
	"context"

	"github.com/ecolehub/sel/internal/models"
	"github.com/ecolehub/sel/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, fromID uuid.UUID, req services.CreateTransactionRequest) (*models.Transaction, error) {
	args := m.Called(fromID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) Approve(ctx context.Context, transactionID, approverID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(transactionID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) Cancel(ctx context.Context, transactionID, cancellerID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(transactionID, cancellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) Get(ctx context.Context, transactionID, memberID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(transactionID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) ListForMember(ctx context.Context, memberID uuid.UUID, status *models.TransactionStatus, limit int) ([]*models.Transaction, error) {
	args := m.Called(memberID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockLedger) Dashboard(ctx context.Context, memberID uuid.UUID) (*models.Dashboard, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

type MockBalances struct {
	mock.Mock
}

func (m *MockBalances) GetOrCreate(ctx context.Context, memberID uuid.UUID) (*models.Balance, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalances) Limits() models.Limits {
	return models.DefaultLimits()
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalog) CreateService(ctx context.Context, ownerID uuid.UUID, req services.CreateServiceRequest) (*models.Service, error) {
	args := m.Called(ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCatalog) ListAvailable(ctx context.Context, excludingMemberID uuid.UUID, category string, limit int) ([]*models.Service, error) {
	args := m.Called(excludingMemberID, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCatalog) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*models.Service, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockCatalog) Deactivate(ctx context.Context, serviceID, ownerID uuid.UUID) (*models.Service, error) {
	args := m.Called(serviceID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) SELAnalytics(ctx context.Context) (*models.Analytics, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analytics), args.Error(1)
}
